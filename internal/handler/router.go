package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"matching-engine/internal/service"
	"matching-engine/internal/store"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all routes registered, request logging,
// and Content-Type validation middleware.
func NewRouter(
	orderSvc *service.OrderService,
	securitySvc *service.SecurityService,
	participantSvc *service.ParticipantService,
	events *store.EventLog,
	bookDepth int,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Create handlers.
	orderH := NewOrderHandler(orderSvc)
	securityH := NewSecurityHandler(securitySvc, bookDepth)
	participantH := NewParticipantHandler(participantSvc)
	eventH := NewEventHandler(events)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Security routes.
	r.Post("/securities", securityH.Create)
	r.Get("/securities/{isin}", securityH.Get)
	r.Get("/securities/{isin}/book", securityH.GetBook)
	r.Get("/securities/{isin}/opening-price", securityH.GetOpeningPrice)
	r.Put("/securities/{isin}/state", securityH.ChangeState)

	// Participant routes.
	r.Post("/brokers", participantH.CreateBroker)
	r.Get("/brokers/{broker_id}", participantH.GetBroker)
	r.Post("/shareholders", participantH.CreateShareholder)
	r.Get("/shareholders/{shareholder_id}", participantH.GetShareholder)

	// Order routes.
	r.Post("/orders", orderH.SubmitOrder)
	r.Put("/orders", orderH.UpdateOrder)
	r.Delete("/orders/{order_id}", orderH.DeleteOrder)

	// Event routes.
	r.Get("/events", eventH.List)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT, and
// PATCH requests. If the Content-Type header doesn't start with
// "application/json", it returns 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
