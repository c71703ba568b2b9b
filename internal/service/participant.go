package service

import (
	"log/slog"
	"time"

	"matching-engine/internal/domain"
	"matching-engine/internal/store"
)

// ParticipantService manages the broker and shareholder ledgers.
type ParticipantService struct {
	brokers      *store.BrokerStore
	shareholders *store.ShareholderStore
	logger       *slog.Logger
}

func NewParticipantService(brokers *store.BrokerStore, shareholders *store.ShareholderStore, logger *slog.Logger) *ParticipantService {
	return &ParticipantService{brokers: brokers, shareholders: shareholders, logger: logger}
}

// CreateBroker registers a broker with an initial credit balance.
func (s *ParticipantService) CreateBroker(id string, credit int64) (*domain.Broker, error) {
	if id == "" {
		return nil, &domain.ValidationError{Message: "broker id is required"}
	}
	if credit < 0 {
		return nil, &domain.ValidationError{Message: "initial credit cannot be negative"}
	}

	b := &domain.Broker{BrokerID: id, Credit: credit, CreatedAt: time.Now()}
	if err := s.brokers.Create(b); err != nil {
		return nil, err
	}
	s.logger.Info("broker registered", "broker_id", id, "credit", credit)
	return b, nil
}

// GetBroker returns the broker registered under id.
func (s *ParticipantService) GetBroker(id string) (*domain.Broker, error) {
	return s.brokers.Get(id)
}

// CreateShareholder registers a shareholder with initial positions per ISIN.
func (s *ParticipantService) CreateShareholder(id string, positions map[string]int64) (*domain.Shareholder, error) {
	if id == "" {
		return nil, &domain.ValidationError{Message: "shareholder id is required"}
	}
	for isin, qty := range positions {
		if qty < 0 {
			return nil, &domain.ValidationError{Message: "initial position for " + isin + " cannot be negative"}
		}
	}

	sh := &domain.Shareholder{
		ShareholderID: id,
		Positions:     make(map[string]int64, len(positions)),
		CreatedAt:     time.Now(),
	}
	for isin, qty := range positions {
		sh.Positions[isin] = qty
	}
	if err := s.shareholders.Create(sh); err != nil {
		return nil, err
	}
	s.logger.Info("shareholder registered", "shareholder_id", id, "securities", len(positions))
	return sh, nil
}

// GetShareholder returns the shareholder registered under id.
func (s *ParticipantService) GetShareholder(id string) (*domain.Shareholder, error) {
	return s.shareholders.Get(id)
}
