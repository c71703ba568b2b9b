package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	t.Run("sets content type and status code", func(t *testing.T) {
		w := httptest.NewRecorder()

		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})

		if got := w.Header().Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want %q", got, "application/json")
		}
		if w.Code != http.StatusOK {
			t.Errorf("status code = %d, want %d", w.Code, http.StatusOK)
		}

		var result map[string]string
		if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if result["status"] != "ok" {
			t.Errorf("body status = %q, want %q", result["status"], "ok")
		}
	})

	t.Run("encodes struct with snake_case tags", func(t *testing.T) {
		type resp struct {
			SecurityISIN string `json:"security_isin"`
			OpeningPrice int64  `json:"opening_price"`
		}
		w := httptest.NewRecorder()
		WriteJSON(w, http.StatusOK, resp{SecurityISIN: "TEST1", OpeningPrice: 150})

		var raw map[string]any
		if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if raw["security_isin"] != "TEST1" {
			t.Errorf("security_isin = %v, want %q", raw["security_isin"], "TEST1")
		}
		if raw["opening_price"] != float64(150) {
			t.Errorf("opening_price = %v, want 150", raw["opening_price"])
		}
	})
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusNotFound, "security_not_found", "Security not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("status code = %d, want %d", w.Code, http.StatusNotFound)
	}

	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.Error != "security_not_found" {
		t.Errorf("error = %q, want %q", resp.Error, "security_not_found")
	}
	if resp.Message != "Security not found" {
		t.Errorf("message = %q, want %q", resp.Message, "Security not found")
	}
}

func TestParseJSON(t *testing.T) {
	t.Run("decodes valid JSON with correct content type", func(t *testing.T) {
		body := `{"order_id":7,"quantity":100}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")

		var result struct {
			OrderID  uint64 `json:"order_id"`
			Quantity int64  `json:"quantity"`
		}
		if err := ParseJSON(r, &result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.OrderID != 7 || result.Quantity != 100 {
			t.Errorf("decoded %+v, want order 7 qty 100", result)
		}
	})

	t.Run("accepts content type with charset", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"order_id":1}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")

		var result struct {
			OrderID uint64 `json:"order_id"`
		}
		if err := ParseJSON(r, &result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects missing content type", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"order_id":1}`))

		var result struct {
			OrderID uint64 `json:"order_id"`
		}
		if err := ParseJSON(r, &result); err == nil {
			t.Fatal("expected error for missing Content-Type")
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json}`))
		r.Header.Set("Content-Type", "application/json")

		var result struct {
			OrderID uint64 `json:"order_id"`
		}
		if err := ParseJSON(r, &result); err == nil {
			t.Fatal("expected error for malformed JSON")
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"order_id":1,"qty":5}`))
		r.Header.Set("Content-Type", "application/json")

		var result struct {
			OrderID uint64 `json:"order_id"`
		}
		if err := ParseJSON(r, &result); err == nil {
			t.Fatal("expected error for unknown field")
		}
	})
}
