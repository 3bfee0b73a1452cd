package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tickclear/tickclear/internal/domain"
)

func TestWriteJSON(t *testing.T) {
	t.Run("sets content type and status code", func(t *testing.T) {
		w := httptest.NewRecorder()
		data := map[string]string{"status": "ok"}

		WriteJSON(w, http.StatusOK, data)

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
			MarketID   string `json:"market_id"`
			PriceScale int64  `json:"price_scale"`
		}
		w := httptest.NewRecorder()
		WriteJSON(w, http.StatusCreated, resp{MarketID: "spot", PriceScale: 100})

		if w.Code != http.StatusCreated {
			t.Errorf("status code = %d, want %d", w.Code, http.StatusCreated)
		}
		var raw map[string]any
		if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if raw["market_id"] != "spot" {
			t.Errorf("market_id = %v, want %q", raw["market_id"], "spot")
		}
		if raw["price_scale"] != 100.0 {
			t.Errorf("price_scale = %v, want 100", raw["price_scale"])
		}
	})
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusBadRequest, "invalid_argument", "missing required field")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status code = %d, want %d", w.Code, http.StatusBadRequest)
	}
	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.Error != "invalid_argument" {
		t.Errorf("error = %q, want %q", resp.Error, "invalid_argument")
	}
	if resp.Message != "missing required field" {
		t.Errorf("message = %q, want %q", resp.Message, "missing required field")
	}
}

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{domain.ErrDuplicateID, http.StatusConflict, "duplicate_id"},
		{domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{domain.ErrNotImplemented, http.StatusNotImplemented, "not_implemented"},
		{domain.ErrOverflow, http.StatusUnprocessableEntity, "overflow"},
		{domain.ErrInsufficient, http.StatusUnprocessableEntity, "insufficient"},
		{domain.ErrInternal, http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			// Wrapped errors must still map through the sentinel.
			WriteDomainError(w, fmt.Errorf("market %q: %w", "spot", tc.err))

			if w.Code != tc.status {
				t.Errorf("status code = %d, want %d", w.Code, tc.status)
			}
			var resp errorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if resp.Error != tc.code {
				t.Errorf("error = %q, want %q", resp.Error, tc.code)
			}
		})
	}

	t.Run("validation errors map to 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteDomainError(w, &domain.ValidationError{Message: "market id must be non-empty"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status code = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestParseJSON(t *testing.T) {
	t.Run("decodes valid JSON with correct content type", func(t *testing.T) {
		body := `{"id":"spot","price_scale":100}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")

		var result struct {
			ID         string `json:"id"`
			PriceScale int64  `json:"price_scale"`
		}
		if err := ParseJSON(r, &result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ID != "spot" || result.PriceScale != 100 {
			t.Errorf("decoded %+v", result)
		}
	})

	t.Run("accepts content type with charset", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":"spot"}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")

		var result struct {
			ID string `json:"id"`
		}
		if err := ParseJSON(r, &result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects missing content type", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":"spot"}`))

		var result struct {
			ID string `json:"id"`
		}
		err := ParseJSON(r, &result)
		if err == nil {
			t.Fatal("expected error for missing Content-Type")
		}
		if !strings.Contains(err.Error(), "Content-Type") {
			t.Errorf("error = %q, should mention Content-Type", err.Error())
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{invalid json}`))
		r.Header.Set("Content-Type", "application/json")

		var result struct {
			ID string `json:"id"`
		}
		if err := ParseJSON(r, &result); err == nil {
			t.Fatal("expected error for malformed JSON")
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":"spot","surprise":1}`))
		r.Header.Set("Content-Type", "application/json")

		var result struct {
			ID string `json:"id"`
		}
		if err := ParseJSON(r, &result); err == nil {
			t.Fatal("expected error for unknown fields")
		}
	})

	t.Run("rejects empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		r.Header.Set("Content-Type", "application/json")

		var result struct {
			ID string `json:"id"`
		}
		if err := ParseJSON(r, &result); err == nil {
			t.Fatal("expected error for empty body")
		}
	})
}
