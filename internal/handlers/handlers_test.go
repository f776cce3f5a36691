package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Mzatilife/Bello/internal/errors"
)

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewHealthHandlers(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Health(c)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", resp["status"])
	}
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"unauthenticated", apperrors.ErrUnauthenticated, http.StatusUnauthorized},
		{"empty cart", apperrors.ErrEmptyCart, http.StatusConflict},
		{"validation", apperrors.NewValidationError("phone_number", "bad phone"), http.StatusBadRequest},
		{"unknown", http.ErrBodyNotAllowed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			handleError(c, tt.err)

			if w.Code != tt.code {
				t.Errorf("status = %d, want %d", w.Code, tt.code)
			}
		})
	}
}

func TestHandleErrorValidationPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handleError(c, apperrors.NewValidationError("phone_number", "not a valid Malawian phone number"))

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["field"] != "phone_number" {
		t.Errorf("field = %v, want phone_number", resp["field"])
	}
	if resp["error"] != "not a valid Malawian phone number" {
		t.Errorf("error = %v", resp["error"])
	}
}
