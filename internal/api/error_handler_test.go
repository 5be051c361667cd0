package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/abdofull/LibyaParts/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation keeps detail", fmt.Errorf("%w: price must be greater than 0", domain.ErrValidation), 400, "validation failed: price must be greater than 0"},
		{"duplicate email", domain.ErrUserExists, 400, "email already registered"},
		{"bad transition", fmt.Errorf("%w (from done to new)", domain.ErrInvalidTransition), 400, "invalid status transition (from done to new)"},
		{"image too large", domain.ErrImageTooLarge, 400, "image must not exceed 1MB"},
		{"credentials", domain.ErrInvalidCredentials, 401, "invalid email or password"},
		{"not owner", domain.ErrNotOwner, 403, "part belongs to another merchant"},
		{"pending approval", domain.ErrNotApproved, 403, "merchant account pending approval"},
		{"wrapped not found", fmt.Errorf("grant admin: %w", domain.ErrUserNotFound), 404, "user not found"},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), 401, "invalid token"},
		{"unexpected", errors.New("socket closed"), 500, "internal server error"},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Success || body.Message != tt.wantMsg {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}
