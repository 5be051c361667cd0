package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/pkg/token"
)

type stubUsers map[string]*domain.User

func (s stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func runAuth(t *testing.T, header string, users stubUsers) (*httptest.ResponseRecorder, *domain.User, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *domain.User
	called := false
	handler := Auth(token.NewManager("secret", time.Hour), users)(func(c echo.Context) error {
		called = true
		got = UserFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, got, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	stored := &domain.User{ID: "u1", Role: domain.RoleMerchant, IsApproved: true}
	// The token claims customer; the stored role must win.
	signed, err := token.NewManager("secret", time.Hour).Issue("u1", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	rec, user, called := runAuth(t, "Bearer "+signed, stubUsers{"u1": stored})
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if user == nil || user.Role != domain.RoleMerchant {
		t.Fatalf("expected stored user in context, got %+v", user)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	good, _ := token.NewManager("secret", time.Hour).Issue("u1", domain.RoleCustomer)
	foreign, _ := token.NewManager("other", time.Hour).Issue("u1", domain.RoleCustomer)
	deleted, _ := token.NewManager("secret", time.Hour).Issue("gone", domain.RoleCustomer)

	cases := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Token " + good,
		"garbage token":   "Bearer not-a-token",
		"wrong secret":    "Bearer " + foreign,
		"deleted user":    "Bearer " + deleted,
		"bearer no token": "Bearer",
	}
	users := stubUsers{"u1": {ID: "u1", Role: domain.RoleCustomer}}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, _, called := runAuth(t, header, users)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
