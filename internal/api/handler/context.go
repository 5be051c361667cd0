package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/abdofull/LibyaParts/internal/api/middleware"
	"github.com/abdofull/LibyaParts/internal/core/domain"
)

// currentUser returns the user injected by the Auth middleware. A missing
// user means the route was mounted without Auth; fail fast with 401 rather
// than calling a service with a nil actor.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.UserFromContext(c)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// bind decodes the body and runs the validator. Malformed JSON is a
// validation failure.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	return c.Validate(dst)
}
