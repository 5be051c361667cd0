package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

// AdminHandler serves the admin dashboard. Every route is behind
// Auth and RequireAdmin.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// Stats handles GET /api/admin/stats.
//
// @Summary      Platform counters
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminStatsResponse
// @Failure      403  {object}  messageResponse
// @Router       /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminStatsResponse{Success: true, Stats: stats})
}

// ListUsers handles GET /api/admin/users.
//
// @Summary      All users, newest first
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      403  {object}  messageResponse
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, usersResponse{Success: true, Count: len(users), Users: users})
}

// Approve handles PUT /api/admin/users/:id/approve.
//
// @Summary      Approve a merchant
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /admin/users/{id}/approve [put]
func (h *AdminHandler) Approve(c echo.Context) error {
	return h.setApproval(c, true)
}

// Reject handles PUT /api/admin/users/:id/reject.
//
// @Summary      Revoke a merchant's approval
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /admin/users/{id}/reject [put]
func (h *AdminHandler) Reject(c echo.Context) error {
	return h.setApproval(c, false)
}

func (h *AdminHandler) setApproval(c echo.Context, approved bool) error {
	user, err := h.service.SetApproval(c.Request().Context(), c.Param("id"), approved)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, User: user})
}

// DeleteUser handles DELETE /api/admin/users/:id.
//
// @Summary      Delete a user and their parts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  deleteUserResponse
// @Failure      400  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	removed, err := h.service.DeleteUser(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteUserResponse{
		Success:      true,
		Message:      "user deleted",
		PartsDeleted: removed,
	})
}
