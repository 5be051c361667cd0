package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdofull/LibyaParts/internal/api/middleware"
	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

type stubAdminService struct {
	listUsersFn   func(ctx context.Context) ([]*domain.User, error)
	setApprovalFn func(ctx context.Context, id string, approved bool) (*domain.User, error)
	deleteUserFn  func(ctx context.Context, actor *domain.User, id string) (int64, error)
	statsFn       func(ctx context.Context) (*ports.AdminStats, error)
}

func (s *stubAdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listUsersFn(ctx)
}

func (s *stubAdminService) SetApproval(ctx context.Context, id string, approved bool) (*domain.User, error) {
	return s.setApprovalFn(ctx, id, approved)
}

func (s *stubAdminService) DeleteUser(ctx context.Context, actor *domain.User, id string) (int64, error) {
	return s.deleteUserFn(ctx, actor, id)
}

func (s *stubAdminService) Stats(ctx context.Context) (*ports.AdminStats, error) {
	return s.statsFn(ctx)
}

func (s *stubAdminService) GrantAdmin(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrForbidden
}

var testAdmin = &domain.User{ID: "a1", Role: domain.RoleCustomer, IsAdmin: true}

func TestAdminHandler_ApproveReject(t *testing.T) {
	e := newTestEcho()
	var calls []bool
	h := NewAdminHandler(&stubAdminService{
		setApprovalFn: func(_ context.Context, id string, approved bool) (*domain.User, error) {
			calls = append(calls, approved)
			return &domain.User{ID: id, Role: domain.RoleMerchant, IsApproved: approved}, nil
		},
	})

	c, rec := jsonContext(e, http.MethodPut, "/api/admin/users/m1/approve", "")
	c.SetParamNames("id")
	c.SetParamValues("m1")
	require.NoError(t, h.Approve(c))
	assert.Contains(t, rec.Body.String(), `"isApproved":true`)

	c, rec = jsonContext(e, http.MethodPut, "/api/admin/users/m1/reject", "")
	c.SetParamNames("id")
	c.SetParamValues("m1")
	require.NoError(t, h.Reject(c))
	assert.Contains(t, rec.Body.String(), `"isApproved":false`)

	assert.Equal(t, []bool{true, false}, calls)
}

func TestAdminHandler_DeleteUser(t *testing.T) {
	e := newTestEcho()
	h := NewAdminHandler(&stubAdminService{
		deleteUserFn: func(_ context.Context, actor *domain.User, id string) (int64, error) {
			assert.Equal(t, "a1", actor.ID)
			if id == actor.ID {
				return 0, domain.ErrValidation
			}
			return 3, nil
		},
	})

	c, rec := jsonContext(e, http.MethodDelete, "/api/admin/users/m1", "")
	c.SetParamNames("id")
	c.SetParamValues("m1")
	c.Set(middleware.ContextKeyUser, testAdmin)
	require.NoError(t, h.DeleteUser(c))
	assert.JSONEq(t, `{"success":true,"message":"user deleted","partsDeleted":3}`, rec.Body.String())

	c, _ = jsonContext(e, http.MethodDelete, "/api/admin/users/a1", "")
	c.SetParamNames("id")
	c.SetParamValues("a1")
	c.Set(middleware.ContextKeyUser, testAdmin)
	assert.ErrorIs(t, h.DeleteUser(c), domain.ErrValidation)
}

func TestAdminHandler_StatsAndUsers(t *testing.T) {
	e := newTestEcho()
	h := NewAdminHandler(&stubAdminService{
		statsFn: func(context.Context) (*ports.AdminStats, error) {
			return &ports.AdminStats{TotalUsers: 3, PendingMerchants: 1}, nil
		},
		listUsersFn: func(context.Context) ([]*domain.User, error) {
			return []*domain.User{{ID: "u2"}, {ID: "u1"}}, nil
		},
	})

	c, rec := jsonContext(e, http.MethodGet, "/api/admin/stats", "")
	require.NoError(t, h.Stats(c))
	assert.Contains(t, rec.Body.String(), `"totalUsers":3`)
	assert.Contains(t, rec.Body.String(), `"pendingMerchants":1`)

	c, rec = jsonContext(e, http.MethodGet, "/api/admin/users", "")
	require.NoError(t, h.ListUsers(c))
	assert.Contains(t, rec.Body.String(), `"count":2`)
}
