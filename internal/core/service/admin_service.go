package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

type AdminService struct {
	users    ports.UserRepository
	parts    ports.PartRepository
	requests ports.RequestRepository
	cache    ports.ListingCache
	log      zerolog.Logger
}

func NewAdminService(
	users ports.UserRepository,
	parts ports.PartRepository,
	requests ports.RequestRepository,
	cache ports.ListingCache,
	log zerolog.Logger,
) *AdminService {
	if cache == nil {
		cache = nopCache{}
	}
	return &AdminService{users: users, parts: parts, requests: requests, cache: cache, log: log}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetApproval approves or revokes a merchant. Customers have nothing to
// approve and are rejected.
func (s *AdminService) SetApproval(ctx context.Context, userID string, approved bool) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsMerchant() {
		return nil, fmt.Errorf("%w: only merchants need approval", domain.ErrValidation)
	}

	updated, err := s.users.SetApproved(ctx, userID, approved)
	if err != nil {
		return nil, fmt.Errorf("set approval: %w", err)
	}

	s.log.Info().Str("user_id", userID).Bool("approved", approved).Msg("merchant approval changed")
	return updated, nil
}

// DeleteUser is a two-step cascade: the user's parts go first, then the
// user. The steps are not atomic. If the second step fails the parts are
// already gone; the failure is logged with the count and returned, and a
// retry is safe because deleting an empty part set is a no-op.
func (s *AdminService) DeleteUser(ctx context.Context, actor *domain.User, userID string) (int64, error) {
	if actor != nil && actor.ID == userID {
		return 0, fmt.Errorf("%w: admins cannot delete their own account", domain.ErrValidation)
	}

	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if target.IsAdmin {
		return 0, domain.ErrForbidden
	}

	removed, err := s.parts.DeleteByMerchant(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user: remove parts: %w", err)
	}
	if removed > 0 {
		if cerr := s.cache.Invalidate(ctx); cerr != nil {
			s.log.Warn().Err(cerr).Msg("listing cache invalidation failed")
		}
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		s.log.Error().Err(err).
			Str("user_id", userID).
			Int64("parts_deleted", removed).
			Msg("user delete failed after parts were removed")
		return removed, fmt.Errorf("delete user: remove user after %d parts: %w", removed, err)
	}

	s.log.Info().Str("user_id", userID).Int64("parts_deleted", removed).Msg("user deleted")
	return removed, nil
}

func (s *AdminService) Stats(ctx context.Context) (*ports.AdminStats, error) {
	approved, pending, notAdmin := true, false, false

	var st ports.AdminStats
	counts := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&st.TotalUsers, func() (int64, error) { return s.users.Count(ctx, ports.UserCountFilter{}) }},
		{&st.PendingMerchants, func() (int64, error) {
			return s.users.Count(ctx, ports.UserCountFilter{Role: domain.RoleMerchant, Approved: &pending, Admin: &notAdmin})
		}},
		{&st.ApprovedMerchants, func() (int64, error) {
			return s.users.Count(ctx, ports.UserCountFilter{Role: domain.RoleMerchant, Approved: &approved})
		}},
		{&st.TotalCustomers, func() (int64, error) {
			return s.users.Count(ctx, ports.UserCountFilter{Role: domain.RoleCustomer})
		}},
		{&st.TotalParts, func() (int64, error) { return s.parts.Count(ctx, "") }},
		{&st.TotalRequests, func() (int64, error) { return s.requests.Count(ctx, "") }},
	}
	for _, c := range counts {
		n, err := c.fn()
		if err != nil {
			return nil, fmt.Errorf("admin stats: %w", err)
		}
		*c.dst = n
	}
	return &st, nil
}

// GrantAdmin provisions the single admin. It is only reachable from the
// operations CLI, never over HTTP.
func (s *AdminService) GrantAdmin(ctx context.Context, email string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	user, err := s.users.GrantAdmin(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("grant admin: %w", err)
	}
	s.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("admin granted")
	return user, nil
}
