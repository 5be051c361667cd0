// Package memory implements the repositories in process. It backs
// STORE_DRIVER=memory for local development and the API tests; data does
// not survive a restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

// Store groups the three repositories behind one lock so cross-collection
// operations (cascade deletes) observe a consistent view.
type Store struct {
	mu       sync.RWMutex
	seq      int64
	users    map[string]*record[domain.User]
	parts    map[string]*record[domain.Part]
	requests map[string]*record[domain.Request]
}

// record remembers insertion order to break createdAt ties.
type record[T any] struct {
	seq int64
	val T
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*record[domain.User]),
		parts:    make(map[string]*record[domain.Part]),
		requests: make(map[string]*record[domain.Request]),
	}
}

func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Parts() *PartRepository       { return &PartRepository{s: s} }
func (s *Store) Requests() *RequestRepository { return &RequestRepository{s: s} }

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

// snapshot copies the records out of m. Callers hold at least the read lock;
// the copies can then be sorted and returned after it is released.
func snapshot[T any](m map[string]*record[T], keep func(*T) bool) []record[T] {
	out := make([]record[T], 0, len(m))
	for _, rec := range m {
		if keep == nil || keep(&rec.val) {
			out = append(out, *rec)
		}
	}
	return out
}

// newestFirst sorts records by createdAt descending, newest insert first on ties.
func newestFirst[T any](recs []record[T], created func(*T) int64) {
	sort.SliceStable(recs, func(i, j int) bool {
		ci, cj := created(&recs[i].val), created(&recs[j].val)
		if ci != cj {
			return ci > cj
		}
		return recs[i].seq > recs[j].seq
	})
}

// ── Users ─────────────────────────────────────────────────────────────────────

type UserRepository struct{ s *Store }

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rec := range r.s.users {
		if rec.val.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	u := *user
	u.ID = uuid.NewString()
	r.s.users[u.ID] = &record[domain.User]{seq: r.s.next(), val: u}
	out := u
	return &out, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := rec.val
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.users {
		if rec.val.Email == email {
			u := rec.val
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	recs := snapshot(r.s.users, nil)
	r.s.mu.RUnlock()

	newestFirst(recs, func(u *domain.User) int64 { return u.CreatedAt.UnixNano() })
	out := make([]*domain.User, len(recs))
	for i := range recs {
		out[i] = &recs[i].val
	}
	return out, nil
}

func (r *UserRepository) SetApproved(_ context.Context, id string, approved bool) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	rec.val.IsApproved = approved
	u := rec.val
	return &u, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepository) Count(_ context.Context, f ports.UserCountFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, rec := range r.s.users {
		if f.Role != "" && rec.val.Role != f.Role {
			continue
		}
		if f.Approved != nil && rec.val.IsApproved != *f.Approved {
			continue
		}
		if f.Admin != nil && rec.val.IsAdmin != *f.Admin {
			continue
		}
		n++
	}
	return n, nil
}

func (r *UserRepository) GrantAdmin(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var target *record[domain.User]
	for _, rec := range r.s.users {
		if rec.val.Email == email {
			target = rec
		}
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	for _, rec := range r.s.users {
		rec.val.IsAdmin = false
	}
	target.val.IsAdmin = true
	u := target.val
	return &u, nil
}

// ── Parts ─────────────────────────────────────────────────────────────────────

type PartRepository struct{ s *Store }

var _ ports.PartRepository = (*PartRepository)(nil)

func (r *PartRepository) Create(_ context.Context, p *domain.Part) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = uuid.NewString()
	r.s.parts[p.ID] = &record[domain.Part]{seq: r.s.next(), val: *p}
	return nil
}

func (r *PartRepository) FindByID(_ context.Context, id string) (*domain.Part, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.parts[id]
	if !ok {
		return nil, domain.ErrPartNotFound
	}
	p := rec.val
	return &p, nil
}

func (r *PartRepository) Update(_ context.Context, id, merchantID string, c ports.PartChanges) (*domain.Part, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.parts[id]
	if !ok || rec.val.MerchantID != merchantID {
		return nil, domain.ErrPartNotFound
	}
	p := &rec.val
	if c.Name != nil {
		p.Name = *c.Name
	}
	if c.Description != nil {
		p.Description = *c.Description
	}
	if c.Category != nil {
		p.Category = *c.Category
	}
	if c.Price != nil {
		p.Price = *c.Price
	}
	if c.ImageURL != nil {
		p.ImageURL = *c.ImageURL
	}
	if c.CarMake != nil {
		p.CarMake = *c.CarMake
	}
	if c.CarModel != nil {
		p.CarModel = *c.CarModel
	}
	if c.CarYear != nil {
		p.CarYear = *c.CarYear
	}
	if c.IsFeatured != nil {
		p.IsFeatured = *c.IsFeatured
	}
	if c.Status != nil {
		p.Status = *c.Status
	}
	out := *p
	return &out, nil
}

func (r *PartRepository) Delete(_ context.Context, id, merchantID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.parts[id]
	if !ok || rec.val.MerchantID != merchantID {
		return domain.ErrPartNotFound
	}
	delete(r.s.parts, id)
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func matches(p *domain.Part, f ports.PartFilter) bool {
	switch {
	case f.Status != "" && p.Status != f.Status:
		return false
	case f.Search != "" && !containsFold(p.Name, f.Search) &&
		!containsFold(p.CarMake, f.Search) && !containsFold(p.CarModel, f.Search):
		return false
	case f.CarMake != "" && !containsFold(p.CarMake, f.CarMake):
		return false
	case f.CarModel != "" && !containsFold(p.CarModel, f.CarModel):
		return false
	case f.CarYear != 0 && p.CarYear != f.CarYear:
		return false
	case f.Category != "" && p.Category != f.Category:
		return false
	}
	return true
}

func (r *PartRepository) List(_ context.Context, f ports.PartFilter) ([]*domain.Part, error) {
	r.s.mu.RLock()
	recs := snapshot(r.s.parts, func(p *domain.Part) bool { return matches(p, f) })
	r.s.mu.RUnlock()

	newestFirst(recs, func(p *domain.Part) int64 { return p.CreatedAt.UnixNano() })
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].val.IsFeatured && !recs[j].val.IsFeatured
	})
	if f.Limit > 0 && len(recs) > f.Limit {
		recs = recs[:f.Limit]
	}

	return partsOf(recs), nil
}

func (r *PartRepository) ListByMerchant(_ context.Context, merchantID string) ([]*domain.Part, error) {
	r.s.mu.RLock()
	recs := snapshot(r.s.parts, func(p *domain.Part) bool { return p.MerchantID == merchantID })
	r.s.mu.RUnlock()

	newestFirst(recs, func(p *domain.Part) int64 { return p.CreatedAt.UnixNano() })
	return partsOf(recs), nil
}

func partsOf(recs []record[domain.Part]) []*domain.Part {
	out := make([]*domain.Part, len(recs))
	for i := range recs {
		out[i] = &recs[i].val
	}
	return out
}

func (r *PartRepository) Count(_ context.Context, merchantID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, rec := range r.s.parts {
		if merchantID == "" || rec.val.MerchantID == merchantID {
			n++
		}
	}
	return n, nil
}

func (r *PartRepository) DeleteByMerchant(_ context.Context, merchantID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, rec := range r.s.parts {
		if rec.val.MerchantID == merchantID {
			delete(r.s.parts, id)
			n++
		}
	}
	return n, nil
}

// ── Requests ──────────────────────────────────────────────────────────────────

type RequestRepository struct{ s *Store }

var _ ports.RequestRepository = (*RequestRepository)(nil)

func (r *RequestRepository) Create(_ context.Context, req *domain.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req.ID = uuid.NewString()
	r.s.requests[req.ID] = &record[domain.Request]{seq: r.s.next(), val: *req}
	return nil
}

func (r *RequestRepository) FindByID(_ context.Context, id string) (*domain.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	req := rec.val
	return &req, nil
}

func (r *RequestRepository) List(_ context.Context, limit int) ([]*domain.Request, error) {
	r.s.mu.RLock()
	recs := snapshot(r.s.requests, nil)
	r.s.mu.RUnlock()

	newestFirst(recs, func(q *domain.Request) int64 { return q.CreatedAt.UnixNano() })
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	out := make([]*domain.Request, len(recs))
	for i := range recs {
		out[i] = &recs[i].val
	}
	return out, nil
}

func (r *RequestRepository) UpdateStatus(_ context.Context, id string, from, to domain.RequestStatus) (*domain.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if rec.val.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	rec.val.Status = to
	req := rec.val
	return &req, nil
}

func (r *RequestRepository) Count(_ context.Context, status domain.RequestStatus) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, rec := range r.s.requests {
		if status == "" || rec.val.Status == status {
			n++
		}
	}
	return n, nil
}
