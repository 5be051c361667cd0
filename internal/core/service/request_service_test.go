package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
	"github.com/abdofull/LibyaParts/internal/infrastructure/db/memory"
)

func newTestRequestService() (ports.RequestService, *memory.Store) {
	store := memory.NewStore()
	return NewRequestService(store.Requests(), store.Parts(), zerolog.Nop()), store
}

func sampleRequest() ports.CreateRequestInput {
	return ports.CreateRequestInput{
		CustomerName:  "Omar",
		CustomerPhone: "0913333333",
		PartName:      "Radiator",
		CarMake:       "Kia",
		CarModel:      "Rio",
	}
}

func TestRequestService_Create(t *testing.T) {
	svc, _ := newTestRequestService()

	req, err := svc.Create(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if req.ID == "" {
		t.Fatal("expected id to be assigned")
	}
	if req.Status != domain.RequestNew {
		t.Fatalf("expected status new, got %s", req.Status)
	}
}

func TestRequestService_Create_MissingFieldPersistsNothing(t *testing.T) {
	svc, store := newTestRequestService()
	ctx := context.Background()

	in := sampleRequest()
	in.PartName = " "
	if _, err := svc.Create(ctx, in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	n, _ := store.Requests().Count(ctx, "")
	if n != 0 {
		t.Fatalf("expected nothing stored, got %d", n)
	}
}

func TestRequestService_UpdateStatus(t *testing.T) {
	svc, _ := newTestRequestService()
	ctx := context.Background()

	req, err := svc.Create(ctx, sampleRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	steps := []struct {
		status  string
		wantErr error
		want    domain.RequestStatus
	}{
		{"processing", nil, domain.RequestProcessing},
		{"processing", nil, domain.RequestProcessing},
		{"new", domain.ErrInvalidTransition, domain.RequestProcessing},
		{"done", nil, domain.RequestDone},
		{"responded", domain.ErrInvalidTransition, domain.RequestDone},
		{"archived", domain.ErrValidation, domain.RequestDone},
	}
	for _, st := range steps {
		got, err := svc.UpdateStatus(ctx, req.ID, st.status)
		if st.wantErr != nil {
			if !errors.Is(err, st.wantErr) {
				t.Fatalf("status %q: expected %v, got %v", st.status, st.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("status %q: unexpected error %v", st.status, err)
		}
		if got.Status != st.want {
			t.Fatalf("status %q: expected %s, got %s", st.status, st.want, got.Status)
		}
	}
}

func TestRequestService_UpdateStatus_UnknownID(t *testing.T) {
	svc, _ := newTestRequestService()

	_, err := svc.UpdateStatus(context.Background(), "nope", "processing")
	if !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestRequestService_ListNewestFirst(t *testing.T) {
	svc, _ := newTestRequestService()
	ctx := context.Background()

	first, _ := svc.Create(ctx, sampleRequest())
	second, _ := svc.Create(ctx, sampleRequest())

	reqs, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(reqs) != 2 || reqs[0].ID != second.ID || reqs[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", reqs)
	}
}

func TestRequestService_MerchantStats(t *testing.T) {
	svc, store := newTestRequestService()
	ctx := context.Background()

	for _, p := range []*domain.Part{
		{Name: "a", MerchantID: "m-1", Status: domain.PartAvailable},
		{Name: "b", MerchantID: "m-1", Status: domain.PartSold},
		{Name: "c", MerchantID: "m-2", Status: domain.PartAvailable},
	} {
		if err := store.Parts().Create(ctx, p); err != nil {
			t.Fatalf("seed part: %v", err)
		}
	}
	r1, _ := svc.Create(ctx, sampleRequest())
	_, _ = svc.Create(ctx, sampleRequest())
	if _, err := svc.UpdateStatus(ctx, r1.ID, "responded"); err != nil {
		t.Fatalf("update: %v", err)
	}

	stats, err := svc.MerchantStats(ctx, "m-1")
	if err != nil {
		t.Fatalf("MerchantStats returned error: %v", err)
	}
	want := ports.MerchantStats{PartsCount: 2, NewRequestsCount: 1, TotalRequestsCount: 2}
	if *stats != want {
		t.Fatalf("expected %+v, got %+v", want, *stats)
	}
}

func TestRequestService_List_CappedNewestFirst(t *testing.T) {
	store := memory.NewStore()
	svc := &requestService{requests: store.Requests(), parts: store.Parts(), log: zerolog.Nop(), now: steppingClock()}
	ctx := context.Background()

	for i := 0; i <= ports.MaxListedRequests; i++ {
		in := sampleRequest()
		in.PartName = "part " + strconv.Itoa(i)
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("Create #%d returned error: %v", i, err)
		}
	}

	reqs, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(reqs) != ports.MaxListedRequests {
		t.Fatalf("expected %d requests, got %d", ports.MaxListedRequests, len(reqs))
	}
	if reqs[0].PartName != "part 50" {
		t.Fatalf("expected newest first, got %q", reqs[0].PartName)
	}
	for i := 1; i < len(reqs); i++ {
		if reqs[i].CreatedAt.After(reqs[i-1].CreatedAt) {
			t.Fatalf("requests out of order at %d", i)
		}
	}
	if last := reqs[len(reqs)-1].PartName; last != "part 1" {
		t.Fatalf("expected the oldest request to be dropped, last is %q", last)
	}
}

// movedAfterRead lets another merchant advance the request right after the
// service has read it.
type movedAfterRead struct {
	ports.RequestRepository
	to domain.RequestStatus
}

func (r *movedAfterRead) FindByID(ctx context.Context, id string) (*domain.Request, error) {
	req, err := r.RequestRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.RequestRepository.UpdateStatus(ctx, id, req.Status, r.to); err != nil {
		return nil, err
	}
	return req, nil
}

func TestRequestService_UpdateStatus_ConcurrentMoveIsNotOverwritten(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repo := &movedAfterRead{RequestRepository: store.Requests(), to: domain.RequestDone}
	svc := NewRequestService(repo, store.Parts(), zerolog.Nop())

	req := &domain.Request{PartName: "Radiator", Status: domain.RequestNew}
	if err := store.Requests().Create(ctx, req); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := svc.UpdateStatus(ctx, req.ID, "processing")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	got, err := store.Requests().FindByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Status != domain.RequestDone {
		t.Fatalf("request moved backward to %s", got.Status)
	}
}
