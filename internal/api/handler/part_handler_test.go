package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdofull/LibyaParts/internal/api/middleware"
	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

type stubPartService struct {
	listFn     func(ctx context.Context, in ports.ListPartsInput) ([]*domain.Part, error)
	listMineFn func(ctx context.Context, merchant *domain.User) ([]*domain.Part, error)
	createFn   func(ctx context.Context, merchant *domain.User, in ports.CreatePartInput) (*domain.Part, error)
	updateFn   func(ctx context.Context, actor *domain.User, id string, ch ports.PartChanges) (*domain.Part, error)
	deleteFn   func(ctx context.Context, actor *domain.User, id string) error
}

func (s *stubPartService) List(ctx context.Context, in ports.ListPartsInput) ([]*domain.Part, error) {
	return s.listFn(ctx, in)
}

func (s *stubPartService) ListMine(ctx context.Context, merchant *domain.User) ([]*domain.Part, error) {
	return s.listMineFn(ctx, merchant)
}

func (s *stubPartService) Create(ctx context.Context, merchant *domain.User, in ports.CreatePartInput) (*domain.Part, error) {
	return s.createFn(ctx, merchant, in)
}

func (s *stubPartService) Update(ctx context.Context, actor *domain.User, id string, ch ports.PartChanges) (*domain.Part, error) {
	return s.updateFn(ctx, actor, id, ch)
}

func (s *stubPartService) Delete(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

var testMerchant = &domain.User{ID: "m1", Name: "Shop", Role: domain.RoleMerchant, IsApproved: true}

func TestPartHandler_List_Query(t *testing.T) {
	e := newTestEcho()
	var got ports.ListPartsInput
	h := NewPartHandler(&stubPartService{
		listFn: func(_ context.Context, in ports.ListPartsInput) ([]*domain.Part, error) {
			got = in
			return nil, nil
		},
	})

	c, rec := jsonContext(e, http.MethodGet, "/api/parts?search=brake&carMake=Toyota&carYear=2015&category=Brakes", "")
	require.NoError(t, h.List(c))

	assert.Equal(t, ports.ListPartsInput{Search: "brake", CarMake: "Toyota", CarYear: 2015, Category: "Brakes"}, got)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"count":0,"parts":[]}`, rec.Body.String())
}

func TestPartHandler_List_BadYear(t *testing.T) {
	e := newTestEcho()
	h := NewPartHandler(&stubPartService{})

	c, _ := jsonContext(e, http.MethodGet, "/api/parts?carYear=abc", "")
	assert.ErrorIs(t, h.List(c), domain.ErrValidation)
}

func TestPartHandler_Create(t *testing.T) {
	e := newTestEcho()
	h := NewPartHandler(&stubPartService{
		createFn: func(_ context.Context, m *domain.User, in ports.CreatePartInput) (*domain.Part, error) {
			assert.Equal(t, "m1", m.ID)
			return &domain.Part{ID: "p1", Name: in.Name, Price: in.Price, MerchantID: m.ID, Status: domain.PartAvailable}, nil
		},
	})

	c, rec := jsonContext(e, http.MethodPost, "/api/parts",
		`{"name":"Brake Pad","category":"Brakes","price":50,"carMake":"Toyota","carModel":"Corolla"}`)
	c.Set(middleware.ContextKeyUser, testMerchant)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool        `json:"success"`
		Part    domain.Part `json:"part"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "p1", resp.Part.ID)
	assert.Equal(t, "m1", resp.Part.MerchantID)
}

func TestPartHandler_Create_MissingFields(t *testing.T) {
	e := newTestEcho()
	h := NewPartHandler(&stubPartService{})

	c, _ := jsonContext(e, http.MethodPost, "/api/parts", `{"name":"Brake Pad","price":50}`)
	c.Set(middleware.ContextKeyUser, testMerchant)

	err := h.Create(c)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "category is required")
	assert.Contains(t, err.Error(), "carMake is required")
}

func TestPartHandler_Update_PassesPartialChanges(t *testing.T) {
	e := newTestEcho()
	h := NewPartHandler(&stubPartService{
		updateFn: func(_ context.Context, _ *domain.User, id string, ch ports.PartChanges) (*domain.Part, error) {
			assert.Equal(t, "p1", id)
			require.NotNil(t, ch.Status)
			assert.Equal(t, domain.PartSold, *ch.Status)
			assert.Nil(t, ch.Name, "absent fields stay nil")
			return &domain.Part{ID: id, Status: *ch.Status}, nil
		},
	})

	c, rec := jsonContext(e, http.MethodPut, "/api/parts/p1", `{"status":"sold"}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	c.Set(middleware.ContextKeyUser, testMerchant)

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPartHandler_Update_BadStatus(t *testing.T) {
	e := newTestEcho()
	h := NewPartHandler(&stubPartService{})

	c, _ := jsonContext(e, http.MethodPut, "/api/parts/p1", `{"status":"lost"}`)
	c.Set(middleware.ContextKeyUser, testMerchant)
	assert.ErrorIs(t, h.Update(c), domain.ErrValidation)
}

func TestPartHandler_Delete(t *testing.T) {
	e := newTestEcho()
	h := NewPartHandler(&stubPartService{
		deleteFn: func(_ context.Context, actor *domain.User, id string) error {
			if actor.ID != "m1" {
				return domain.ErrNotOwner
			}
			return nil
		},
	})

	c, rec := jsonContext(e, http.MethodDelete, "/api/parts/p1", "")
	c.SetParamNames("id")
	c.SetParamValues("p1")
	c.Set(middleware.ContextKeyUser, testMerchant)
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = jsonContext(e, http.MethodDelete, "/api/parts/p1", "")
	c.Set(middleware.ContextKeyUser, &domain.User{ID: "m2", Role: domain.RoleMerchant})
	assert.True(t, errors.Is(h.Delete(c), domain.ErrNotOwner))
}
