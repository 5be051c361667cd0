package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

// RequestHandler serves customer part requests and the merchant dashboard.
type RequestHandler struct {
	service ports.RequestService
}

func NewRequestHandler(service ports.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// Create handles POST /api/requests. No account is needed.
//
// @Summary      Submit a part request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        body  body      createRequestRequest  true  "What the customer is looking for"
// @Success      201   {object}  requestResponse
// @Failure      400   {object}  messageResponse
// @Router       /requests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	var req createRequestRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateRequestInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PartName:      req.PartName,
		CarMake:       req.CarMake,
		CarModel:      req.CarModel,
		CarYear:       req.CarYear,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, requestResponse{Success: true, Request: created})
}

// List handles GET /api/requests.
//
// @Summary      Latest customer requests
// @Description  Newest first, at most 50.
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  requestsResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /requests [get]
func (h *RequestHandler) List(c echo.Context) error {
	reqs, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if reqs == nil {
		reqs = []*domain.Request{}
	}
	return c.JSON(http.StatusOK, requestsResponse{Success: true, Count: len(reqs), Requests: reqs})
}

// UpdateStatus handles PUT /api/requests/:id.
//
// @Summary      Move a request forward
// @Description  new → processing → responded → done. Backward moves are rejected.
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                      true  "Request id"
// @Param        body  body      updateRequestStatusRequest  true  "Target status"
// @Success      200   {object}  requestResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /requests/{id} [put]
func (h *RequestHandler) UpdateStatus(c echo.Context) error {
	var req updateRequestStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requestResponse{Success: true, Request: updated})
}

// Stats handles GET /api/stats.
//
// @Summary      Merchant dashboard counters
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  merchantStatsResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /stats [get]
func (h *RequestHandler) Stats(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	stats, err := h.service.MerchantStats(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, merchantStatsResponse{Success: true, MerchantStats: *stats})
}
