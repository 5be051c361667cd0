package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

// PartHandler handles HTTP requests for part listings.
type PartHandler struct {
	service ports.PartService
}

func NewPartHandler(service ports.PartService) *PartHandler {
	return &PartHandler{service: service}
}

func partsEnvelope(parts []*domain.Part) partsResponse {
	if parts == nil {
		parts = []*domain.Part{}
	}
	return partsResponse{Success: true, Count: len(parts), Parts: parts}
}

// List handles GET /api/parts.
//
// @Summary      Browse available parts
// @Description  Featured parts first, then newest. At most 100 results.
// @Tags         parts
// @Produce      json
// @Param        search    query     string  false  "Substring of name, car make or car model"
// @Param        carMake   query     string  false  "Car make (substring)"
// @Param        carModel  query     string  false  "Car model (substring)"
// @Param        carYear   query     int     false  "Car year (exact)"
// @Param        category  query     string  false  "Category (exact)"
// @Success      200       {object}  partsResponse
// @Failure      400       {object}  messageResponse
// @Router       /parts [get]
func (h *PartHandler) List(c echo.Context) error {
	in := ports.ListPartsInput{
		Search:   c.QueryParam("search"),
		CarMake:  c.QueryParam("carMake"),
		CarModel: c.QueryParam("carModel"),
		Category: c.QueryParam("category"),
	}
	if raw := strings.TrimSpace(c.QueryParam("carYear")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: carYear must be a number", domain.ErrValidation)
		}
		in.CarYear = year
	}

	parts, err := h.service.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, partsEnvelope(parts))
}

// ListMine handles GET /api/parts/my.
//
// @Summary      List the caller's parts
// @Tags         parts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  partsResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /parts/my [get]
func (h *PartHandler) ListMine(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	parts, err := h.service.ListMine(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, partsEnvelope(parts))
}

// Create handles POST /api/parts.
//
// @Summary      Create a part listing
// @Tags         parts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPartRequest  true  "Part details"
// @Success      201   {object}  partResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /parts [post]
func (h *PartHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createPartRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	part, err := h.service.Create(c.Request().Context(), user, ports.CreatePartInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CarMake:     req.CarMake,
		CarModel:    req.CarModel,
		CarYear:     req.CarYear,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, partResponse{Success: true, Part: part})
}

// Update handles PUT /api/parts/:id.
//
// @Summary      Update an owned part
// @Tags         parts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Part id"
// @Param        body  body      updatePartRequest  true  "Fields to change"
// @Success      200   {object}  partResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /parts/{id} [put]
func (h *PartHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updatePartRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	part, err := h.service.Update(c.Request().Context(), user, c.Param("id"), req.toChanges())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, partResponse{Success: true, Part: part})
}

// Delete handles DELETE /api/parts/:id.
//
// @Summary      Delete an owned part
// @Tags         parts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Part id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /parts/{id} [delete]
func (h *PartHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "part deleted"})
}
