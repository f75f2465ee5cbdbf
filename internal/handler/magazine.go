package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/magsub/subscription-api/internal/model"
	"github.com/magsub/subscription-api/internal/repository"
)

// MagazineHandler exposes CRUD over the magazine catalog.
type MagazineHandler struct {
	Magazines MagazineStore
}

func NewMagazineHandler(magazines MagazineStore) *MagazineHandler {
	return &MagazineHandler{Magazines: magazines}
}

type magazineReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price"`
}

// List handles GET /magazines/.
func (h *MagazineHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Magazines.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.Magazine{}
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /magazines/.
func (h *MagazineHandler) Create(c echo.Context) error {
	var req magazineReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.BasePrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_price must not be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := &model.Magazine{Name: req.Name, Description: req.Description, BasePrice: req.BasePrice}
	if err := h.Magazines.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create magazine"})
	}
	return c.JSON(http.StatusCreated, m)
}

// Get handles GET /magazines/:id.
func (h *MagazineHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Magazines.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMagazineNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "magazine not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, m)
}

// Update handles PUT /magazines/:id. The body binds into a typed patch
// struct; only non-nil fields change.
func (h *MagazineHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var patch repository.MagazineUpdate
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Magazines.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrMagazineNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "magazine not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /magazines/:id.
func (h *MagazineHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Magazines.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMagazineNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "magazine not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "magazine deleted"})
}
