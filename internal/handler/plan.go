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

// PlanHandler exposes CRUD over subscription plans.
type PlanHandler struct {
	Plans PlanStore
}

func NewPlanHandler(plans PlanStore) *PlanHandler {
	return &PlanHandler{Plans: plans}
}

type planReq struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	RenewalPeriod int     `json:"renewal_period"`
	Tier          int     `json:"tier"`
	Discount      float64 `json:"discount"`
}

// List handles GET /plans/.
func (h *PlanHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Plans.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.Plan{}
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /plans/.
func (h *PlanHandler) Create(c echo.Context) error {
	var req planReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.RenewalPeriod <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "renewal_period must be positive"})
	}
	if req.Discount < 0 || req.Discount >= 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "discount must be in [0,1)"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := &model.Plan{
		Title:         req.Title,
		Description:   req.Description,
		RenewalPeriod: req.RenewalPeriod,
		Tier:          req.Tier,
		Discount:      req.Discount,
	}
	if err := h.Plans.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create plan"})
	}
	return c.JSON(http.StatusCreated, p)
}

// Get handles GET /plans/:id.
func (h *PlanHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Plans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plan not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, p)
}

// Update handles PUT /plans/:id via a typed patch struct.
func (h *PlanHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var patch repository.PlanUpdate
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if patch.Discount != nil && (*patch.Discount < 0 || *patch.Discount >= 1) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "discount must be in [0,1)"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Plans.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plan not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /plans/:id.
func (h *PlanHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Plans.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "plan not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "plan deleted"})
}
