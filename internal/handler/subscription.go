package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/magsub/subscription-api/internal/model"
	"github.com/magsub/subscription-api/internal/queue"
	"github.com/magsub/subscription-api/internal/repository"
	queue_publisher "github.com/magsub/subscription-api/internal/service"
)

// dateLayout is the wire format for renewal dates.
const dateLayout = "2006-01-02"

// SubscriptionHandler exposes CRUD over subscriptions. Creating a
// subscription validates the referenced user, magazine and plan and
// publishes a subscription.created event; the event is best-effort and a
// broker failure never fails the request.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
	Users         UserStore
	Magazines     MagazineStore
	Plans         PlanStore

	// Publish emits the created event. Defaults to the RabbitMQ publisher;
	// tests swap in a recorder.
	Publish func(ctx context.Context, ev queue.SubscriptionCreatedEvent) error
}

func NewSubscriptionHandler(subs SubscriptionStore, users UserStore, magazines MagazineStore, plans PlanStore) *SubscriptionHandler {
	return &SubscriptionHandler{
		Subscriptions: subs,
		Users:         users,
		Magazines:     magazines,
		Plans:         plans,
		Publish:       queue_publisher.PublishSubscriptionCreated,
	}
}

type subscriptionReq struct {
	UserID      uint64   `json:"user_id"`
	MagazineID  uint64   `json:"magazine_id"`
	PlanID      uint64   `json:"plan_id"`
	RenewalDate string   `json:"renewal_date"`
	Price       *float64 `json:"price"`
	IsActive    *bool    `json:"is_active"`
}

// parseDate accepts the date-only wire format and, for convenience, a full
// RFC 3339 timestamp whose time component is discarded.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// List handles GET /subscriptions/. The optional ?user_id= query filters
// to a single user's subscriptions.
func (h *SubscriptionHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		items []*model.Subscription
		err   error
	)
	if q := c.QueryParam("user_id"); q != "" {
		uid, perr := strconv.ParseUint(q, 10, 64)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
		}
		items, err = h.Subscriptions.ListByUser(ctx, uid)
	} else {
		items, err = h.Subscriptions.ListAll(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.Subscription{}
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /subscriptions/. The referenced rows must exist.
// When price is omitted it is derived from the magazine base price and the
// plan discount.
func (h *SubscriptionHandler) Create(c echo.Context) error {
	var req subscriptionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	renewal, err := parseDate(req.RenewalDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "renewal_date must be YYYY-MM-DD"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.FindByID(ctx, req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown user_id"})
	}
	m, err := h.Magazines.GetByID(ctx, req.MagazineID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown magazine_id"})
	}
	p, err := h.Plans.GetByID(ctx, req.PlanID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown plan_id"})
	}

	price := m.BasePrice * (1 - p.Discount)
	if req.Price != nil {
		if *req.Price < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
		}
		price = *req.Price
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	s := &model.Subscription{
		UserID:      req.UserID,
		MagazineID:  req.MagazineID,
		PlanID:      req.PlanID,
		RenewalDate: renewal,
		Price:       price,
		IsActive:    active,
	}
	if err := h.Subscriptions.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create subscription"})
	}

	if h.Publish != nil {
		ev := queue.SubscriptionCreatedEvent{
			SubscriptionID: s.ID,
			UserID:         u.ID,
			UserEmail:      u.Email,
			MagazineID:     m.ID,
			MagazineName:   m.Name,
			PlanID:         p.ID,
			PlanTitle:      p.Title,
			RenewalDate:    renewal.Format(dateLayout),
			Price:          price,
			CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Publish(ctx, ev); err != nil {
			log.Printf("subscription %d created but event publish failed: %v", s.ID, err)
		}
	}
	return c.JSON(http.StatusCreated, s)
}

// Get handles GET /subscriptions/:id.
func (h *SubscriptionHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Subscriptions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subscription not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, s)
}

// subscriptionPatch mirrors repository.SubscriptionUpdate but keeps the
// date in its string wire format until parsed.
type subscriptionPatch struct {
	UserID      *uint64  `json:"user_id"`
	MagazineID  *uint64  `json:"magazine_id"`
	PlanID      *uint64  `json:"plan_id"`
	RenewalDate *string  `json:"renewal_date"`
	Price       *float64 `json:"price"`
	IsActive    *bool    `json:"is_active"`
}

// Update handles PUT /subscriptions/:id via explicit field merge.
func (h *SubscriptionHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body subscriptionPatch
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	patch := repository.SubscriptionUpdate{
		UserID:     body.UserID,
		MagazineID: body.MagazineID,
		PlanID:     body.PlanID,
		Price:      body.Price,
		IsActive:   body.IsActive,
	}
	if body.RenewalDate != nil {
		d, err := parseDate(*body.RenewalDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "renewal_date must be YYYY-MM-DD"})
		}
		patch.RenewalDate = &d
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Subscriptions.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subscription not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// Delete handles DELETE /subscriptions/:id.
func (h *SubscriptionHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Subscriptions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subscription not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "subscription deleted"})
}
