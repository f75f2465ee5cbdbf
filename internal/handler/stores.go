package handler

import (
	"context"

	"github.com/magsub/subscription-api/internal/model"
	"github.com/magsub/subscription-api/internal/repository"
)

// The handler layer consumes narrow store interfaces instead of concrete
// repositories so tests can run against in-memory fakes. The repository
// types satisfy them directly.

// UserStore is the credential-store surface the user endpoints need.
type UserStore interface {
	Create(ctx context.Context, name, email, password string, cost int) (uint64, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByName(ctx context.Context, name string) (model.User, error)
	FindByID(ctx context.Context, id uint64) (model.User, error)
	UpdatePassword(ctx context.Context, userID uint64, newHash string) error
	Delete(ctx context.Context, userID uint64) error
}

// RefreshRevoker revokes server-side refresh tokens; only wired when the
// refresh registry is enabled.
type RefreshRevoker interface {
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

type MagazineStore interface {
	Create(ctx context.Context, m *model.Magazine) error
	GetByID(ctx context.Context, id uint64) (*model.Magazine, error)
	ListAll(ctx context.Context) ([]*model.Magazine, error)
	Update(ctx context.Context, id uint64, patch repository.MagazineUpdate) (*model.Magazine, error)
	Delete(ctx context.Context, id uint64) error
}

type PlanStore interface {
	Create(ctx context.Context, p *model.Plan) error
	GetByID(ctx context.Context, id uint64) (*model.Plan, error)
	ListAll(ctx context.Context) ([]*model.Plan, error)
	Update(ctx context.Context, id uint64, patch repository.PlanUpdate) (*model.Plan, error)
	Delete(ctx context.Context, id uint64) error
}

type SubscriptionStore interface {
	Create(ctx context.Context, s *model.Subscription) error
	GetByID(ctx context.Context, id uint64) (*model.Subscription, error)
	ListAll(ctx context.Context) ([]*model.Subscription, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Subscription, error)
	Update(ctx context.Context, id uint64, patch repository.SubscriptionUpdate) (*model.Subscription, error)
	Delete(ctx context.Context, id uint64) error
}
