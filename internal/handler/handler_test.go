package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magsub/subscription-api/internal/auth"
	"github.com/magsub/subscription-api/internal/config"
	"github.com/magsub/subscription-api/internal/model"
	"github.com/magsub/subscription-api/internal/repository"
)

// In-memory fakes for the store interfaces. They mirror the repository
// semantics closely enough for handler tests: sentinel errors on misses,
// auto-incremented IDs, explicit field merge on update.

type memUserStore struct {
	nextID uint64
	users  map[uint64]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{nextID: 1, users: map[uint64]model.User{}}
}

func (s *memUserStore) Create(_ context.Context, name, email, password string, cost int) (uint64, error) {
	for _, u := range s.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	id := s.nextID
	s.nextID++
	s.users[id] = model.User{ID: id, Name: name, Email: email, PasswordHash: hash}
	return id, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (s *memUserStore) FindByName(_ context.Context, name string) (model.User, error) {
	for _, u := range s.users {
		if u.Name == name {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (s *memUserStore) FindByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *memUserStore) UpdatePassword(_ context.Context, userID uint64, newHash string) error {
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = newHash
	s.users[userID] = u
	return nil
}

func (s *memUserStore) Delete(_ context.Context, userID uint64) error {
	if _, ok := s.users[userID]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, userID)
	return nil
}

type memMagazineStore struct {
	nextID uint64
	items  map[uint64]model.Magazine
}

func newMemMagazineStore() *memMagazineStore {
	return &memMagazineStore{nextID: 1, items: map[uint64]model.Magazine{}}
}

func (s *memMagazineStore) Create(_ context.Context, m *model.Magazine) error {
	m.ID = s.nextID
	s.nextID++
	s.items[m.ID] = *m
	return nil
}

func (s *memMagazineStore) GetByID(_ context.Context, id uint64) (*model.Magazine, error) {
	m, ok := s.items[id]
	if !ok {
		return nil, repository.ErrMagazineNotFound
	}
	return &m, nil
}

func (s *memMagazineStore) ListAll(_ context.Context) ([]*model.Magazine, error) {
	var out []*model.Magazine
	for id := uint64(1); id < s.nextID; id++ {
		if m, ok := s.items[id]; ok {
			cp := m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memMagazineStore) Update(_ context.Context, id uint64, patch repository.MagazineUpdate) (*model.Magazine, error) {
	m, ok := s.items[id]
	if !ok {
		return nil, repository.ErrMagazineNotFound
	}
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.BasePrice != nil {
		m.BasePrice = *patch.BasePrice
	}
	s.items[id] = m
	return &m, nil
}

func (s *memMagazineStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.items[id]; !ok {
		return repository.ErrMagazineNotFound
	}
	delete(s.items, id)
	return nil
}

type memPlanStore struct {
	nextID uint64
	items  map[uint64]model.Plan
}

func newMemPlanStore() *memPlanStore {
	return &memPlanStore{nextID: 1, items: map[uint64]model.Plan{}}
}

func (s *memPlanStore) Create(_ context.Context, p *model.Plan) error {
	p.ID = s.nextID
	s.nextID++
	s.items[p.ID] = *p
	return nil
}

func (s *memPlanStore) GetByID(_ context.Context, id uint64) (*model.Plan, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, repository.ErrPlanNotFound
	}
	return &p, nil
}

func (s *memPlanStore) ListAll(_ context.Context) ([]*model.Plan, error) {
	var out []*model.Plan
	for id := uint64(1); id < s.nextID; id++ {
		if p, ok := s.items[id]; ok {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memPlanStore) Update(_ context.Context, id uint64, patch repository.PlanUpdate) (*model.Plan, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, repository.ErrPlanNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.RenewalPeriod != nil {
		p.RenewalPeriod = *patch.RenewalPeriod
	}
	if patch.Tier != nil {
		p.Tier = *patch.Tier
	}
	if patch.Discount != nil {
		p.Discount = *patch.Discount
	}
	s.items[id] = p
	return &p, nil
}

func (s *memPlanStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.items[id]; !ok {
		return repository.ErrPlanNotFound
	}
	delete(s.items, id)
	return nil
}

type memSubscriptionStore struct {
	nextID uint64
	items  map[uint64]model.Subscription
}

func newMemSubscriptionStore() *memSubscriptionStore {
	return &memSubscriptionStore{nextID: 1, items: map[uint64]model.Subscription{}}
}

func (s *memSubscriptionStore) Create(_ context.Context, sub *model.Subscription) error {
	sub.ID = s.nextID
	s.nextID++
	s.items[sub.ID] = *sub
	return nil
}

func (s *memSubscriptionStore) GetByID(_ context.Context, id uint64) (*model.Subscription, error) {
	sub, ok := s.items[id]
	if !ok {
		return nil, repository.ErrSubscriptionNotFound
	}
	return &sub, nil
}

func (s *memSubscriptionStore) ListAll(_ context.Context) ([]*model.Subscription, error) {
	var out []*model.Subscription
	for id := uint64(1); id < s.nextID; id++ {
		if sub, ok := s.items[id]; ok {
			cp := sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memSubscriptionStore) ListByUser(ctx context.Context, userID uint64) ([]*model.Subscription, error) {
	all, _ := s.ListAll(ctx)
	var out []*model.Subscription
	for _, sub := range all {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *memSubscriptionStore) Update(_ context.Context, id uint64, patch repository.SubscriptionUpdate) (*model.Subscription, error) {
	sub, ok := s.items[id]
	if !ok {
		return nil, repository.ErrSubscriptionNotFound
	}
	if patch.UserID != nil {
		sub.UserID = *patch.UserID
	}
	if patch.MagazineID != nil {
		sub.MagazineID = *patch.MagazineID
	}
	if patch.PlanID != nil {
		sub.PlanID = *patch.PlanID
	}
	if patch.RenewalDate != nil {
		sub.RenewalDate = *patch.RenewalDate
	}
	if patch.Price != nil {
		sub.Price = *patch.Price
	}
	if patch.IsActive != nil {
		sub.IsActive = *patch.IsActive
	}
	s.items[id] = sub
	return &sub, nil
}

func (s *memSubscriptionStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.items[id]; !ok {
		return repository.ErrSubscriptionNotFound
	}
	delete(s.items, id)
	return nil
}

// memRevoker records revocation calls.
type memRevoker struct {
	revoked []uint64
}

func (r *memRevoker) RevokeAllForUser(_ context.Context, userID uint64) error {
	r.revoked = append(r.revoked, userID)
	return nil
}

// ----- request helpers -----

func testConfig() config.Config {
	return config.Config{BcryptCost: bcrypt.MinCost, AccessTTLMin: 30}
}

func testTokenConfig() auth.TokenConfig {
	return auth.TokenConfig{Secret: "handler-test-secret", AccessTTL: 30 * time.Minute}
}

func newAuthFixture(t *testing.T) (*AuthHandler, *memUserStore) {
	t.Helper()
	users := newMemUserStore()
	a, err := auth.NewAuthenticator(testTokenConfig(), users, nil, false, bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthHandler(testConfig(), a, users, nil), users
}

// doJSON runs one handler invocation with a JSON body and returns the
// recorder plus the echo context used, so callers can seed path params or
// context values first via the prepare hook.
func doJSON(t *testing.T, method, target string, body any, prepare func(echo.Context), h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if prepare != nil {
		prepare(c)
	}
	require.NoError(t, h(c))
	return rec
}

// doForm is doJSON for application/x-www-form-urlencoded bodies.
func doForm(t *testing.T, target string, form url.Values, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}

func withParam(name, value string) func(echo.Context) {
	return func(c echo.Context) {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}
}
