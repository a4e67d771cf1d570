package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"amazona/internal/models"
	"amazona/internal/search"
	"amazona/internal/store"
)

type memUsers struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{items: map[primitive.ObjectID]models.User{}}
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range m.items {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = time.Now()
	m.items[u.ID] = *u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.items {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) Update(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[u.ID]; !ok {
		return store.ErrNotFound
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for id, existing := range m.items {
		if id != u.ID && existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	m.items[u.ID] = *u
	return nil
}

func (m *memUsers) List(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.items))
	for _, u := range m.items {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memProducts struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Product
}

func newMemProducts(products ...models.Product) *memProducts {
	m := &memProducts{items: map[primitive.ObjectID]models.Product{}}
	for _, p := range products {
		m.items[p.ID] = p
	}
	return m
}

func (m *memProducts) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	m.items[p.ID] = *p
	return nil
}

func (m *memProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.Reviews = append([]models.Review(nil), p.Reviews...)
	return &p, nil
}

func (m *memProducts) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.Slug == slug {
			p := p
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := m.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Update(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[p.ID]; !ok {
		return store.ErrNotFound
	}
	for id, existing := range m.items {
		if id != p.ID && existing.Slug == p.Slug {
			return store.ErrDuplicate
		}
	}
	m.items[p.ID] = *p
	return nil
}

func (m *memProducts) SaveReviews(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.items[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	existing.Reviews = p.Reviews
	existing.Rating = p.Rating
	existing.NumReviews = p.NumReviews
	m.items[p.ID] = existing
	return nil
}

func (m *memProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memProducts) List(context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Product, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (m *memProducts) Featured(ctx context.Context, limit int64) ([]models.Product, error) {
	all, _ := m.List(ctx)
	out := []models.Product{}
	for _, p := range all {
		if p.IsFeatured && int64(len(out)) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Latest(ctx context.Context, limit int64) ([]models.Product, error) {
	all, _ := m.List(ctx)
	if int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Search only honours the price and category filters the tests use.
func (m *memProducts) Search(ctx context.Context, q search.Query) ([]models.Product, int64, error) {
	all, _ := m.List(ctx)
	out := []models.Product{}
	for _, p := range all {
		if cat, ok := q.Filter["category"].(string); ok && p.Category != cat {
			continue
		}
		if price, ok := q.Filter["price"].(bson.M); ok {
			if p.Price < price["$gte"].(float64) || p.Price > price["$lte"].(float64) {
				continue
			}
		}
		if rating, ok := q.Filter["rating"].(bson.M); ok {
			if floor, ok := rating["$gte"].(float64); !ok || p.Rating < floor {
				continue
			}
		}
		out = append(out, p)
	}
	count := int64(len(out))
	start := q.Skip
	if start > count {
		start = count
	}
	end := start + q.Limit
	if end > count {
		end = count
	}
	return out[start:end], count, nil
}

func (m *memProducts) distinct(field func(models.Product) string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, p := range m.items {
		if v := field(p); !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func (m *memProducts) Categories(context.Context) ([]string, error) {
	return m.distinct(func(p models.Product) string { return p.Category }), nil
}

func (m *memProducts) Brands(context.Context) ([]string, error) {
	return m.distinct(func(p models.Product) string { return p.Brand }), nil
}

type memOrders struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Order
	// users resolves owners for ListWithUsers when set.
	users *memUsers
}

func newMemOrders() *memOrders {
	return &memOrders{items: map[primitive.ObjectID]models.Order{}}
}

func (m *memOrders) Create(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	m.items[o.ID] = *o
	return nil
}

func (m *memOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

func (m *memOrders) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.items {
		if o.User == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) ListWithUsers(context.Context) ([]models.AdminOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.AdminOrder{}
	for _, o := range m.items {
		row := models.AdminOrder{Order: o}
		if m.users != nil {
			m.users.mu.Lock()
			if u, ok := m.users.items[o.User]; ok {
				row.UserInfo = &models.OrderUser{ID: u.ID, Name: u.Name}
			}
			m.users.mu.Unlock()
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *memOrders) MarkPaid(_ context.Context, id primitive.ObjectID, result models.PaymentResult) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.items[id]
	if !ok || o.IsPaid {
		return nil, store.ErrNotFound
	}
	now := time.Now()
	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = &result
	m.items[id] = o
	return &o, nil
}

func (m *memOrders) MarkDelivered(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.items[id]
	if !ok || !o.IsPaid {
		return nil, store.ErrNotFound
	}
	now := time.Now()
	o.IsDelivered = true
	o.DeliveredAt = &now
	m.items[id] = o
	return &o, nil
}

func (m *memOrders) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) Summary(ctx context.Context) (*models.Summary, error) {
	args := m.Called(ctx)
	summary, _ := args.Get(0).(*models.Summary)
	return summary, args.Error(1)
}
