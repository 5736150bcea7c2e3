package server

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/example/tmstore/pkg/admin"
	"github.com/example/tmstore/pkg/cart"
	"github.com/example/tmstore/pkg/catalog"
	"github.com/example/tmstore/pkg/cms"
	"github.com/example/tmstore/pkg/config"
	"github.com/example/tmstore/pkg/contact"
	"github.com/example/tmstore/pkg/models"
	"github.com/example/tmstore/pkg/order"
	"github.com/example/tmstore/pkg/repository"
	"go.uber.org/zap"
)

// --- Fakes ---

type fakeCatalog struct {
	products    []models.Product
	categories  []models.Category
	listErr     error
	invalidated int
}

func (f *fakeCatalog) ListProducts(context.Context) ([]models.Product, error) {
	return f.products, f.listErr
}

func (f *fakeCatalog) GetProductBySlug(_ context.Context, slug string) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].Slug == slug {
			return &f.products[i], nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

func (f *fakeCatalog) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

func (f *fakeCatalog) FeaturedProducts(_ context.Context, limit int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.IsFeatured && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListCategories(context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalog) GetCategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	for i := range f.categories {
		if f.categories[i].Slug == slug {
			return &f.categories[i], nil
		}
	}
	return nil, catalog.ErrCategoryNotFound
}

func (f *fakeCatalog) InvalidateCache(context.Context) {
	f.invalidated++
}

// memCartStore keeps carts in a plain map, standing in for Redis.
type memCartStore struct {
	carts map[string]*cart.Cart
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: make(map[string]*cart.Cart)}
}

func (m *memCartStore) Load(_ context.Context, sessionID string) (*cart.Cart, error) {
	if c, ok := m.carts[sessionID]; ok {
		cp := *c
		return &cp, nil
	}
	return cart.New(), nil
}

func (m *memCartStore) Save(_ context.Context, sessionID string, c *cart.Cart) error {
	cp := *c
	m.carts[sessionID] = &cp
	return nil
}

func (m *memCartStore) Delete(_ context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

type fakeOrders struct {
	created   []order.Submission
	bySession map[string][]models.Order
	byNumber  map[string]*models.Order
}

func (f *fakeOrders) Create(_ context.Context, sub order.Submission) (*models.Order, error) {
	if err := order.Validate(sub); err != nil {
		return nil, err
	}
	f.created = append(f.created, sub)
	var total int64
	for _, it := range sub.Items {
		total += it.Price * int64(it.Quantity)
	}
	return &models.Order{
		OrderNumber:     "TM250307-0042",
		SessionID:       sub.SessionID,
		CustomerName:    sub.CustomerName,
		CustomerPhone:   sub.CustomerPhone,
		ShippingAddress: sub.ShippingAddress,
		Total:           total,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
	}, nil
}

func (f *fakeOrders) GetByNumber(_ context.Context, orderNumber string) (*models.Order, error) {
	if o, ok := f.byNumber[orderNumber]; ok {
		return o, nil
	}
	return nil, order.ErrOrderNotFound
}

func (f *fakeOrders) ListBySession(_ context.Context, sessionID string) ([]models.Order, error) {
	return f.bySession[sessionID], nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, _, orderNumber string, status models.OrderStatus, payment models.PaymentStatus) (*models.Order, error) {
	o, ok := f.byNumber[orderNumber]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	if status != "" {
		o.Status = status
	}
	if payment != "" {
		o.PaymentStatus = payment
	}
	return o, nil
}

type fakeReorder struct {
	applied map[string][]admin.Position
	views   map[string][]admin.ViewRecord
}

func (f *fakeReorder) Reorder(_ context.Context, _, resource string, positions []admin.Position) error {
	if _, ok := f.views[resource]; !ok {
		return admin.ErrUnknownResource
	}
	if f.applied == nil {
		f.applied = make(map[string][]admin.Position)
	}
	f.applied[resource] = positions
	return nil
}

func (f *fakeReorder) List(_ context.Context, resource string) ([]admin.ViewRecord, error) {
	views, ok := f.views[resource]
	if !ok {
		return nil, admin.ErrUnknownResource
	}
	return views, nil
}

type fakeAudit struct {
	logs []*repository.AuditLog
}

func (f *fakeAudit) AuditTrail(_ context.Context, resource, entityID string, limit int64) ([]*repository.AuditLog, error) {
	var out []*repository.AuditLog
	for _, l := range f.logs {
		if l.Resource != resource {
			continue
		}
		if entityID != "" && l.EntityID != entityID {
			continue
		}
		if int64(len(out)) < limit {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeCMS struct {
	posts []models.BlogPost
	pages []models.Page
}

func (f *fakeCMS) ListPosts(_ context.Context, offset, limit int) ([]models.BlogPost, int64, error) {
	total := int64(len(f.posts))
	if offset > len(f.posts) {
		offset = len(f.posts)
	}
	end := offset + limit
	if end > len(f.posts) {
		end = len(f.posts)
	}
	return f.posts[offset:end], total, nil
}

func (f *fakeCMS) GetPostBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
	for i := range f.posts {
		if f.posts[i].Slug == slug {
			return &f.posts[i], nil
		}
	}
	return nil, cms.ErrPostNotFound
}

func (f *fakeCMS) ListPages(context.Context) ([]models.Page, error) {
	return f.pages, nil
}

func (f *fakeCMS) GetPageBySlug(_ context.Context, slug string) (*models.Page, error) {
	for i := range f.pages {
		if f.pages[i].Slug == slug {
			return &f.pages[i], nil
		}
	}
	return nil, cms.ErrPageNotFound
}

type fakeContacts struct {
	created []models.ContactMessage
}

func (f *fakeContacts) Create(_ context.Context, name, email, message string) (*models.ContactMessage, error) {
	if name == "" || email == "" || message == "" {
		return nil, &contact.ValidationError{Fields: []contact.FieldError{{Field: "name", Message: "required"}}}
	}
	msg := models.ContactMessage{ID: "m1", Name: name, Email: email, Message: message}
	f.created = append(f.created, msg)
	return &msg, nil
}

// --- Harness ---

type testEnv struct {
	server   *Server
	catalog  *fakeCatalog
	carts    *memCartStore
	orders   *fakeOrders
	reorder  *fakeReorder
	audit    *fakeAudit
	cms      *fakeCMS
	contacts *fakeContacts
}

func newTestEnv() *testEnv {
	cfg := &config.Config{}
	cfg.Admin.Username = "admin"
	cfg.Admin.Password = "secret"
	cfg.Store.Name = "TM Store"
	cfg.Store.WhatsAppNumber = "6281200000000"
	cfg.Store.Currency = "IDR"

	env := &testEnv{
		catalog:  &fakeCatalog{},
		carts:    newMemCartStore(),
		orders:   &fakeOrders{byNumber: map[string]*models.Order{}, bySession: map[string][]models.Order{}},
		reorder:  &fakeReorder{views: map[string][]admin.ViewRecord{}},
		audit:    &fakeAudit{},
		cms:      &fakeCMS{},
		contacts: &fakeContacts{},
	}
	env.server = NewServer(cfg, zap.NewNop(), Deps{
		Catalog:  env.catalog,
		Carts:    env.carts,
		Orders:   env.orders,
		Reorder:  env.reorder,
		Audit:    env.audit,
		CMS:      env.cms,
		Contacts: env.contacts,
	})
	env.server.SetupRoutes()
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}
