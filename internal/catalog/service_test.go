package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Narutostha/ww/internal/cache"
	"github.com/Narutostha/ww/internal/domain"
	"github.com/Narutostha/ww/internal/events"
	"github.com/Narutostha/ww/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProductRepository implements ProductRepository for testing
type MockProductRepository struct {
	Products map[uuid.UUID]*domain.Product
	Err      error
	GetCalls int
}

func (m *MockProductRepository) ListProducts(_ context.Context) ([]*domain.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var products []*domain.Product
	for _, p := range m.Products {
		products = append(products, p)
	}
	return products, nil
}

func (m *MockProductRepository) GetProduct(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	m.GetCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	p, exists := m.Products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *MockProductRepository) CreateProduct(_ context.Context, p *domain.Product) error {
	if m.Err != nil {
		return m.Err
	}
	m.Products[p.ID] = p
	return nil
}

func (m *MockProductRepository) UpdateProduct(_ context.Context, p *domain.Product) error {
	if m.Err != nil {
		return m.Err
	}
	m.Products[p.ID] = p
	return nil
}

func (m *MockProductRepository) SoftDeleteProduct(_ context.Context, id uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Products, id)
	return nil
}

// MockCache implements cache.ProductCache for testing. The service sets
// entries from a background goroutine, hence the mutex.
type MockCache struct {
	mu      sync.Mutex
	Entries map[string]*domain.Product
	Deleted []string
}

func NewMockCache() *MockCache {
	return &MockCache{Entries: make(map[string]*domain.Product)}
}

func (m *MockCache) Get(_ context.Context, key string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, exists := m.Entries[key]
	if !exists {
		return nil, cache.ErrCacheMiss
	}
	return p, nil
}

func (m *MockCache) Set(_ context.Context, key string, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries[key] = p
	return nil
}

func (m *MockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, key)
	delete(m.Entries, key)
	return nil
}

func (m *MockCache) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.Entries[key]
	return exists
}

func testProduct(t *testing.T) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct("Oversized Tee", decimal.NewFromInt(1500), 10)
	require.NoError(t, err)
	return p
}

func TestGetProduct_CacheMiss_FallsThroughToRepo(t *testing.T) {
	p := testProduct(t)
	repo := &MockProductRepository{Products: map[uuid.UUID]*domain.Product{p.ID: p}}
	mc := NewMockCache()
	svc := NewService(repo, mc)

	got, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, 1, repo.GetCalls)

	// The cache set happens asynchronously.
	assert.Eventually(t, func() bool {
		return mc.Has(p.ID.String())
	}, time.Second, 10*time.Millisecond)
}

func TestGetProduct_CacheHit_SkipsRepo(t *testing.T) {
	p := testProduct(t)
	repo := &MockProductRepository{Products: map[uuid.UUID]*domain.Product{}}
	mc := NewMockCache()
	mc.Entries[p.ID.String()] = p
	svc := NewService(repo, mc)

	got, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Zero(t, repo.GetCalls)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := &MockProductRepository{Products: map[uuid.UUID]*domain.Product{}}
	svc := NewService(repo, NewMockCache())

	_, err := svc.GetProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestUpdateProduct_InvalidatesCache(t *testing.T) {
	p := testProduct(t)
	repo := &MockProductRepository{Products: map[uuid.UUID]*domain.Product{p.ID: p}}
	mc := NewMockCache()
	mc.Entries[p.ID.String()] = p
	svc := NewService(repo, mc)

	p.Stock = 5
	require.NoError(t, svc.UpdateProduct(context.Background(), p))

	assert.Contains(t, mc.Deleted, p.ID.String())
}

func TestDeleteProduct_InvalidatesCache(t *testing.T) {
	p := testProduct(t)
	repo := &MockProductRepository{Products: map[uuid.UUID]*domain.Product{p.ID: p}}
	mc := NewMockCache()
	mc.Entries[p.ID.String()] = p
	svc := NewService(repo, mc)

	require.NoError(t, svc.DeleteProduct(context.Background(), p.ID))

	assert.Contains(t, mc.Deleted, p.ID.String())
	_, err := svc.GetProduct(context.Background(), p.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestHandleOrderEvent_DropsCachedProductsAfterSale(t *testing.T) {
	tee := testProduct(t)
	hoodie := testProduct(t)
	repo := &MockProductRepository{Products: map[uuid.UUID]*domain.Product{tee.ID: tee, hoodie.ID: hoodie}}
	mc := NewMockCache()
	mc.Entries[tee.ID.String()] = tee
	mc.Entries[hoodie.ID.String()] = hoodie
	svc := NewService(repo, mc)

	notifier := events.NewNotifier()
	notifier.Subscribe(svc.HandleOrderEvent)

	notifier.Notify(events.OrderEvent{
		Type:       events.OrderPlaced,
		OrderID:    uuid.New(),
		ProductIDs: []uuid.UUID{tee.ID, hoodie.ID},
	})

	// The stale pre-sale entries are gone; the next read hits the repository.
	assert.Contains(t, mc.Deleted, tee.ID.String())
	assert.Contains(t, mc.Deleted, hoodie.ID.String())
	assert.False(t, mc.Has(tee.ID.String()))
	assert.False(t, mc.Has(hoodie.ID.String()))
}

func TestCreateProduct_RepoError(t *testing.T) {
	repo := &MockProductRepository{Products: map[uuid.UUID]*domain.Product{}, Err: errors.New("db down")}
	svc := NewService(repo, NewMockCache())

	p := testProduct(t)
	assert.Error(t, svc.CreateProduct(context.Background(), p))
}
