// Package catalog serves product reads for the storefront and product
// management for the back office. Reads of single products go through a
// cache; mutations invalidate it.
package catalog

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Narutostha/ww/internal/cache"
	"github.com/Narutostha/ww/internal/domain"
	"github.com/Narutostha/ww/internal/events"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	SoftDeleteProduct(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo  ProductRepository
	cache cache.ProductCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo ProductRepository, cache cache.ProductCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	// Use singleflight so concurrent misses for the same product hit the
	// repository once.
	v, err, _ := s.sfg.Do(id.String(), func() (interface{}, error) {
		product, err := s.cache.Get(ctx, id.String())
		if err == nil {
			return product, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		product, errGet := s.repo.GetProduct(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			errSet := s.cache.Set(context.Background(), id.String(), product)
			if errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

func (s *Service) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		log.Printf("repo create product error: %v", err)
		return err
	}
	return nil
}

func (s *Service) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		log.Printf("repo update product error: %v", err)
		return err
	}

	s.invalidateCache(p.ID)
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDeleteProduct(ctx, id); err != nil {
		log.Printf("repo delete product error: %v", err)
		return err
	}

	s.invalidateCache(id)
	return nil
}

// InvalidateProduct drops the cached entry for a product whose stock just
// changed outside this service (checkout decrements it directly).
func (s *Service) InvalidateProduct(id uuid.UUID) {
	s.invalidateCache(id)
}

// HandleOrderEvent is the notifier subscription: a placed order changed the
// stock of every product it contains, so their cached entries are stale.
func (s *Service) HandleOrderEvent(ev events.OrderEvent) {
	for _, id := range ev.ProductIDs {
		s.invalidateCache(id)
	}
}

func (s *Service) invalidateCache(id uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, id.String()); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
