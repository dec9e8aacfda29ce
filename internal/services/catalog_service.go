package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/adyen/productpage/internal/models"
)

// CatalogRepository defines the interface for catalog lookups
type CatalogRepository interface {
	GetProduct(ctx context.Context, slug string) (*models.Product, error)
}

// CatalogService provides the product shown on the page
type CatalogService interface {
	Product(ctx context.Context) (models.Product, error)
}

// CatalogServiceImpl implements CatalogService for a single configured slug
type CatalogServiceImpl struct {
	repo   CatalogRepository
	slug   string
	logger *zap.Logger

	mu      sync.Mutex
	product *models.Product
}

// NewCatalogService creates a catalog service serving slug from repo
func NewCatalogService(repo CatalogRepository, slug string, logger *zap.Logger) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		repo:   repo,
		slug:   slug,
		logger: logger,
	}
}

// Product returns the validated catalog entry. The first successful load is
// cached; failed loads are retried on the next call.
func (s *CatalogServiceImpl) Product(ctx context.Context) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.product != nil {
		return *s.product, nil
	}

	product, err := s.repo.GetProduct(ctx, s.slug)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to load product %q: %w", s.slug, err)
	}

	if err := product.Validate(); err != nil {
		return models.Product{}, fmt.Errorf("invalid product %q: %w", s.slug, err)
	}

	s.logger.Info("catalog entry loaded",
		zap.String("slug", s.slug),
		zap.String("name", product.Name),
		zap.Int("colors", len(product.Colors)),
		zap.Int("sizes", len(product.Sizes)),
		zap.Int("images", len(product.Images)),
	)

	s.product = product
	return *product, nil
}
