package services

import (
	"context"

	"github.com/yashrajoria/storefront-service/cache"
	"github.com/yashrajoria/storefront-service/models"
	"github.com/yashrajoria/storefront-service/repository"

	"go.uber.org/zap"
)

// CatalogService serves the storefront's product read path.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]models.Product, *ServiceError)
	Seed(ctx context.Context) (int, *ServiceError)
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
	cache       *cache.ProductCache
	logger      *zap.Logger
}

// NewCatalogService creates a new CatalogService. cache may be nil;
// listing then always hits the database.
func NewCatalogService(productRepo repository.ProductRepository, productCache *cache.ProductCache, logger *zap.Logger) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
		cache:       productCache,
		logger:      logger,
	}
}

// ListProducts returns the full catalog, cache-aside when a cache is
// configured. Cache errors degrade to a database read.
func (s *catalogServiceImpl) ListProducts(ctx context.Context) ([]models.Product, *ServiceError) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("Product cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch products"}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, products); err != nil {
			s.logger.Warn("Product cache write failed", zap.Error(err))
		}
	}

	return products, nil
}

// Seed replaces the catalog with sample products. Dev only.
func (s *catalogServiceImpl) Seed(ctx context.Context) (int, *ServiceError) {
	count, err := s.productRepo.ReplaceAll(ctx, sampleProducts())
	if err != nil {
		s.logger.Error("Catalog seed failed", zap.Error(err))
		return 0, &ServiceError{StatusCode: 500, Message: "Failed to seed products"}
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("Product cache invalidation failed", zap.Error(err))
		}
	}

	s.logger.Info("Catalog seeded", zap.Int("count", count))
	return count, nil
}

func sampleProducts() []models.Product {
	return []models.Product{
		{
			Title:      "BlackBerry shirt",
			PricePaise: 7999,
			SKU:        "MOU-001",
			Stock:      50,
			Img:        "https://as1.ftcdn.net/jpg/14/94/47/06/1000_F_1494470662_eP5koeBDg8nVWxTZBNjLtU774tLwOQKt.jpg",
		},
		{
			Title:      "YourName shirt",
			PricePaise: 3499,
			SKU:        "KEY-001",
			Stock:      25,
			Img:        "https://as1.ftcdn.net/v2/jpg/04/16/04/24/1000_F_416042466_BX8Ul2bPoxKg6mT7BIeQWZJ7JhnUd89f.jpg",
		},
		{
			Title:      "Ladies shirt",
			PricePaise: 1999,
			SKU:        "CHA-065",
			Stock:      40,
			Img:        "https://as2.ftcdn.net/v2/jpg/15/23/63/11/1000_F_1523631107_fQ2tQd1Umm8zmSO5dcMuVNgMPXUnsWxb.jpg",
		},
	}
}
