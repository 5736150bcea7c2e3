package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/example/tmstore/pkg/models"
	"github.com/example/tmstore/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

const (
	productsCacheKey = "catalog:products"
	productsCacheTTL = 60 * time.Second
)

// Repository loads catalog data from MySQL, with a short-lived Redis cache
// in front of the full product listing. The cache may be nil (tests).
type Repository struct {
	db     *gorm.DB
	cache  *repository.RedisRepository
	logger *zap.Logger
}

func NewRepository(db *gorm.DB, cache *repository.RedisRepository, logger *zap.Logger) *Repository {
	return &Repository{db: db, cache: cache, logger: logger}
}

// ListProducts returns the whole catalog with categories preloaded, sorted
// by the admin-assigned order. Filtering and display sorting happen in the
// pipeline, not here.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	if r.cache != nil {
		var cached []models.Product
		if err := r.cache.GetJSON(ctx, productsCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var products []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Order("sort_order ASC, created_at ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.SetJSON(ctx, productsCacheKey, products, productsCacheTTL); err != nil {
			r.logger.Warn("Failed to cache product listing", zap.Error(err))
		}
	}
	return products, nil
}

func (r *Repository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ?", slug).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *Repository) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *Repository) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_featured = ?", true).
		Order("sort_order ASC, created_at ASC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC, created_at ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// InvalidateCache drops the cached product listing. Admin writes call this
// so the storefront never serves a stale ordering for the cache TTL.
func (r *Repository) InvalidateCache(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, productsCacheKey); err != nil {
		r.logger.Warn("Failed to invalidate product cache", zap.Error(err))
	}
}
