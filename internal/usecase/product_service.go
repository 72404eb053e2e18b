package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/safescan/backend/internal/domain"
	"github.com/safescan/backend/internal/infrastructure/openfoodfacts"
)

// WatchListSource supplies a user's watch lists for matching
type WatchListSource interface {
	GetWatchLists(ctx context.Context, userID uint) ([]domain.WatchList, error)
}

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	CacheTTL time.Duration
}

// ProductService handles product lookup, moderation and unwanted-ingredient reports
type ProductService struct {
	products domain.ProductRepository
	lists    WatchListSource
	cache    domain.CacheRepository
	foodAPI  domain.FoodDataClient
	cacheTTL time.Duration
}

// NewProductService creates a new product service with dependencies
func NewProductService(
	products domain.ProductRepository,
	lists WatchListSource,
	cache domain.CacheRepository,
	foodAPI domain.FoodDataClient,
	config ProductServiceConfig,
) *ProductService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &ProductService{
		products: products,
		lists:    lists,
		cache:    cache,
		foodAPI:  foodAPI,
		cacheTTL: cacheTTL,
	}
}

// List returns local products, optionally filtered by a case-insensitive name fragment
func (s *ProductService) List(ctx context.Context, nameFilter string) ([]domain.Product, error) {
	products, err := s.products.List(ctx, strings.TrimSpace(nameFilter))
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// Get returns a stored product with the user's unwanted ingredients.
// userID 0 means an anonymous caller and yields no matches.
func (s *ProductService) Get(ctx context.Context, id, userID uint) (*domain.ProductReport, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.report(ctx, product, userID)
}

// LookupBarcode finds a product by barcode.
// Flow: local database -> cache -> Open Food Facts -> cache + persist -> match
func (s *ProductService) LookupBarcode(ctx context.Context, barcode string, userID uint) (*domain.ProductReport, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}

	product, err := s.products.GetByBarcode(ctx, barcode)
	if err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		product, err = s.fetchExternal(ctx, barcode)
		if err != nil {
			return nil, err
		}
	}

	return s.report(ctx, product, userID)
}

// CheckIngredients matches free ingredient text against the user's lists
func (s *ProductService) CheckIngredients(ctx context.Context, userID uint, ingredients string) ([]domain.Match, error) {
	if strings.TrimSpace(ingredients) == "" {
		return nil, fmt.Errorf("%w: ingredients are required", domain.ErrInvalidRequest)
	}

	lists, err := s.lists.GetWatchLists(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FindMatches(ingredients, lists), nil
}

// Recommended returns approved products with no unwanted ingredients for the user, newest first
func (s *ProductService) Recommended(ctx context.Context, userID uint, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 20
	}

	lists, err := s.lists.GetWatchLists(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.products.ListByStatus(ctx, domain.StatusApproved, 0)
	if err != nil {
		return nil, err
	}

	recommended := make([]domain.Product, 0, limit)
	for _, p := range candidates {
		if len(FindMatches(p.Ingredients, lists)) > 0 {
			continue
		}
		recommended = append(recommended, p)
		if len(recommended) == limit {
			break
		}
	}
	return recommended, nil
}

// Create stores a product added by an admin
func (s *ProductService) Create(ctx context.Context, addedBy uint, input *domain.ProductInput) (*domain.Product, error) {
	if input == nil || strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Barcode) == "" {
		return nil, fmt.Errorf("%w: name and barcode are required", domain.ErrInvalidRequest)
	}

	status := input.Status
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidRequest, status)
	}

	product := &domain.Product{
		Name:             strings.TrimSpace(input.Name),
		Barcode:          strings.TrimSpace(input.Barcode),
		Photo:            input.Photo,
		Ingredients:      input.Ingredients,
		NutritionalValue: input.NutritionalValue,
		AddedBy:          addedBy,
		Status:           status,
		Source:           domain.SourceLocal,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies the non-nil fields of upd to a stored product
func (s *ProductService) Update(ctx context.Context, id uint, upd *domain.ProductUpdate) (*domain.Product, error) {
	if upd == nil {
		return nil, domain.ErrInvalidRequest
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidRequest)
		}
		product.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Barcode != nil {
		if strings.TrimSpace(*upd.Barcode) == "" {
			return nil, fmt.Errorf("%w: barcode cannot be empty", domain.ErrInvalidRequest)
		}
		product.Barcode = strings.TrimSpace(*upd.Barcode)
	}
	if upd.Photo != nil {
		product.Photo = *upd.Photo
	}
	if upd.Ingredients != nil {
		product.Ingredients = *upd.Ingredients
	}
	if upd.NutritionalValue != nil {
		product.NutritionalValue = *upd.NutritionalValue
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidRequest, *upd.Status)
		}
		product.Status = *upd.Status
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a stored product
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	return s.products.Delete(ctx, id)
}

// report attaches the user's matches. Any failure to load the lists aborts
// the call so the matcher never runs on partial data.
func (s *ProductService) report(ctx context.Context, product *domain.Product, userID uint) (*domain.ProductReport, error) {
	matches := []domain.Match{}
	if userID != 0 {
		lists, err := s.lists.GetWatchLists(ctx, userID)
		if err != nil {
			return nil, err
		}
		matches = FindMatches(product.Ingredients, lists)
	}

	return &domain.ProductReport{
		Product:             *product,
		UnwantedIngredients: matches,
	}, nil
}

// fetchExternal resolves a barcode through the cache and Open Food Facts,
// then persists the result so later lookups stay local
func (s *ProductService) fetchExternal(ctx context.Context, barcode string) (*domain.Product, error) {
	cacheKey := generateCacheKey(barcode)

	off, err := s.getFromCache(ctx, cacheKey)
	if err != nil {
		off, err = s.foodAPI.GetProduct(ctx, barcode)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) || errors.Is(err, domain.ErrFoodAPIFailure) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrFoodAPIFailure, err)
		}
		if err := s.setInCache(ctx, cacheKey, off); err != nil {
			log.Printf("[PRODUCT] Failed to cache barcode %s: %v", barcode, err)
		}
	}

	product := openfoodfacts.MapToProduct(off)
	if product.Barcode == "" {
		product.Barcode = barcode
	}

	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, domain.ErrDuplicateBarcode) {
			// stored by a concurrent lookup
			if existing, getErr := s.products.GetByBarcode(ctx, product.Barcode); getErr == nil {
				return existing, nil
			}
		}
		log.Printf("[PRODUCT] Failed to persist barcode %s: %v", barcode, err)
	}

	return product, nil
}

// generateCacheKey creates the cache key for an Open Food Facts product.
// Format: "off:product:{barcode}"
func generateCacheKey(barcode string) string {
	return "off:product:" + barcode
}

// getFromCache retrieves an Open Food Facts product from cache
func (s *ProductService) getFromCache(ctx context.Context, key string) (*domain.OFFProduct, error) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var off domain.OFFProduct
	if err := json.Unmarshal(raw, &off); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &off, nil
}

// setInCache stores an Open Food Facts product in cache
func (s *ProductService) setInCache(ctx context.Context, key string, off *domain.OFFProduct) error {
	raw, err := json.Marshal(off)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, raw, s.cacheTTL)
}
