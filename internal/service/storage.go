package service

import (
	"context"
	"errors"
	"strings"

	"shoemart/internal/model"
	"shoemart/internal/utils"
)

// ErrStorageOffline is returned by OfflineStorage for every query
var ErrStorageOffline = errors.New("storage is offline")

// Storage is the product and order data the dispatcher answers from.
// FetchProductByID returns (nil, nil) when the product does not exist.
type Storage interface {
	FetchAllProducts(ctx context.Context) ([]model.Product, error)
	FetchProductsByCategory(ctx context.Context, category string) ([]model.Product, error)
	SearchProductsByText(ctx context.Context, term string) ([]model.Product, error)
	FetchProductsByPriceRange(ctx context.Context, min, max float64) ([]model.Product, error)
	FetchTopSellingProducts(ctx context.Context, limit int) ([]model.PopularProduct, error)
	FetchSalesStatistics(ctx context.Context) ([]model.CategorySales, error)
	FetchProductByID(ctx context.Context, id int64) (*model.Product, error)
	FetchSimilarProducts(ctx context.Context, id int64, limit int) ([]model.Product, error)
	IsAvailable(ctx context.Context) bool
}

// OfflineStorage stands in when no database could be reached.
// It is never available, so the dispatcher answers from the lexicon catalog.
type OfflineStorage struct{}

// NewOfflineStorage creates a storage that is always unavailable
func NewOfflineStorage() *OfflineStorage {
	return &OfflineStorage{}
}

func (OfflineStorage) FetchAllProducts(context.Context) ([]model.Product, error) {
	return nil, ErrStorageOffline
}

func (OfflineStorage) FetchProductsByCategory(context.Context, string) ([]model.Product, error) {
	return nil, ErrStorageOffline
}

func (OfflineStorage) SearchProductsByText(context.Context, string) ([]model.Product, error) {
	return nil, ErrStorageOffline
}

func (OfflineStorage) FetchProductsByPriceRange(context.Context, float64, float64) ([]model.Product, error) {
	return nil, ErrStorageOffline
}

func (OfflineStorage) FetchTopSellingProducts(context.Context, int) ([]model.PopularProduct, error) {
	return nil, ErrStorageOffline
}

func (OfflineStorage) FetchSalesStatistics(context.Context) ([]model.CategorySales, error) {
	return nil, ErrStorageOffline
}

func (OfflineStorage) FetchProductByID(context.Context, int64) (*model.Product, error) {
	return nil, ErrStorageOffline
}

func (OfflineStorage) FetchSimilarProducts(context.Context, int64, int) ([]model.Product, error) {
	return nil, ErrStorageOffline
}

func (OfflineStorage) IsAvailable(context.Context) bool {
	return false
}

// searchCatalog returns the catalog products whose name, category or
// description contains term, case-insensitively
func searchCatalog(catalog []model.Product, term string) []model.Product {
	term = utils.Normalize(term)
	if term == "" {
		return nil
	}

	var matches []model.Product
	for _, p := range catalog {
		if strings.Contains(utils.Normalize(p.Name), term) ||
			strings.Contains(utils.Normalize(p.Category), term) ||
			strings.Contains(utils.Normalize(p.Description), term) {
			matches = append(matches, p)
		}
	}
	return matches
}
