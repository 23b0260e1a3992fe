package service

import (
	"context"
	"sync"

	"shoemart/internal/model"
)

type priceCall struct {
	min, max float64
}

// fakeStorage is an in-memory Storage that records what it was asked
type fakeStorage struct {
	mutex sync.Mutex

	available  bool
	err        error
	panicOnUse bool

	products   []model.Product
	popular    []model.PopularProduct
	stats      []model.CategorySales
	byID       map[int64]*model.Product
	similar    []model.Product
	similarErr error

	searchTerms []string
	categories  []string
	priceCalls  []priceCall
	idCalls     []int64
}

func (f *fakeStorage) FetchAllProducts(context.Context) ([]model.Product, error) {
	return f.products, f.err
}

func (f *fakeStorage) FetchProductsByCategory(_ context.Context, category string) ([]model.Product, error) {
	f.mutex.Lock()
	f.categories = append(f.categories, category)
	f.mutex.Unlock()
	return f.products, f.err
}

func (f *fakeStorage) SearchProductsByText(_ context.Context, term string) ([]model.Product, error) {
	f.mutex.Lock()
	f.searchTerms = append(f.searchTerms, term)
	f.mutex.Unlock()
	return f.products, f.err
}

func (f *fakeStorage) FetchProductsByPriceRange(_ context.Context, min, max float64) ([]model.Product, error) {
	f.mutex.Lock()
	f.priceCalls = append(f.priceCalls, priceCall{min: min, max: max})
	f.mutex.Unlock()
	return f.products, f.err
}

func (f *fakeStorage) FetchTopSellingProducts(context.Context, int) ([]model.PopularProduct, error) {
	return f.popular, f.err
}

func (f *fakeStorage) FetchSalesStatistics(context.Context) ([]model.CategorySales, error) {
	return f.stats, f.err
}

func (f *fakeStorage) FetchProductByID(_ context.Context, id int64) (*model.Product, error) {
	f.mutex.Lock()
	f.idCalls = append(f.idCalls, id)
	f.mutex.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func (f *fakeStorage) FetchSimilarProducts(context.Context, int64, int) ([]model.Product, error) {
	return f.similar, f.similarErr
}

func (f *fakeStorage) IsAvailable(context.Context) bool {
	if f.panicOnUse {
		panic("storage exploded")
	}
	return f.available
}

func sampleProducts(n int) []model.Product {
	products := make([]model.Product, n)
	for i := range products {
		products[i] = model.Product{
			ID:          int64(i + 1),
			Name:        "Sample Shoe",
			Description: "Comfortable everyday shoe",
			Price:       1_500_000,
			Category:    "Sneakers",
		}
	}
	return products
}
