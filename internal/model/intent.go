package model

import (
	"math"
)

// Intent is the canonical operation assigned to a user utterance
type Intent string

const (
	IntentGreeting        Intent = "greeting"
	IntentAllProducts     Intent = "all_products"
	IntentProductSearch   Intent = "product_search"
	IntentBrandSearch     Intent = "brand_search"
	IntentCategorySearch  Intent = "category_search"
	IntentPriceSearch     Intent = "price_search"
	IntentPopularProducts Intent = "popular_products"
	IntentProductDetail   Intent = "product_detail"
	IntentSizeHelp        Intent = "size_help"
	IntentContact         Intent = "contact"
	IntentHelp            Intent = "help"
	IntentStatistics      Intent = "statistics"
	IntentDefault         Intent = "default"
)

// PriceRange is an inclusive price window in VND. Max is +Inf for open-ended queries.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Unbounded reports whether the range has no upper limit
func (r PriceRange) Unbounded() bool {
	return math.IsInf(r.Max, 1)
}
