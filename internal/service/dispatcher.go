package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"shoemart/internal/metrics"
	"shoemart/internal/model"
)

// Pick returns a random entry of pool, or "" for an empty pool
func Pick(pool []string, rng *rand.Rand) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.Intn(len(pool))]
}

// DispatcherOptions tunes listing sizes and storage calls.
// Zero values fall back to the defaults.
type DispatcherOptions struct {
	BotName          string
	AllDisplayLimit  int
	ListDisplayLimit int
	PopularLimit     int
	SimilarLimit     int
	QueryTimeout     time.Duration
	Lexicon          *Lexicon
	Rand             *rand.Rand
}

// Dispatcher turns an intent and the raw message into a reply.
// It keeps no conversation state; the rng is its only mutable field,
// so one Dispatcher must not be shared between goroutines.
type Dispatcher struct {
	storage Storage
	extract *Extractor
	lex     *Lexicon
	rng     *rand.Rand

	botName      string
	allLimit     int
	listLimit    int
	popularLimit int
	similarLimit int
	queryTimeout time.Duration
}

// NewDispatcher creates a dispatcher answering from storage
func NewDispatcher(storage Storage, opts DispatcherOptions) *Dispatcher {
	if storage == nil {
		storage = NewOfflineStorage()
	}
	if opts.Lexicon == nil {
		opts.Lexicon = defaultLexicon
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Dispatcher{
		storage:      storage,
		extract:      NewExtractor(opts.Lexicon),
		lex:          opts.Lexicon,
		rng:          opts.Rand,
		botName:      orDefault(opts.BotName, "ShoeMart AI Assistant"),
		allLimit:     positiveOr(opts.AllDisplayLimit, 15),
		listLimit:    positiveOr(opts.ListDisplayLimit, 10),
		popularLimit: positiveOr(opts.PopularLimit, 10),
		similarLimit: positiveOr(opts.SimilarLimit, 3),
		queryTimeout: opts.QueryTimeout,
	}
}

// Dispatch answers text according to intent. Storage failures never escape:
// they are logged and turned into a canned message.
func (d *Dispatcher) Dispatch(ctx context.Context, intent model.Intent, text string) string {
	switch intent {
	case model.IntentGreeting:
		return d.pick(PoolGreeting)
	case model.IntentAllProducts:
		return d.allProducts(ctx)
	case model.IntentProductSearch, model.IntentBrandSearch:
		return d.searchProducts(ctx, d.extract.ExtractSearchTerm(text))
	case model.IntentCategorySearch:
		if category, ok := d.extract.ExtractCategory(text); ok {
			return d.productsByCategory(ctx, category.Name)
		}
		return d.searchProducts(ctx, d.extract.ExtractSearchTerm(text))
	case model.IntentPriceSearch:
		return d.productsByPrice(ctx, text)
	case model.IntentPopularProducts:
		return d.popularProducts(ctx)
	case model.IntentStatistics:
		return d.salesStatistics(ctx)
	case model.IntentProductDetail:
		return d.productDetail(ctx, text)
	case model.IntentSizeHelp:
		return d.pick(PoolSizeHelp)
	case model.IntentContact:
		return d.pick(PoolContact)
	case model.IntentHelp:
		return d.pick(PoolHelp)
	default:
		return d.pick(PoolDefault)
	}
}

func (d *Dispatcher) pick(pool string) string {
	return strings.ReplaceAll(Pick(d.lex.Pool(pool), d.rng), "{name}", d.botName)
}

func (d *Dispatcher) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.queryTimeout > 0 {
		return context.WithTimeout(ctx, d.queryTimeout)
	}
	return context.WithCancel(ctx)
}

// offline reports whether storage is unreachable and counts the reply if so
func (d *Dispatcher) offline(ctx context.Context) bool {
	ctx, cancel := d.queryContext(ctx)
	defer cancel()

	if d.storage.IsAvailable(ctx) {
		return false
	}
	metrics.RecordOfflineResponse()
	return true
}

func (d *Dispatcher) queryFailed(operation string, err error) string {
	log.Printf("❌ %s failed: %v", operation, err)
	metrics.RecordStorageError(operation)
	return MsgQueryFailed
}

func (d *Dispatcher) allProducts(ctx context.Context) string {
	if d.offline(ctx) {
		return d.pick(PoolDatabaseError)
	}

	ctx, cancel := d.queryContext(ctx)
	defer cancel()

	products, err := d.storage.FetchAllProducts(ctx)
	if err != nil {
		return d.queryFailed("fetch_all_products", err)
	}
	if len(products) == 0 {
		return d.pick(PoolNoResults)
	}
	return formatProductList(products, "TẤT CẢ SẢN PHẨM SHOEMART:", d.allLimit)
}

func (d *Dispatcher) searchProducts(ctx context.Context, term string) string {
	if term == "" {
		return MsgSearchPrompt
	}

	if d.offline(ctx) {
		products := searchCatalog(d.lex.Catalog(), term)
		if len(products) == 0 {
			return formatOfflineNoResults(term)
		}
		return formatOfflineResults(term, products)
	}

	ctx, cancel := d.queryContext(ctx)
	defer cancel()

	products, err := d.storage.SearchProductsByText(ctx, term)
	if err != nil {
		return d.queryFailed("search_products", err)
	}
	if len(products) == 0 {
		return formatSearchNoResults(term)
	}
	return formatProductList(products, fmt.Sprintf("Kết quả tìm kiếm '%s':", term), d.listLimit)
}

func (d *Dispatcher) productsByCategory(ctx context.Context, category string) string {
	if d.offline(ctx) {
		return d.pick(PoolDatabaseError)
	}

	ctx, cancel := d.queryContext(ctx)
	defer cancel()

	products, err := d.storage.FetchProductsByCategory(ctx, category)
	if err != nil {
		return d.queryFailed("fetch_products_by_category", err)
	}
	if len(products) == 0 {
		return d.pick(PoolNoResults)
	}
	return formatProductList(products, fmt.Sprintf("Sản phẩm %s:", strings.ToUpper(category)), d.listLimit)
}

func (d *Dispatcher) productsByPrice(ctx context.Context, text string) string {
	if d.offline(ctx) {
		return d.pick(PoolDatabaseError)
	}

	priceRange, ok := d.extract.ExtractPriceRange(text)
	if !ok {
		return MsgPricePrompt
	}

	ctx, cancel := d.queryContext(ctx)
	defer cancel()

	products, err := d.storage.FetchProductsByPriceRange(ctx, priceRange.Min, priceRange.Max)
	if err != nil {
		return d.queryFailed("fetch_products_by_price_range", err)
	}
	if len(products) == 0 {
		return d.pick(PoolNoResults)
	}
	return formatProductList(products, formatPriceTitle(priceRange), d.listLimit)
}

func (d *Dispatcher) popularProducts(ctx context.Context) string {
	if d.offline(ctx) {
		return d.pick(PoolDatabaseError)
	}

	ctx, cancel := d.queryContext(ctx)
	defer cancel()

	products, err := d.storage.FetchTopSellingProducts(ctx, d.popularLimit)
	if err != nil {
		return d.queryFailed("fetch_top_selling_products", err)
	}
	if len(products) == 0 {
		return MsgNoPopularData
	}
	return formatPopular(products)
}

func (d *Dispatcher) salesStatistics(ctx context.Context) string {
	if d.offline(ctx) {
		return d.pick(PoolDatabaseError)
	}

	ctx, cancel := d.queryContext(ctx)
	defer cancel()

	stats, err := d.storage.FetchSalesStatistics(ctx)
	if err != nil {
		return d.queryFailed("fetch_sales_statistics", err)
	}
	if len(stats) == 0 {
		return MsgNoSalesData
	}
	return formatStatistics(stats)
}

// productDetail looks a product up by the number in text. Without a number
// the remaining words are treated as a product search.
func (d *Dispatcher) productDetail(ctx context.Context, text string) string {
	id, ok := d.extract.ExtractProductID(text)
	if !ok {
		term := d.extract.ExtractDetailTerm(text)
		if term == "" {
			return MsgDetailPrompt
		}
		return d.searchProducts(ctx, term)
	}

	if d.offline(ctx) {
		return d.pick(PoolDatabaseError)
	}

	ctx, cancel := d.queryContext(ctx)
	defer cancel()

	product, err := d.storage.FetchProductByID(ctx, id)
	if err != nil {
		return d.queryFailed("fetch_product_by_id", err)
	}
	if product == nil {
		return formatProductNotFound(id)
	}

	similar, err := d.storage.FetchSimilarProducts(ctx, id, d.similarLimit)
	if err != nil {
		// Embeddings are optional
		log.Printf("⚠️  Similar products for #%d unavailable: %v", id, err)
		metrics.RecordStorageError("fetch_similar_products")
		similar = nil
	}

	return formatProductDetail(product, similar)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
