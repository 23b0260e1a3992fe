package service

import (
	"regexp"

	"shoemart/internal/model"
	"shoemart/internal/utils"
)

// IntentPatterns binds an intent to the patterns that select it
type IntentPatterns struct {
	Intent   model.Intent
	Patterns []*regexp.Regexp
}

// PatternTable is scanned top to bottom; the first intent with a matching
// pattern wins, so earlier rows take priority over later ones.
type PatternTable []IntentPatterns

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}

// defaultPatternTable is compiled once at start-up and never modified.
// ASCII words are bounded with \b. Go's \b does not treat Vietnamese letters
// as word characters ("hi" would match inside "hiểu"), so short greetings use
// explicit separators and Vietnamese patterns rely on substrings.
var defaultPatternTable = PatternTable{
	{model.IntentGreeting, patterns(
		`xin chào`, `chào`, `\bhello\b`, `(?:^|[\s,.!?])(?:hi|hey)(?:$|[\s,.!?])`,
	)},
	{model.IntentAllProducts, patterns(
		`tất.*cả.*sản.*phẩm`, `toàn.*bộ`, `xem.*hết`, `\ball\s+products\b`,
	)},
	{model.IntentProductSearch, patterns(
		`tìm.*kiếm`, `xem.*sản.*phẩm`, `có(?:\s+\S+)?\s+gì`, `sản.*phẩm.*nào`, `giày.*gì`, `\bsearch\b`,
	)},
	{model.IntentBrandSearch, patterns(
		`nike`, `adidas`, `converse`, `timberland`, `birkenstock`, `puma`, `vans`,
	)},
	{model.IntentCategorySearch, patterns(
		`sneaker`, `thể.*thao`, `tây`, `công.*sở`, `boot`, `sandal`, `dép`, `cao.*gót`, `bệt`,
		`\bformal\b`, `\bheels?\b`, `\bflats?\b`,
	)},
	{model.IntentPriceSearch, patterns(
		`giá`, `tiền`, `dưới`, `trên`, `từ.*đến`, `khoảng`, `budget`, `triệu`, `\brẻ`, `xa xỉ`,
		`\bprice`, `\bunder\b`, `\bover\b`, `\bbelow\b`, `\babove\b`, `\bmillion\b`,
		`\bcheap`, `\bpremium\b`, `\bluxury\b`, `\bexpensive\b`,
	)},
	{model.IntentPopularProducts, patterns(
		`bán.*chạy`, `phổ.*biến`, `\bhot\b`, `trend`, `nổi.*tiếng`, `best.?sell`, `popular`,
	)},
	{model.IntentProductDetail, patterns(
		`chi.*tiết`, `thông.*tin.*sản.*phẩm`, `mô.*tả`, `\bdetails?\b`,
	)},
	{model.IntentSizeHelp, patterns(
		`\bsize\b`, `cỡ`, `số\s*\d{2}\b`, `chọn.*size`,
	)},
	{model.IntentContact, patterns(
		`liên.*hệ`, `địa.*chỉ`, `hotline`, `cửa.*hàng`, `\bcontact\b`, `\baddress\b`,
	)},
	{model.IntentHelp, patterns(
		`\bhelp\b`, `giúp.*đỡ`, `hướng.*dẫn`, `có.*thể.*làm.*gì`,
	)},
	{model.IntentStatistics, patterns(
		`thống.*kê`, `báo.*cáo`, `doanh.*số`, `doanh.*thu`, `\bstats\b`, `\bstatistics\b`, `\brevenue\b`,
	)},
}

// DefaultPatternTable returns the built-in intent table
func DefaultPatternTable() PatternTable {
	return defaultPatternTable
}

// Classifier maps free text to an intent by scanning a PatternTable
type Classifier struct {
	table PatternTable
}

// NewClassifier creates a classifier over table; a nil table uses the built-in one
func NewClassifier(table PatternTable) *Classifier {
	if table == nil {
		table = defaultPatternTable
	}
	return &Classifier{table: table}
}

// Classify returns the first intent whose pattern occurs anywhere in the
// normalized text, or IntentDefault when nothing matches
func (c *Classifier) Classify(text string) model.Intent {
	text = utils.Normalize(text)

	for _, row := range c.table {
		for _, p := range row.Patterns {
			if p.MatchString(text) {
				return row.Intent
			}
		}
	}

	return model.IntentDefault
}
