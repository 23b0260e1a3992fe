package service

import (
	"math"
	"regexp"
	"strconv"

	"shoemart/internal/model"
	"shoemart/internal/utils"
)

const million = 1_000_000

var (
	// \b is ASCII-only, so "tr" ends at an explicit separator ("trăm" is not a unit)
	priceUnit = `\s*(?:triệu|tr(?:$|[\s.,!?])|million|mil)`

	priceUnderRe = regexp.MustCompile(`(?:dưới|under|below)\s*(\d+)` + priceUnit)
	priceOverRe  = regexp.MustCompile(`(?:trên|over|above)\s*(\d+)` + priceUnit)
	priceRangeRe = regexp.MustCompile(`(?:từ|from|between)\s*(\d+)\s*(?:đến|tới|to|and|-)\s*(\d+)` + priceUnit)

	productIDRe  = regexp.MustCompile(`(?:#|(?:^|\s)(?:mã số|mã|sản phẩm|sp|id|product|item)\s*#?\s*)(\d+)(?:$|[\s,.!?])`)
	bareNumberRe = regexp.MustCompile(`^#?(\d+)$`)
)

// Extractor pulls structured query parameters out of free text
type Extractor struct {
	lex *Lexicon
}

// NewExtractor creates an extractor over lex; nil uses the embedded lexicon
func NewExtractor(lex *Lexicon) *Extractor {
	if lex == nil {
		lex = defaultLexicon
	}
	return &Extractor{lex: lex}
}

// ExtractPriceRange recognises "under N", "over N" and "from N to M" million
// phrases, then falls back to the preset tiers (budget, mid-range, premium,
// luxury). A clause whose number does not parse is skipped.
func (e *Extractor) ExtractPriceRange(text string) (model.PriceRange, bool) {
	text = utils.Normalize(text)

	if m := priceUnderRe.FindStringSubmatch(text); m != nil {
		if max, ok := parseMillions(m[1]); ok {
			return model.PriceRange{Min: 0, Max: max}, true
		}
	}

	if m := priceOverRe.FindStringSubmatch(text); m != nil {
		if min, ok := parseMillions(m[1]); ok {
			return model.PriceRange{Min: min, Max: math.Inf(1)}, true
		}
	}

	if m := priceRangeRe.FindStringSubmatch(text); m != nil {
		min, okMin := parseMillions(m[1])
		max, okMax := parseMillions(m[2])
		if okMin && okMax {
			if min > max {
				min, max = max, min
			}
			return model.PriceRange{Min: min, Max: max}, true
		}
	}

	for _, tier := range e.lex.PriceTiers {
		if utils.ContainsAny(text, tier.Keywords) {
			return tier.Range(), true
		}
	}

	return model.PriceRange{}, false
}

// ExtractCategory returns the first category, in declared order, with a
// keyword present in text
func (e *Extractor) ExtractCategory(text string) (Category, bool) {
	text = utils.Normalize(text)

	for _, category := range e.lex.Categories {
		if utils.ContainsAny(text, category.Keywords) {
			return category, true
		}
	}

	return Category{}, false
}

// ExtractSearchTerm drops filler and stop words token by token and returns
// what is left. An empty result means there is nothing worth searching for.
func (e *Extractor) ExtractSearchTerm(text string) string {
	return utils.RemoveTokens(text, e.lex.fillerSet, e.lex.stopSet)
}

// ExtractDetailTerm is ExtractSearchTerm that also drops the words of a
// "product details" request, leaving the product name
func (e *Extractor) ExtractDetailTerm(text string) string {
	return utils.RemoveTokens(text, e.lex.fillerSet, e.lex.stopSet, e.lex.detailSet)
}

// ExtractProductID returns a product id written after "#", "mã" or
// "sản phẩm" (e.g. the 12 in "chi tiết sản phẩm #12"), or a number that is
// the whole request once the detail words are gone ("chi tiết 4").
// Numbers inside a product name such as "Air Max 270" are not ids.
func (e *Extractor) ExtractProductID(text string) (int64, bool) {
	if m := productIDRe.FindStringSubmatch(utils.Normalize(text)); m != nil {
		return parseProductID(m[1])
	}
	if m := bareNumberRe.FindStringSubmatch(e.ExtractDetailTerm(text)); m != nil {
		return parseProductID(m[1])
	}
	return 0, false
}

func parseProductID(digits string) (int64, bool) {
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseMillions(digits string) (float64, bool) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return float64(n) * million, true
}
