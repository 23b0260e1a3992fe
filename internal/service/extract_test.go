package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoemart/internal/model"
)

func TestExtractor_ExtractPriceRange(t *testing.T) {
	extractor := NewExtractor(nil)
	inf := math.Inf(1)

	tests := []struct {
		name   string
		input  string
		want   model.PriceRange
		wantOK bool
	}{
		{name: "under vietnamese", input: "giày dưới 2 triệu", want: model.PriceRange{Min: 0, Max: 2_000_000}, wantOK: true},
		{name: "under english", input: "under 2 million", want: model.PriceRange{Min: 0, Max: 2_000_000}, wantOK: true},
		{name: "under short unit", input: "dưới 3tr", want: model.PriceRange{Min: 0, Max: 3_000_000}, wantOK: true},
		{name: "short unit before punctuation", input: "dưới 3tr, màu đen", want: model.PriceRange{Min: 0, Max: 3_000_000}, wantOK: true},
		{name: "hundreds of thousands are not millions", input: "dưới 2 trăm nghìn", wantOK: false},
		{name: "over vietnamese", input: "trên 5 triệu", want: model.PriceRange{Min: 5_000_000, Max: inf}, wantOK: true},
		{name: "over english", input: "over 5 million", want: model.PriceRange{Min: 5_000_000, Max: inf}, wantOK: true},
		{name: "between vietnamese", input: "từ 1 đến 3 triệu", want: model.PriceRange{Min: 1_000_000, Max: 3_000_000}, wantOK: true},
		{name: "between english", input: "from 1 to 3 million", want: model.PriceRange{Min: 1_000_000, Max: 3_000_000}, wantOK: true},
		{name: "reversed bounds swapped", input: "from 3 to 1 million", want: model.PriceRange{Min: 1_000_000, Max: 3_000_000}, wantOK: true},
		{name: "budget tier", input: "giày rẻ", want: model.PriceRange{Min: 0, Max: 1_000_000}, wantOK: true},
		{name: "cheap tier", input: "cheap shoes", want: model.PriceRange{Min: 0, Max: 1_000_000}, wantOK: true},
		{name: "premium tier", input: "giày cao cấp", want: model.PriceRange{Min: 3_000_000, Max: 5_000_000}, wantOK: true},
		{name: "luxury tier", input: "hàng xa xỉ", want: model.PriceRange{Min: 5_000_000, Max: inf}, wantOK: true},
		{name: "overflow skipped", input: "dưới 99999999999999999999 triệu", wantOK: false},
		{name: "no price", input: "hello", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractor.ExtractPriceRange(tt.input)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.want.Min, got.Min)
			if math.IsInf(tt.want.Max, 1) {
				assert.True(t, got.Unbounded())
			} else {
				assert.Equal(t, tt.want.Max, got.Max)
			}
		})
	}
}

func TestExtractor_ExtractCategory(t *testing.T) {
	extractor := NewExtractor(nil)

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "sneaker", input: "Giày Sneaker trắng", want: "sneakers", wantOK: true},
		{name: "sport", input: "giày thể thao", want: "sneakers", wantOK: true},
		{name: "formal", input: "giày tây", want: "formal", wantOK: true},
		{name: "boots", input: "boots da", want: "boots", wantOK: true},
		{name: "sandals", input: "dép lào", want: "sandals", wantOK: true},
		{name: "heels", input: "giày cao gót", want: "heels", wantOK: true},
		{name: "flats", input: "giày bệt", want: "flats", wantOK: true},
		{name: "none", input: "giày", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractor.ExtractCategory(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestExtractor_ExtractSearchTerm(t *testing.T) {
	extractor := NewExtractor(nil)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "english filler", input: "shoes nike for me", want: "nike"},
		{name: "vietnamese filler", input: "tìm giày Adidas cho tôi", want: "adidas"},
		{name: "punctuation", input: "Nike?", want: "nike"},
		{name: "multi word", input: "giày Nike Air Max", want: "nike air max"},
		{name: "nothing left", input: "giày có gì", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractor.ExtractSearchTerm(tt.input))
		})
	}
}

func TestExtractor_ExtractDetailTerm(t *testing.T) {
	extractor := NewExtractor(nil)

	assert.Equal(t, "nike air", extractor.ExtractDetailTerm("chi tiết sản phẩm Nike Air"))
	assert.Equal(t, "", extractor.ExtractDetailTerm("chi tiết"))
	// search terms keep the detail words
	assert.Equal(t, "chi tiết", extractor.ExtractSearchTerm("chi tiết"))
}

func TestExtractor_ExtractProductID(t *testing.T) {
	extractor := NewExtractor(nil)

	tests := []struct {
		name   string
		input  string
		want   int64
		wantOK bool
	}{
		{name: "trailing number", input: "chi tiết sản phẩm 12", want: 12, wantOK: true},
		{name: "hash prefix", input: "#7", want: 7, wantOK: true},
		{name: "followed by text", input: "sản phẩm #3 giá?", want: 3, wantOK: true},
		{name: "embedded in word", input: "abc12", wantOK: false},
		{name: "code prefix", input: "cho xem mã 15", want: 15, wantOK: true},
		{name: "bare number after detail words", input: "chi tiết 4", want: 4, wantOK: true},
		{name: "model number in name", input: "chi tiết Nike Air Max 270", wantOK: false},
		{name: "version in name", input: "thông tin Adidas Ultraboost 22", wantOK: false},
		{name: "zero", input: "sản phẩm 0", wantOK: false},
		{name: "no number", input: "chi tiết", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractor.ExtractProductID(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
