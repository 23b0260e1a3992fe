package service

import (
	_ "embed"
	"fmt"

	"shoemart/internal/model"
	"shoemart/internal/utils"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var lexiconYAML []byte

// Response pool names
const (
	PoolGreeting      = "greeting"
	PoolDatabaseError = "database_error"
	PoolNoResults     = "no_results"
	PoolSizeHelp      = "size_help"
	PoolContact       = "contact"
	PoolHelp          = "help"
	PoolDefault       = "default"
)

var requiredPools = []string{
	PoolGreeting, PoolDatabaseError, PoolNoResults,
	PoolSizeHelp, PoolContact, PoolHelp, PoolDefault,
}

// Category is a canonical product category and the surface keywords that select it
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// PriceTier is a named preset price window selected by keyword presence
type PriceTier struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Min      float64  `yaml:"min"`
	Max      float64  `yaml:"max"`
}

// Range returns the tier bounds as a PriceRange
func (t PriceTier) Range() model.PriceRange {
	return model.PriceRange{Min: t.Min, Max: t.Max}
}

type fallbackProduct struct {
	ID          int64   `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Category    string  `yaml:"category"`
}

// Lexicon is the store vocabulary: categories, filler and stop words,
// price tiers, canned replies and the offline catalog.
// It is decoded once and never mutated afterwards.
type Lexicon struct {
	Categories []Category `yaml:"categories"`
	Search     struct {
		FillerWords []string `yaml:"filler_words"`
		StopWords   []string `yaml:"stop_words"`
		DetailWords []string `yaml:"detail_words"`
	} `yaml:"search"`
	PriceTiers      []PriceTier         `yaml:"price_tiers"`
	Responses       map[string][]string `yaml:"responses"`
	FallbackCatalog []fallbackProduct   `yaml:"fallback_catalog"`

	fillerSet map[string]struct{}
	stopSet   map[string]struct{}
	detailSet map[string]struct{}
	catalog   []model.Product
}

var defaultLexicon = mustLoadLexicon(lexiconYAML)

// DefaultLexicon returns the embedded store vocabulary
func DefaultLexicon() *Lexicon {
	return defaultLexicon
}

// LoadLexicon decodes and validates a lexicon document
func LoadLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("failed to decode lexicon: %w", err)
	}
	if err := lex.validate(); err != nil {
		return nil, err
	}

	for i := range lex.Categories {
		for j, kw := range lex.Categories[i].Keywords {
			lex.Categories[i].Keywords[j] = utils.Normalize(kw)
		}
	}
	for i := range lex.PriceTiers {
		for j, kw := range lex.PriceTiers[i].Keywords {
			lex.PriceTiers[i].Keywords[j] = utils.Normalize(kw)
		}
	}
	lex.fillerSet = utils.ToSet(lex.Search.FillerWords)
	lex.stopSet = utils.ToSet(lex.Search.StopWords)
	lex.detailSet = utils.ToSet(lex.Search.DetailWords)

	lex.catalog = make([]model.Product, 0, len(lex.FallbackCatalog))
	for _, p := range lex.FallbackCatalog {
		lex.catalog = append(lex.catalog, model.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Category:    p.Category,
		})
	}

	return &lex, nil
}

func mustLoadLexicon(data []byte) *Lexicon {
	lex, err := LoadLexicon(data)
	if err != nil {
		panic(err)
	}
	return lex
}

func (l *Lexicon) validate() error {
	if len(l.Categories) == 0 {
		return fmt.Errorf("lexicon has no categories")
	}
	for _, c := range l.Categories {
		if c.Name == "" {
			return fmt.Errorf("lexicon category without a name")
		}
		if len(c.Keywords) == 0 {
			return fmt.Errorf("category %q has no keywords", c.Name)
		}
	}
	for _, t := range l.PriceTiers {
		if len(t.Keywords) == 0 {
			return fmt.Errorf("price tier %q has no keywords", t.Name)
		}
		if t.Min < 0 || t.Min > t.Max {
			return fmt.Errorf("price tier %q has invalid bounds [%v, %v]", t.Name, t.Min, t.Max)
		}
	}
	for _, name := range requiredPools {
		if len(l.Responses[name]) == 0 {
			return fmt.Errorf("response pool %q is empty", name)
		}
	}
	return nil
}

// Pool returns the canned replies registered under name
func (l *Lexicon) Pool(name string) []string {
	return l.Responses[name]
}

// Catalog returns a copy of the offline product list
func (l *Lexicon) Catalog() []model.Product {
	out := make([]model.Product, len(l.catalog))
	copy(out, l.catalog)
	return out
}
