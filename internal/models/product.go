package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxRating is the top of the star scale used for products and reviews
const MaxRating = 5

// ColorOption is a selectable product color
type ColorOption struct {
	Name          string `json:"name" yaml:"name"`
	Class         string `json:"class" yaml:"class"`
	SelectedClass string `json:"selectedClass" yaml:"selectedClass"`
}

// SizeOption is a selectable product size
type SizeOption struct {
	Name    string `json:"name" yaml:"name"`
	InStock bool   `json:"inStock" yaml:"inStock"`
}

// ProductImage is one entry of the product gallery
type ProductImage struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Src  string `json:"src" yaml:"src"`
	Alt  string `json:"alt" yaml:"alt"`
}

// Review is a customer review shown in the reviews section
type Review struct {
	Rating  int    `json:"rating" yaml:"rating"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	Author  string `json:"author" yaml:"author"`
	Date    string `json:"date" yaml:"date"`
}

// Product is the immutable catalog entry a product page is built from
type Product struct {
	Slug        string          `json:"slug" yaml:"slug"`
	Name        string          `json:"name" yaml:"name"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	Currency    string          `json:"currency" yaml:"currency"`
	Description string          `json:"description" yaml:"description"`
	Rating      float64         `json:"rating" yaml:"rating"`
	ReviewCount int             `json:"reviewCount" yaml:"reviewCount"`
	Colors      []ColorOption   `json:"colors" yaml:"colors"`
	Sizes       []SizeOption    `json:"sizes" yaml:"sizes"`
	Images      []ProductImage  `json:"images" yaml:"images"`
	Details     []string        `json:"details" yaml:"details"`
	Reviews     []Review        `json:"reviews,omitempty" yaml:"reviews"`
}

// Catalog validation errors
var (
	ErrInvalidProductName = errors.New("product name cannot be empty")
	ErrInvalidPrice       = errors.New("product price cannot be negative")
	ErrInvalidCurrency    = errors.New("currency code must be 3 characters")
	ErrInvalidRating      = errors.New("rating must be between 0 and 5")
	ErrInvalidReviewCount = errors.New("review count cannot be negative")
	ErrNoColors           = errors.New("product must offer at least one color")
	ErrNoSizes            = errors.New("product must offer at least one size")
	ErrNoImages           = errors.New("product must have at least one image")
	ErrDuplicateColor     = errors.New("duplicate color name")
	ErrDuplicateSize      = errors.New("duplicate size name")
	ErrDuplicateImage     = errors.New("duplicate image id")
	ErrInvalidReview      = errors.New("review rating must be between 0 and 5")
)

// DefaultCurrency is used when a catalog entry does not name one
const DefaultCurrency = "USD"

// placeholderReview is shown when a catalog entry carries no reviews
var placeholderReview = Review{
	Rating:  5,
	Title:   "Most comfortable shoes ever!",
	Content: "I've worn these shoes every day for a month and they're still as comfortable as the first day.",
	Author:  "Sarah J.",
	Date:    "August 12, 2023",
}

// Validate checks the catalog entry invariants
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProductName
	}
	if p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if p.Currency != "" && len(p.Currency) != 3 {
		return ErrInvalidCurrency
	}
	if p.Rating < 0 || p.Rating > MaxRating {
		return ErrInvalidRating
	}
	if p.ReviewCount < 0 {
		return ErrInvalidReviewCount
	}
	if len(p.Colors) == 0 {
		return ErrNoColors
	}
	if len(p.Sizes) == 0 {
		return ErrNoSizes
	}
	if len(p.Images) == 0 {
		return ErrNoImages
	}

	colors := make(map[string]struct{}, len(p.Colors))
	for _, c := range p.Colors {
		if _, dup := colors[c.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateColor, c.Name)
		}
		colors[c.Name] = struct{}{}
	}

	sizes := make(map[string]struct{}, len(p.Sizes))
	for _, s := range p.Sizes {
		if _, dup := sizes[s.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateSize, s.Name)
		}
		sizes[s.Name] = struct{}{}
	}

	images := make(map[int]struct{}, len(p.Images))
	for _, img := range p.Images {
		if _, dup := images[img.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateImage, img.ID)
		}
		images[img.ID] = struct{}{}
	}

	for i, r := range p.Reviews {
		if r.Rating < 0 || r.Rating > MaxRating {
			return fmt.Errorf("%w: review %d has rating %d", ErrInvalidReview, i, r.Rating)
		}
	}

	return nil
}

// ColorByName finds a color option by its unique name
func (p *Product) ColorByName(name string) (ColorOption, bool) {
	for _, c := range p.Colors {
		if c.Name == name {
			return c, true
		}
	}
	return ColorOption{}, false
}

// SizeByName finds a size option by its unique name
func (p *Product) SizeByName(name string) (SizeOption, bool) {
	for _, s := range p.Sizes {
		if s.Name == name {
			return s, true
		}
	}
	return SizeOption{}, false
}

// ImageByID finds a gallery image by its unique id
func (p *Product) ImageByID(id int) (ProductImage, bool) {
	for _, img := range p.Images {
		if img.ID == id {
			return img, true
		}
	}
	return ProductImage{}, false
}

// CurrencyCode returns the currency, falling back to DefaultCurrency
func (p *Product) CurrencyCode() string {
	if p.Currency == "" {
		return DefaultCurrency
	}
	return strings.ToUpper(p.Currency)
}

// FormattedPrice returns the price with two decimals and a currency marker
func (p *Product) FormattedPrice() string {
	amount := p.Price.StringFixed(2)
	switch p.CurrencyCode() {
	case "USD":
		return "$" + amount
	case "EUR":
		return "€" + amount
	case "GBP":
		return "£" + amount
	default:
		return fmt.Sprintf("%s %s", amount, p.CurrencyCode())
	}
}

// DisplayReviews returns the reviews to render in the reviews section.
// An entry without reviews shows a single placeholder review.
func (p *Product) DisplayReviews() []Review {
	if len(p.Reviews) > 0 {
		return p.Reviews
	}
	return []Review{placeholderReview}
}

// FilledStars reports, for each of the five stars, whether it is filled for
// the given rating. Star i is filled when i < rating.
func FilledStars(rating float64) []bool {
	stars := make([]bool, MaxRating)
	for i := range stars {
		stars[i] = float64(i) < rating
	}
	return stars
}
