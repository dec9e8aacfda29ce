package handlers

import (
	"fmt"
	"html/template"
	"strconv"

	"github.com/adyen/productpage/internal/interaction"
	"github.com/adyen/productpage/internal/media"
	"github.com/adyen/productpage/internal/models"
)

// Add-to-cart button labels
const (
	LabelAdding     = "Adding..."
	LabelAddToCart  = "Add to cart"
	LabelOutOfStock = "Out of stock"
)

// ColorView is one color swatch
type ColorView struct {
	Name      string
	Class     string
	RingClass string
	Selected  bool
}

// SizeView is one size tile
type SizeView struct {
	Name     string
	InStock  bool
	Selected bool
}

// ImageView is one gallery image
type ImageView struct {
	ID       int
	Name     string
	Alt      string
	Selected bool
	ThumbURL string
	FullURL  string
}

// ReviewView is one rendered review
type ReviewView struct {
	models.Review
	Stars []bool
}

// PageView is everything the product template renders. It is derived from the
// catalog entry and an interaction snapshot and holds no state of its own.
type PageView struct {
	PageID   string
	Revision uint64

	Name        string
	Price       string
	Description string
	Rating      float64
	Stars       []bool
	ReviewCount int
	Details     []string
	Reviews     []ReviewView

	Colors        []ColorView
	SelectedColor string
	Sizes         []SizeView
	SelectedSize  string
	Images        []ImageView
	MainImage     ImageView

	ZoomActive bool
	ZoomStyle  template.CSS

	Quantity     int
	CanDecrement bool
	CanIncrement bool

	DescriptionExpanded bool
	ShippingExpanded    bool
	ReviewsExpanded     bool

	Submitting        bool
	Succeeded         bool
	AddToCartDisabled bool
	AddToCartLabel    string
}

// NewPageView maps a snapshot to its presentation
func NewPageView(pageID string, product models.Product, s interaction.State) PageView {
	v := PageView{
		PageID:      pageID,
		Revision:    s.Revision,
		Name:        product.Name,
		Price:       product.FormattedPrice(),
		Description: product.Description,
		Rating:      product.Rating,
		Stars:       models.FilledStars(product.Rating),
		ReviewCount: product.ReviewCount,
		Details:     product.Details,

		SelectedColor: s.SelectedColor.Name,
		SelectedSize:  s.SelectedSize.Name,

		ZoomActive: s.ZoomActive,

		Quantity:     s.Quantity,
		CanDecrement: s.CanDecrement(),
		CanIncrement: s.CanIncrement(),

		DescriptionExpanded: s.IsExpanded(models.SectionDescription),
		ShippingExpanded:    s.IsExpanded(models.SectionShipping),
		ReviewsExpanded:     s.IsExpanded(models.SectionReviews),

		Submitting:        s.CartRequest.IsSubmitting(),
		Succeeded:         s.CartRequest.IsSucceeded(),
		AddToCartDisabled: !s.CanAddToCart(),
	}

	for _, c := range product.Colors {
		selected := c.Name == s.SelectedColor.Name
		ring := "ring-transparent"
		if selected {
			ring = c.SelectedClass
		}
		v.Colors = append(v.Colors, ColorView{Name: c.Name, Class: c.Class, RingClass: ring, Selected: selected})
	}

	for _, size := range product.Sizes {
		v.Sizes = append(v.Sizes, SizeView{
			Name:     size.Name,
			InStock:  size.InStock,
			Selected: size.Name == s.SelectedSize.Name,
		})
	}

	for _, img := range product.Images {
		iv := imageView(img, img.ID == s.SelectedImage.ID)
		v.Images = append(v.Images, iv)
		if iv.Selected {
			v.MainImage = iv
		}
	}

	for _, r := range product.DisplayReviews() {
		v.Reviews = append(v.Reviews, ReviewView{Review: r, Stars: models.FilledStars(float64(r.Rating))})
	}

	switch {
	case v.Submitting:
		v.AddToCartLabel = LabelAdding
	case s.SelectedSize.InStock:
		v.AddToCartLabel = LabelAddToCart
	default:
		v.AddToCartLabel = LabelOutOfStock
	}

	v.ZoomStyle = template.CSS(fmt.Sprintf(
		"background-image: url(%q); background-position: %s%% %s%%;",
		v.MainImage.FullURL, percent(s.ZoomPosition.X), percent(s.ZoomPosition.Y),
	))

	return v
}

func imageView(img models.ProductImage, selected bool) ImageView {
	base := "/media/" + strconv.Itoa(img.ID)
	return ImageView{
		ID:       img.ID,
		Name:     img.Name,
		Alt:      img.Alt,
		Selected: selected,
		ThumbURL: base + "?variant=" + string(media.VariantThumb),
		FullURL:  base + "?variant=" + string(media.VariantFull),
	}
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
