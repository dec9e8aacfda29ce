package interaction

import "github.com/adyen/productpage/internal/models"

// Quantity bounds
const (
	MinQuantity = 1
	MaxQuantity = 10
)

// ZoomPosition is the magnified point over the main image, in percent of its bounds
type ZoomPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// State is a read-only snapshot of one page session's interaction state
type State struct {
	SelectedColor   models.ColorOption      `json:"selectedColor"`
	SelectedSize    models.SizeOption       `json:"selectedSize"`
	Quantity        int                     `json:"quantity"`
	SelectedImage   models.ProductImage     `json:"selectedImage"`
	ZoomActive      bool                    `json:"zoomActive"`
	ZoomPosition    ZoomPosition            `json:"zoomPosition"`
	ExpandedSection models.Section          `json:"expandedSection"`
	CartRequest     models.CartRequestState `json:"cartRequestState"`
	Revision        uint64                  `json:"revision"`
}

// CanAddToCart returns true if the add-to-cart control should be enabled
func (s State) CanAddToCart() bool {
	return s.SelectedSize.InStock && !s.CartRequest.IsSubmitting()
}

// CanDecrement returns true if quantity is above the floor
func (s State) CanDecrement() bool {
	return s.Quantity > MinQuantity
}

// CanIncrement returns true if quantity is below the ceiling
func (s State) CanIncrement() bool {
	return s.Quantity < MaxQuantity
}

// IsExpanded returns true if section is the open panel
func (s State) IsExpanded(section models.Section) bool {
	return s.ExpandedSection == section
}

func clampQuantity(n int) int {
	return max(MinQuantity, min(MaxQuantity, n))
}
