package interaction

import (
	"errors"

	"github.com/adyen/productpage/internal/models"
)

// Selection errors. The page only offers catalog members, so these indicate a
// stale or forged request; the state is left unchanged.
var (
	ErrUnknownColor = errors.New("color is not offered for this product")
	ErrUnknownSize  = errors.New("size is not offered for this product")
	ErrUnknownImage = errors.New("image is not part of the gallery")

	// ErrInvalidSection is returned by ToggleSection for anything but
	// description, shipping or reviews.
	ErrInvalidSection = models.ErrInvalidSection
)
