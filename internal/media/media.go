// Package media produces the gallery image variants served to the product page.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// Variant names a rendition of a gallery image
type Variant string

const (
	// VariantThumb is the square thumbnail under the main image
	VariantThumb Variant = "thumb"
	// VariantFull is the main image, also used as the zoom source
	VariantFull Variant = "full"
)

const (
	thumbSize   = 200
	fullMaxSize = 800
	jpegQuality = 80
)

// ContentType of every encoded variant
const ContentType = "image/jpeg"

var (
	ErrImageNotFound  = errors.New("image not found")
	ErrInvalidVariant = errors.New("invalid image variant")
)

// ParseVariant maps a query value to a Variant. Empty means full.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case "", VariantFull:
		return VariantFull, nil
	case VariantThumb:
		return VariantThumb, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVariant, s)
	}
}

type cacheKey struct {
	src     string
	variant Variant
}

// Service renders variants of images stored in a directory and keeps the
// encoded bytes in memory
type Service struct {
	dir    string
	logger *zap.Logger

	mu    sync.Mutex
	cache map[cacheKey][]byte
}

// NewService creates a media service reading source images from dir
func NewService(dir string, logger *zap.Logger) *Service {
	return &Service{
		dir:    dir,
		logger: logger,
		cache:  make(map[cacheKey][]byte),
	}
}

// Render returns the JPEG bytes of src in the requested variant
func (s *Service) Render(src string, variant Variant) ([]byte, error) {
	key := cacheKey{src: src, variant: variant}

	s.mu.Lock()
	data, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return data, nil
	}

	// Catalog sources are plain file names inside dir
	img, err := imaging.Open(filepath.Join(s.dir, filepath.Base(src)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, src)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", src, err)
	}

	data, err = encode(resize(img, variant))
	if err != nil {
		return nil, fmt.Errorf("failed to encode image %s: %w", src, err)
	}

	s.logger.Debug("image variant rendered",
		zap.String("src", src),
		zap.String("variant", string(variant)),
		zap.Int("bytes", len(data)),
	)

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return data, nil
}

func resize(img image.Image, variant Variant) image.Image {
	if variant == VariantThumb {
		return imaging.Fill(img, thumbSize, thumbSize, imaging.Center, imaging.Lanczos)
	}

	b := img.Bounds()
	if b.Dx() <= fullMaxSize && b.Dy() <= fullMaxSize {
		return img
	}
	return imaging.Fit(img, fullMaxSize, fullMaxSize, imaging.Lanczos)
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
