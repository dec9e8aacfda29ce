package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/adyen/productpage/internal/models"
)

// FileCatalogRepository reads catalog entries from YAML files named <slug>.yaml
type FileCatalogRepository struct {
	dir string
}

// NewFileCatalogRepository creates a repository rooted at dir
func NewFileCatalogRepository(dir string) *FileCatalogRepository {
	return &FileCatalogRepository{dir: dir}
}

// GetProduct loads the catalog entry for slug
func (r *FileCatalogRepository) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	if !validSlug(slug) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}

	product, err := ReadProductFile(filepath.Join(r.dir, slug+".yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, slug)
	}
	if err != nil {
		return nil, err
	}

	if product.Slug == "" {
		product.Slug = slug
	}
	return product, nil
}

// ReadProductFile decodes one YAML catalog entry
func ReadProductFile(path string) (*models.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var product models.Product
	if err := dec.Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", path, err)
	}
	return &product, nil
}
