package config

import "fmt"

// Catalog sources
const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

// CatalogConfig selects where the product catalog entry is provisioned from
type CatalogConfig struct {
	Source string `env:"CATALOG_SOURCE" envDefault:"file"`
	Dir    string `env:"CATALOG_DIR" envDefault:"catalog"`
	Slug   string `env:"PRODUCT_SLUG" envDefault:"premium-comfort-sneakers"`
}

// LoadCatalogConfig loads catalog configuration from environment variables
func LoadCatalogConfig(environ map[string]string) (CatalogConfig, error) {
	cfg, err := parse[CatalogConfig](environ)
	if err != nil {
		return cfg, err
	}

	switch cfg.Source {
	case CatalogSourceFile, CatalogSourcePostgres:
	default:
		return cfg, fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", CatalogSourceFile, CatalogSourcePostgres, cfg.Source)
	}
	if cfg.Slug == "" {
		return cfg, fmt.Errorf("PRODUCT_SLUG is required")
	}

	return cfg, nil
}
