package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/adyen/productpage/internal/models"
	"github.com/adyen/productpage/internal/repository"
)

// CatalogCommand returns the catalog command group
func CatalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Manage catalog entries",
		Subcommands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Check a YAML catalog file",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					product, err := loadCatalogFile(c)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%s (%s): %d colors, %d sizes, %d images, %s\n",
						product.Name, product.Slug, len(product.Colors), len(product.Sizes), len(product.Images), product.FormattedPrice())
					return nil
				},
			},
			{
				Name:      "import",
				Usage:     "Write a YAML catalog file into Postgres",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					product, err := loadCatalogFile(c)
					if err != nil {
						return err
					}

					logger, err := newLogger()
					if err != nil {
						return err
					}
					defer logger.Sync()

					db, err := connectDatabase(c.Context, logger)
					if err != nil {
						return err
					}
					defer db.Close()

					if err := repository.NewPostgresCatalogRepository(db).SaveProduct(c.Context, product); err != nil {
						return err
					}
					logger.Info("catalog entry imported", zap.String("slug", product.Slug))
					return nil
				},
			},
		},
	}
}

// loadCatalogFile reads and validates the file named by the first argument
func loadCatalogFile(c *cli.Context) (*models.Product, error) {
	if c.NArg() != 1 {
		return nil, cli.Exit("expected exactly one catalog file", 2)
	}

	product, err := repository.ReadProductFile(c.Args().First())
	if err != nil {
		return nil, err
	}
	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog entry: %w", err)
	}
	return product, nil
}
