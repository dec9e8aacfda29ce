package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	internalcli "github.com/adyen/productpage/internal/cli"
	"github.com/adyen/productpage/internal/config"
	"github.com/adyen/productpage/internal/database"
	"github.com/adyen/productpage/internal/handlers"
	"github.com/adyen/productpage/internal/logging"
	"github.com/adyen/productpage/internal/media"
	"github.com/adyen/productpage/internal/repository"
	"github.com/adyen/productpage/internal/services"
)

var version = "0.1.0"

const templatePath = "templates/product.html"

// newLogger builds the process logger from LOG_LEVEL and LOG_FORMAT
func newLogger() (*zap.Logger, error) {
	logConfig, err := config.LoadLogConfig(nil)
	if err != nil {
		return nil, err
	}
	return logging.New(logConfig)
}

// connectDatabase opens Postgres and applies migrations
func connectDatabase(ctx context.Context, logger *zap.Logger) (*sql.DB, error) {
	pgConfig, err := config.LoadPostgresConfig(nil)
	if err != nil {
		return nil, fmt.Errorf("missing required Postgres configuration: %w", err)
	}

	db, err := database.Connect(ctx, pgConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("connected to database", zap.String("host", pgConfig.Host), zap.String("database", pgConfig.Database))

	if err := database.RunMigrations(db, logger); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// catalogRepository selects where the catalog entry is read from. The
// returned close function releases the database, if one was opened.
func catalogRepository(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (services.CatalogRepository, func(), error) {
	if cfg.Source == config.CatalogSourcePostgres {
		db, err := connectDatabase(ctx, logger)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresCatalogRepository(db), func() { db.Close() }, nil
	}
	return repository.NewFileCatalogRepository(cfg.Dir), func() {}, nil
}

// buildServerDependencies creates all dependencies needed for the server
func buildServerDependencies(ctx context.Context, logger *zap.Logger) (internalcli.ServerDependencies, func(), error) {
	deps := internalcli.ServerDependencies{Logger: logger, StaticDir: "static"}
	noop := func() {}

	serverConfig, err := config.LoadServerConfig(nil)
	if err != nil {
		return deps, noop, err
	}
	deps.ServerConfig = serverConfig

	catalogConfig, err := config.LoadCatalogConfig(nil)
	if err != nil {
		return deps, noop, err
	}

	interactionConfig, err := config.LoadInteractionConfig(nil)
	if err != nil {
		return deps, noop, err
	}

	repo, closeRepo, err := catalogRepository(ctx, catalogConfig, logger)
	if err != nil {
		return deps, noop, err
	}

	// Create service layer
	catalog := services.NewCatalogService(repo, catalogConfig.Slug, logger)
	if _, err := catalog.Product(ctx); err != nil {
		closeRepo()
		return deps, noop, err
	}
	pages := services.NewPageService(catalog, interactionConfig, logger)
	deps.Sweeper = pages
	deps.OnShutdown = pages.CloseAll

	renderer, err := handlers.NewRenderer(templatePath)
	if err != nil {
		closeRepo()
		return deps, noop, fmt.Errorf("failed to load template: %w", err)
	}

	deps.ProductHandler = handlers.NewProductHandler(renderer, pages, logger)
	deps.PageHandler = handlers.NewPageHandler(pages, renderer, logger).Routes()
	deps.MediaHandler = handlers.NewMediaHandler(catalog, media.NewService(serverConfig.MediaDir, logger), logger)
	deps.HealthHandler = handlers.NewHealthHandler(pages)

	return deps, closeRepo, nil
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the product page web server",
		Action: func(c *cli.Context) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			deps, closeDeps, err := buildServerDependencies(c.Context, logger)
			if err != nil {
				return err
			}
			defer closeDeps()

			return internalcli.RunServe(deps)
		},
	}
}

// MigrateCommand returns the migrate command
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply the catalog database migrations",
		Action: func(c *cli.Context) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := connectDatabase(c.Context, logger)
			if err != nil {
				return err
			}
			return db.Close()
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "productpage",
		Usage:   "Product detail page server and catalog tool",
		Version: version,
		Commands: []*cli.Command{
			ServeCommand(),
			MigrateCommand(),
			CatalogCommand(),
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
