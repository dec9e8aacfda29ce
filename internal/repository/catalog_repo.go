package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/adyen/productpage/internal/models"
)

// PostgresCatalogRepository handles database operations for catalog entries
type PostgresCatalogRepository struct {
	db *sql.DB
}

// NewPostgresCatalogRepository creates a catalog repository on db
func NewPostgresCatalogRepository(db *sql.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{
		db: db,
	}
}

// GetProduct retrieves a catalog entry with all of its options by slug
func (r *PostgresCatalogRepository) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	query := `
		SELECT slug, name, price, currency, description, rating, review_count
		FROM products
		WHERE slug = $1
	`

	product := &models.Product{}
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&product.Slug,
		&product.Name,
		&product.Price,
		&product.Currency,
		&product.Description,
		&product.Rating,
		&product.ReviewCount,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, slug)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if err := r.loadOptions(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (r *PostgresCatalogRepository) loadOptions(ctx context.Context, p *models.Product) error {
	colors, err := r.db.QueryContext(ctx,
		`SELECT name, class, selected_class FROM product_colors WHERE product_slug = $1 ORDER BY position`, p.Slug)
	if err != nil {
		return fmt.Errorf("failed to get colors: %w", err)
	}
	if err := scanAll(colors, func(rows *sql.Rows) error {
		var c models.ColorOption
		if err := rows.Scan(&c.Name, &c.Class, &c.SelectedClass); err != nil {
			return err
		}
		p.Colors = append(p.Colors, c)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to read colors: %w", err)
	}

	sizes, err := r.db.QueryContext(ctx,
		`SELECT name, in_stock FROM product_sizes WHERE product_slug = $1 ORDER BY position`, p.Slug)
	if err != nil {
		return fmt.Errorf("failed to get sizes: %w", err)
	}
	if err := scanAll(sizes, func(rows *sql.Rows) error {
		var s models.SizeOption
		if err := rows.Scan(&s.Name, &s.InStock); err != nil {
			return err
		}
		p.Sizes = append(p.Sizes, s)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to read sizes: %w", err)
	}

	images, err := r.db.QueryContext(ctx,
		`SELECT id, name, src, alt FROM product_images WHERE product_slug = $1 ORDER BY position`, p.Slug)
	if err != nil {
		return fmt.Errorf("failed to get images: %w", err)
	}
	if err := scanAll(images, func(rows *sql.Rows) error {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.Name, &img.Src, &img.Alt); err != nil {
			return err
		}
		p.Images = append(p.Images, img)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to read images: %w", err)
	}

	details, err := r.db.QueryContext(ctx,
		`SELECT detail FROM product_details WHERE product_slug = $1 ORDER BY position`, p.Slug)
	if err != nil {
		return fmt.Errorf("failed to get details: %w", err)
	}
	if err := scanAll(details, func(rows *sql.Rows) error {
		var d string
		if err := rows.Scan(&d); err != nil {
			return err
		}
		p.Details = append(p.Details, d)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to read details: %w", err)
	}

	reviews, err := r.db.QueryContext(ctx,
		`SELECT rating, title, content, author, review_date FROM product_reviews WHERE product_slug = $1 ORDER BY position`, p.Slug)
	if err != nil {
		return fmt.Errorf("failed to get reviews: %w", err)
	}
	if err := scanAll(reviews, func(rows *sql.Rows) error {
		var rv models.Review
		if err := rows.Scan(&rv.Rating, &rv.Title, &rv.Content, &rv.Author, &rv.Date); err != nil {
			return err
		}
		p.Reviews = append(p.Reviews, rv)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to read reviews: %w", err)
	}

	return nil
}

// SaveProduct inserts or replaces a catalog entry and all of its options
func (r *PostgresCatalogRepository) SaveProduct(ctx context.Context, p *models.Product) error {
	if !validSlug(p.Slug) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, p.Slug)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (slug, name, price, currency, description, rating, review_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			description = EXCLUDED.description,
			rating = EXCLUDED.rating,
			review_count = EXCLUDED.review_count,
			updated_at = EXCLUDED.updated_at
	`, p.Slug, p.Name, p.Price, p.CurrencyCode(), p.Description, p.Rating, p.ReviewCount, now)
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	for _, table := range []string{"product_colors", "product_sizes", "product_images", "product_details", "product_reviews"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE product_slug = $1", p.Slug); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, c := range p.Colors {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_colors (product_slug, position, name, class, selected_class) VALUES ($1, $2, $3, $4, $5)`,
			p.Slug, i, c.Name, c.Class, c.SelectedClass); err != nil {
			return fmt.Errorf("failed to save color %q: %w", c.Name, err)
		}
	}

	for i, s := range p.Sizes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_sizes (product_slug, position, name, in_stock) VALUES ($1, $2, $3, $4)`,
			p.Slug, i, s.Name, s.InStock); err != nil {
			return fmt.Errorf("failed to save size %q: %w", s.Name, err)
		}
	}

	for i, img := range p.Images {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_images (product_slug, position, id, name, src, alt) VALUES ($1, $2, $3, $4, $5, $6)`,
			p.Slug, i, img.ID, img.Name, img.Src, img.Alt); err != nil {
			return fmt.Errorf("failed to save image %d: %w", img.ID, err)
		}
	}

	for i, d := range p.Details {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_details (product_slug, position, detail) VALUES ($1, $2, $3)`,
			p.Slug, i, d); err != nil {
			return fmt.Errorf("failed to save detail: %w", err)
		}
	}

	for i, rv := range p.Reviews {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_reviews (product_slug, position, rating, title, content, author, review_date) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.Slug, i, rv.Rating, rv.Title, rv.Content, rv.Author, rv.Date); err != nil {
			return fmt.Errorf("failed to save review: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product: %w", err)
	}

	return nil
}

// scanAll iterates rows, closing them when done
func scanAll(rows *sql.Rows, scan func(*sql.Rows) error) error {
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
