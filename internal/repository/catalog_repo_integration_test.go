//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mtestutil "github.com/adyen/productpage/internal/models/testutil"
	"github.com/adyen/productpage/internal/repository/testutil"
)

func TestPostgresCatalogRepository_SaveAndGet_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	repo := NewPostgresCatalogRepository(testDB.DB)
	ctx := context.Background()

	product := mtestutil.SneakerProduct()
	require.NoError(t, repo.SaveProduct(ctx, &product))

	got, err := repo.GetProduct(ctx, product.Slug)
	require.NoError(t, err)

	assert.Equal(t, product.Name, got.Name)
	assert.True(t, product.Price.Equal(got.Price), "price %s != %s", product.Price, got.Price)
	assert.Equal(t, product.Colors, got.Colors)
	assert.Equal(t, product.Sizes, got.Sizes)
	assert.Equal(t, product.Images, got.Images)
	assert.Equal(t, product.Details, got.Details)
	assert.Empty(t, got.Reviews)
	assert.NoError(t, got.Validate())
}

func TestPostgresCatalogRepository_SaveReplacesOptions_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	repo := NewPostgresCatalogRepository(testDB.DB)
	ctx := context.Background()

	product := mtestutil.SneakerProduct()
	require.NoError(t, repo.SaveProduct(ctx, &product))

	product.Price = decimal.RequireFromString("99.00")
	product.Colors = product.Colors[:1]
	require.NoError(t, repo.SaveProduct(ctx, &product))

	got, err := repo.GetProduct(ctx, product.Slug)
	require.NoError(t, err)
	assert.Equal(t, "99", got.Price.String())
	assert.Len(t, got.Colors, 1)
}

func TestPostgresCatalogRepository_Errors_Integration(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	repo := NewPostgresCatalogRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.GetProduct(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrProductNotFound)

	product := mtestutil.SneakerProduct()
	product.Slug = "Not A Slug"
	assert.ErrorIs(t, repo.SaveProduct(ctx, &product), ErrInvalidSlug)
}
