// Package testutil provides catalog fixtures shared by package tests.
package testutil

import (
	"github.com/adyen/productpage/internal/models"
	"github.com/shopspring/decimal"
)

// SneakerProduct returns a fresh copy of the sneaker catalog entry.
// US 10 is the only out-of-stock size.
func SneakerProduct() models.Product {
	return models.Product{
		Slug:        "premium-comfort-sneakers",
		Name:        "Premium Comfort Sneakers",
		Price:       decimal.RequireFromString("129.99"),
		Currency:    "USD",
		Description: "Experience ultimate comfort with our premium sneakers.",
		Rating:      4.8,
		ReviewCount: 124,
		Colors: []models.ColorOption{
			{Name: "Black", Class: "bg-gray-900", SelectedClass: "ring-gray-900"},
			{Name: "White", Class: "bg-white border border-gray-300", SelectedClass: "ring-gray-400"},
			{Name: "Blue", Class: "bg-blue-500", SelectedClass: "ring-blue-500"},
		},
		Sizes: []models.SizeOption{
			{Name: "US 7", InStock: true},
			{Name: "US 8", InStock: true},
			{Name: "US 9", InStock: true},
			{Name: "US 10", InStock: false},
			{Name: "US 11", InStock: true},
		},
		Images: []models.ProductImage{
			{ID: 1, Name: "Front view", Src: "product-front.png", Alt: "Front view of sneakers"},
			{ID: 2, Name: "Side view", Src: "product-side.png", Alt: "Side view of sneakers"},
			{ID: 3, Name: "Detail view", Src: "product-detail.png", Alt: "Detail of sneaker sole"},
			{ID: 4, Name: "Back view", Src: "product-back.png", Alt: "Back view of sneakers"},
		},
		Details: []string{
			"Advanced cushioning technology",
			"Breathable mesh upper",
		},
	}
}
