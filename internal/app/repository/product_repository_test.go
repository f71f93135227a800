package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/db"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	return testDB, NewProductRepository(testDB)
}

func newSizedProduct() *model.Product {
	return &model.Product{
		Name:            "Cappuccino",
		Category:        model.CategoryCoffee,
		BasePrice:       4.00,
		IsAvailable:     true,
		PreparationTime: 5,
		Sizes: []model.ProductSize{
			{Size: "small", Price: 3.50},
			{Size: "medium", Price: 4.00},
			{Size: "large", Price: 4.50},
		},
		Customizations: []model.ProductCustomization{
			{
				Name: "Milk",
				Options: []model.CustomizationOption{
					{Name: "whole", Price: 0},
					{Name: "oat", Price: 0.50},
				},
			},
		},
	}
}

func TestProductRepository_Create_WithSizesAndCustomizations(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newSizedProduct()
	err := repo.Create(product)
	assert.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Len(t, product.Sizes, 3)
	assert.Len(t, product.Customizations, 1)
}

func TestProductRepository_FindByID_PreloadsAssociations(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newSizedProduct()
	repo.Create(product)

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Len(t, found.Sizes, 3)
	require.Len(t, found.Customizations, 1)
	assert.Len(t, found.Customizations[0].Options, 2)

	_, err = repo.FindByID(99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_FindAll_Filters(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	coffee := newSizedProduct()
	repo.Create(coffee)

	muffin := &model.Product{
		Name:            "Blueberry Muffin",
		Category:        model.CategoryPastries,
		BasePrice:       3.25,
		IsAvailable:     true,
		IsFeatured:      true,
		PreparationTime: 1,
	}
	repo.Create(muffin)

	hidden := &model.Product{
		Name:            "Seasonal Blend",
		Category:        model.CategoryCoffee,
		BasePrice:       5.00,
		PreparationTime: 5,
	}
	require.NoError(t, repo.Create(hidden))
	testDB.Model(hidden).Update("is_available", false)

	all, err := repo.FindAll(ProductFilter{})
	assert.NoError(t, err)
	assert.Len(t, all, 3)

	coffees, err := repo.FindAll(ProductFilter{Category: model.CategoryCoffee})
	assert.NoError(t, err)
	assert.Len(t, coffees, 2)

	available, err := repo.FindAll(ProductFilter{AvailableOnly: true})
	assert.NoError(t, err)
	assert.Len(t, available, 2)

	featured, err := repo.FindAll(ProductFilter{FeaturedOnly: true})
	assert.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, muffin.ID, featured[0].ID)
}

func TestProductRepository_Update(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newSizedProduct()
	repo.Create(product)

	product.Name = "Dry Cappuccino"
	product.Sizes[0].Price = 3.75
	err := repo.Update(product)
	assert.NoError(t, err)

	updated, _ := repo.FindByID(product.ID)
	assert.Equal(t, "Dry Cappuccino", updated.Name)
	price, ok := updated.PriceForSize("small")
	require.True(t, ok)
	assert.InDelta(t, 3.75, price, 0.001)
}

func TestProductRepository_Delete(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := newSizedProduct()
	repo.Create(product)

	err := repo.Delete(product.ID)
	assert.NoError(t, err)

	_, err = repo.FindByID(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
