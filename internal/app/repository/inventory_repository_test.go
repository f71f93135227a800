package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/db"
	apperrors "github.com/brewtab/coffeehouse-backend/internal/errors"
)

func setupInventoryTest(t *testing.T) (*gorm.DB, InventoryRepository, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewInventoryRepository(testDB)

	product := &model.Product{
		Name:            "Espresso Beans",
		Category:        model.CategoryMerchandise,
		BasePrice:       15.00,
		PreparationTime: 1,
	}
	testDB.Create(product)

	return testDB, repo, product
}

func createTestProduct(t *testing.T, testDB *gorm.DB, name string) *model.Product {
	product := &model.Product{
		Name:            name,
		Category:        model.CategoryMerchandise,
		BasePrice:       10.00,
		PreparationTime: 1,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func TestInventoryRepository_Create(t *testing.T) {
	testDB, repo, product := setupInventoryTest(t)
	defer db.CleanupTestDB(testDB)

	item := &model.Inventory{
		ProductID:    product.ID,
		CurrentStock: 25,
		ReorderLevel: 5,
		Unit:         model.UnitKilogram,
		CostPerUnit:  8.00,
		TotalValue:   200,
		Location:     model.LocationStoreroom,
	}

	err := repo.Create(item)
	assert.NoError(t, err)
	assert.NotZero(t, item.ID)
}

func TestInventoryRepository_Create_DuplicateProduct(t *testing.T) {
	testDB, repo, product := setupInventoryTest(t)
	defer db.CleanupTestDB(testDB)

	first := &model.Inventory{ProductID: product.ID, CurrentStock: 10, Unit: model.UnitKilogram, CostPerUnit: 8.00}
	require.NoError(t, repo.Create(first))

	second := &model.Inventory{ProductID: product.ID, CurrentStock: 10, Unit: model.UnitKilogram, CostPerUnit: 8.00}
	err := repo.Create(second)
	require.Error(t, err)
	assert.True(t, apperrors.IsUniqueViolation(err))
}

func TestInventoryRepository_FindByProductID(t *testing.T) {
	testDB, repo, product := setupInventoryTest(t)
	defer db.CleanupTestDB(testDB)

	item := &model.Inventory{ProductID: product.ID, CurrentStock: 10, Unit: model.UnitBag, CostPerUnit: 3.00}
	repo.Create(item)

	found, err := repo.FindByProductID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
	assert.NotNil(t, found.Product)

	_, err = repo.FindByProductID(99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInventoryRepository_FindLowStock(t *testing.T) {
	testDB, repo, product := setupInventoryTest(t)
	defer db.CleanupTestDB(testDB)

	low := &model.Inventory{ProductID: product.ID, CurrentStock: 3, ReorderLevel: 5, Unit: model.UnitKilogram, CostPerUnit: 8.00, LowStockAlerts: true}
	repo.Create(low)

	okProduct := createTestProduct(t, testDB, "Cups")
	stocked := &model.Inventory{ProductID: okProduct.ID, CurrentStock: 100, ReorderLevel: 20, Unit: model.UnitBox, CostPerUnit: 2.00, LowStockAlerts: true}
	repo.Create(stocked)

	mutedProduct := createTestProduct(t, testDB, "Napkins")
	muted := &model.Inventory{ProductID: mutedProduct.ID, CurrentStock: 1, ReorderLevel: 5, Unit: model.UnitBox, CostPerUnit: 1.00, LowStockAlerts: false}
	require.NoError(t, repo.Create(muted))
	// default:true tag would flip the zero value on insert, force it off
	testDB.Model(muted).Update("low_stock_alerts", false)

	items, err := repo.FindLowStock()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
}

func TestInventoryRepository_FindExpiringSoon(t *testing.T) {
	testDB, repo, product := setupInventoryTest(t)
	defer db.CleanupTestDB(testDB)

	soon := time.Now().Add(48 * time.Hour)
	expiring := &model.Inventory{ProductID: product.ID, CurrentStock: 10, Unit: model.UnitLiter, CostPerUnit: 1.50, ExpirationDate: &soon}
	repo.Create(expiring)

	farProduct := createTestProduct(t, testDB, "Syrup")
	far := time.Now().Add(90 * 24 * time.Hour)
	durable := &model.Inventory{ProductID: farProduct.ID, CurrentStock: 5, Unit: model.UnitPiece, CostPerUnit: 4.00, ExpirationDate: &far}
	repo.Create(durable)

	items, err := repo.FindExpiringSoon(7 * 24 * time.Hour)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, expiring.ID, items[0].ID)
}

func TestInventoryRepository_Update(t *testing.T) {
	testDB, repo, product := setupInventoryTest(t)
	defer db.CleanupTestDB(testDB)

	item := &model.Inventory{ProductID: product.ID, CurrentStock: 10, Unit: model.UnitKilogram, CostPerUnit: 8.00}
	repo.Create(item)

	item.CurrentStock = 4
	item.RecomputeTotalValue()
	err := repo.Update(item)
	assert.NoError(t, err)

	updated, _ := repo.FindByID(item.ID)
	assert.Equal(t, 4.0, updated.CurrentStock)
	assert.InDelta(t, 32.0, updated.TotalValue, 0.001)
}

func TestInventoryRepository_FindAll(t *testing.T) {
	testDB, repo, product := setupInventoryTest(t)
	defer db.CleanupTestDB(testDB)

	repo.Create(&model.Inventory{ProductID: product.ID, CurrentStock: 10, Unit: model.UnitKilogram, CostPerUnit: 8.00})
	for i := 0; i < 2; i++ {
		p := createTestProduct(t, testDB, fmt.Sprintf("Extra %d", i))
		repo.Create(&model.Inventory{ProductID: p.ID, CurrentStock: 5, Unit: model.UnitPiece, CostPerUnit: 1.00})
	}

	items, err := repo.FindAll()
	assert.NoError(t, err)
	assert.Len(t, items, 3)
}
