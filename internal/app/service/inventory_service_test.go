package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/app/repository"
	"github.com/brewtab/coffeehouse-backend/internal/db"
)

func setupInventoryServiceTest(t *testing.T) (InventoryService, *gorm.DB, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	service := NewInventoryService(
		repository.NewInventoryRepository(testDB),
		repository.NewProductRepository(testDB),
	)

	product := &model.Product{
		Name:            "House Blend Beans",
		Category:        model.CategoryMerchandise,
		BasePrice:       14.00,
		PreparationTime: 1,
	}
	require.NoError(t, testDB.Create(product).Error)

	return service, testDB, product
}

func TestInventoryService_CreateItem(t *testing.T) {
	service, _, product := setupInventoryServiceTest(t)

	item, err := service.CreateItem(&model.Inventory{
		ProductID:    product.ID,
		CurrentStock: 20,
		ReorderLevel: 5,
		Unit:         model.UnitKilogram,
		CostPerUnit:  8.00,
	})
	require.NoError(t, err)
	assert.InDelta(t, 160.0, item.TotalValue, 0.001)

	// One tracking row per product
	_, err = service.CreateItem(&model.Inventory{
		ProductID:    product.ID,
		CurrentStock: 5,
		Unit:         model.UnitKilogram,
		CostPerUnit:  8.00,
	})
	assert.ErrorIs(t, err, ErrInventoryExists)

	_, err = service.CreateItem(&model.Inventory{
		ProductID:    99999,
		CurrentStock: 5,
		Unit:         model.UnitKilogram,
		CostPerUnit:  8.00,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInventoryService_RestockAndConsume(t *testing.T) {
	service, _, product := setupInventoryServiceTest(t)

	item, err := service.CreateItem(&model.Inventory{
		ProductID:    product.ID,
		CurrentStock: 10,
		ReorderLevel: 4,
		Unit:         model.UnitKilogram,
		CostPerUnit:  2.00,
	})
	require.NoError(t, err)

	item, err = service.Restock(item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 15.0, item.CurrentStock)
	assert.InDelta(t, 30.0, item.TotalValue, 0.001)

	item, err = service.Consume(item.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 3.0, item.CurrentStock)
	assert.True(t, item.IsLowStock())

	_, err = service.Consume(item.ID, 100)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = service.Consume(item.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidStockAmount)

	_, err = service.Restock(item.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidStockAmount)

	_, err = service.Restock(99999, 5)
	assert.ErrorIs(t, err, ErrInventoryNotFound)
}

func TestInventoryService_LowStockItems(t *testing.T) {
	service, testDB, product := setupInventoryServiceTest(t)

	_, err := service.CreateItem(&model.Inventory{
		ProductID:    product.ID,
		CurrentStock: 2,
		ReorderLevel: 5,
		Unit:         model.UnitBag,
		CostPerUnit:  3.00,
	})
	require.NoError(t, err)

	other := &model.Product{
		Name:            "Paper Cups",
		Category:        model.CategoryMerchandise,
		BasePrice:       0.50,
		PreparationTime: 1,
	}
	require.NoError(t, testDB.Create(other).Error)
	_, err = service.CreateItem(&model.Inventory{
		ProductID:    other.ID,
		CurrentStock: 500,
		ReorderLevel: 100,
		Unit:         model.UnitBox,
		CostPerUnit:  0.10,
	})
	require.NoError(t, err)

	low, err := service.LowStockItems()
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, product.ID, low[0].ProductID)
}

func TestInventoryService_ExpiringSoon(t *testing.T) {
	service, _, product := setupInventoryServiceTest(t)

	soon := time.Now().Add(2 * 24 * time.Hour)
	_, err := service.CreateItem(&model.Inventory{
		ProductID:      product.ID,
		CurrentStock:   8,
		Unit:           model.UnitLiter,
		CostPerUnit:    1.20,
		ExpirationDate: &soon,
	})
	require.NoError(t, err)

	items, err := service.ExpiringSoon(7 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = service.ExpiringSoon(24 * time.Hour)
	require.NoError(t, err)
	assert.Empty(t, items)
}
