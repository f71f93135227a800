package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/pkg/logger"
)

type InventoryRepository interface {
	Create(item *model.Inventory) error
	FindByID(id uint) (*model.Inventory, error)
	FindByProductID(productID uint) (*model.Inventory, error)
	FindAll() ([]model.Inventory, error)
	FindLowStock() ([]model.Inventory, error)
	FindExpiringSoon(within time.Duration) ([]model.Inventory, error)
	Update(item *model.Inventory) error
	Delete(id uint) error
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(item *model.Inventory) error {
	logger.Debug("Creating inventory item in database", map[string]interface{}{
		"product_id":    item.ProductID,
		"current_stock": item.CurrentStock,
		"unit":          item.Unit,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create inventory item in database", err, map[string]interface{}{
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

func (r *inventoryRepository) FindByID(id uint) (*model.Inventory, error) {
	var item model.Inventory
	if err := r.db.Preload("Product").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindByProductID(productID uint) (*model.Inventory, error) {
	var item model.Inventory
	if err := r.db.Preload("Product").
		Where("product_id = ?", productID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindAll() ([]model.Inventory, error) {
	var items []model.Inventory
	if err := r.db.Preload("Product").
		Order("product_id ASC").
		Find(&items).Error; err != nil {
		logger.Error("Failed to find inventory items in database", err, nil)
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) FindLowStock() ([]model.Inventory, error) {
	var items []model.Inventory
	if err := r.db.Preload("Product").
		Where("low_stock_alerts = ?", true).
		Where("current_stock <= reorder_level").
		Order("current_stock ASC").
		Find(&items).Error; err != nil {
		logger.Error("Failed to find low-stock inventory in database", err, nil)
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) FindExpiringSoon(within time.Duration) ([]model.Inventory, error) {
	cutoff := time.Now().Add(within)

	var items []model.Inventory
	if err := r.db.Preload("Product").
		Where("expiration_date IS NOT NULL AND expiration_date <= ?", cutoff).
		Order("expiration_date ASC").
		Find(&items).Error; err != nil {
		logger.Error("Failed to find expiring inventory in database", err, map[string]interface{}{
			"cutoff": cutoff,
		})
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) Update(item *model.Inventory) error {
	logger.Debug("Updating inventory item in database", map[string]interface{}{
		"inventory_id":  item.ID,
		"product_id":    item.ProductID,
		"current_stock": item.CurrentStock,
	})

	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update inventory item in database", err, map[string]interface{}{
			"inventory_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *inventoryRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Inventory{}, id).Error; err != nil {
		logger.Error("Failed to delete inventory item in database", err, map[string]interface{}{
			"inventory_id": id,
		})
		return err
	}
	return nil
}
