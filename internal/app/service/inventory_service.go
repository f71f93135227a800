package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/app/repository"
	apperrors "github.com/brewtab/coffeehouse-backend/internal/errors"
	"github.com/brewtab/coffeehouse-backend/internal/validation"
	"github.com/brewtab/coffeehouse-backend/pkg/logger"
)

var (
	ErrInventoryNotFound  = errors.New("inventory item not found")
	ErrInventoryExists    = errors.New("inventory already tracked for product")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidStockAmount = errors.New("stock amount must be positive")
)

type InventoryService interface {
	CreateItem(item *model.Inventory) (*model.Inventory, error)
	GetItemByID(id uint) (*model.Inventory, error)
	GetItemByProductID(productID uint) (*model.Inventory, error)
	ListItems() ([]model.Inventory, error)
	UpdateItem(item *model.Inventory) (*model.Inventory, error)
	Restock(id uint, quantity float64) (*model.Inventory, error)
	Consume(id uint, quantity float64) (*model.Inventory, error)
	LowStockItems() ([]model.Inventory, error)
	ExpiringSoon(within time.Duration) ([]model.Inventory, error)
	DeleteItem(id uint) error
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
	}
}

func (s *inventoryService) CreateItem(item *model.Inventory) (*model.Inventory, error) {
	logger.Info("Creating inventory item", map[string]interface{}{
		"product_id": item.ProductID,
		"unit":       item.Unit,
	})

	if _, err := s.productRepo.FindByID(item.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	item.RecomputeTotalValue()
	if err := validation.Validate(item); err != nil {
		return nil, err
	}

	if err := s.inventoryRepo.Create(item); err != nil {
		if apperrors.IsUniqueViolation(err) {
			logger.Warn("Inventory already tracked for product", map[string]interface{}{
				"product_id": item.ProductID,
			})
			return nil, ErrInventoryExists
		}
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) GetItemByID(id uint) (*model.Inventory, error) {
	item, err := s.inventoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) GetItemByProductID(productID uint) (*model.Inventory, error) {
	item, err := s.inventoryRepo.FindByProductID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) ListItems() ([]model.Inventory, error) {
	return s.inventoryRepo.FindAll()
}

func (s *inventoryService) UpdateItem(item *model.Inventory) (*model.Inventory, error) {
	existing, err := s.inventoryRepo.FindByID(item.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, err
	}

	item.ProductID = existing.ProductID
	item.RecomputeTotalValue()
	if err := validation.Validate(item); err != nil {
		return nil, err
	}

	if err := s.inventoryRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) Restock(id uint, quantity float64) (*model.Inventory, error) {
	if quantity <= 0 {
		return nil, ErrInvalidStockAmount
	}

	item, err := s.inventoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, err
	}

	item.CurrentStock += quantity
	item.RecomputeTotalValue()
	if err := s.inventoryRepo.Update(item); err != nil {
		return nil, err
	}

	logger.Info("Inventory restocked", map[string]interface{}{
		"inventory_id": id,
		"quantity":     quantity,
		"new_stock":    item.CurrentStock,
	})
	return item, nil
}

func (s *inventoryService) Consume(id uint, quantity float64) (*model.Inventory, error) {
	if quantity <= 0 {
		return nil, ErrInvalidStockAmount
	}

	item, err := s.inventoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, err
	}

	if item.CurrentStock < quantity {
		logger.Warn("Stock consumption rejected", map[string]interface{}{
			"inventory_id": id,
			"requested":    quantity,
			"available":    item.CurrentStock,
		})
		return nil, ErrInsufficientStock
	}

	item.CurrentStock -= quantity
	item.RecomputeTotalValue()
	if err := s.inventoryRepo.Update(item); err != nil {
		return nil, err
	}

	if item.IsLowStock() {
		logger.Warn("Inventory fell below reorder level", map[string]interface{}{
			"inventory_id":  id,
			"product_id":    item.ProductID,
			"current_stock": item.CurrentStock,
			"reorder_level": item.ReorderLevel,
		})
	}
	return item, nil
}

func (s *inventoryService) LowStockItems() ([]model.Inventory, error) {
	return s.inventoryRepo.FindLowStock()
}

func (s *inventoryService) ExpiringSoon(within time.Duration) ([]model.Inventory, error) {
	return s.inventoryRepo.FindExpiringSoon(within)
}

func (s *inventoryService) DeleteItem(id uint) error {
	if _, err := s.inventoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInventoryNotFound
		}
		return err
	}
	return s.inventoryRepo.Delete(id)
}
