package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/app/service"
	apperrors "github.com/brewtab/coffeehouse-backend/internal/errors"
	"github.com/brewtab/coffeehouse-backend/internal/middleware"
	"github.com/brewtab/coffeehouse-backend/internal/validation"
)

type InventoryController struct {
	inventoryService service.InventoryService
}

func NewInventoryController(inventoryService service.InventoryService) *InventoryController {
	return &InventoryController{inventoryService: inventoryService}
}

type InventoryRequest struct {
	ProductID       uint                    `json:"product_id" binding:"required"`
	CurrentStock    float64                 `json:"current_stock"`
	MinimumStock    float64                 `json:"minimum_stock"`
	MaximumStock    float64                 `json:"maximum_stock"`
	ReorderLevel    float64                 `json:"reorder_level"`
	ReorderQuantity float64                 `json:"reorder_quantity"`
	Unit            model.InventoryUnit     `json:"unit" binding:"required"`
	CostPerUnit     float64                 `json:"cost_per_unit"`
	SupplierName    string                  `json:"supplier_name"`
	SupplierPhone   string                  `json:"supplier_phone"`
	ExpirationDate  *time.Time              `json:"expiration_date"`
	Location        model.InventoryLocation `json:"location"`
	LowStockAlerts  *bool                   `json:"low_stock_alerts"`
}

type StockAdjustmentRequest struct {
	Quantity float64 `json:"quantity" binding:"required"`
}

func (r *InventoryRequest) toModel() *model.Inventory {
	item := &model.Inventory{
		ProductID:       r.ProductID,
		CurrentStock:    r.CurrentStock,
		MinimumStock:    r.MinimumStock,
		MaximumStock:    r.MaximumStock,
		ReorderLevel:    r.ReorderLevel,
		ReorderQuantity: r.ReorderQuantity,
		Unit:            r.Unit,
		CostPerUnit:     r.CostPerUnit,
		SupplierName:    r.SupplierName,
		SupplierPhone:   r.SupplierPhone,
		ExpirationDate:  r.ExpirationDate,
		Location:        r.Location,
		LowStockAlerts:  true,
	}
	if r.Location == "" {
		item.Location = model.LocationStoreroom
	}
	if r.LowStockAlerts != nil {
		item.LowStockAlerts = *r.LowStockAlerts
	}
	return item
}

func respondInventoryError(c *gin.Context, err error, context string) {
	var fieldErrs validation.FieldErrors
	switch {
	case errors.Is(err, service.ErrInventoryNotFound):
		apperrors.NotFound(c, apperrors.InventoryNotFound, "Inventory item not found")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrInventoryExists):
		apperrors.Conflict(c, apperrors.InventoryDuplicateProduct, "This product already has an inventory record")
	case errors.Is(err, service.ErrInsufficientStock):
		apperrors.BadRequest(c, apperrors.InventoryInsufficientStock, "Not enough stock on hand")
	case errors.Is(err, service.ErrInvalidStockAmount):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Quantity must be positive")
	case errors.As(err, &fieldErrs):
		apperrors.RespondWithValidationError(c, fieldErrs)
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// ListItems lists every tracked inventory item
// GET /api/v1/inventory
func (ctrl *InventoryController) ListItems(c *gin.Context) {
	items, err := ctrl.inventoryService.ListItems()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list inventory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetItem returns a single inventory item
// GET /api/v1/inventory/:id
func (ctrl *InventoryController) GetItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Inventory ID must be a number")
		return
	}

	item, err := ctrl.inventoryService.GetItemByID(uint(id))
	if err != nil {
		respondInventoryError(c, err, "get inventory")
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// CreateItem starts tracking stock for a product
// POST /api/v1/inventory
func (ctrl *InventoryController) CreateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid inventory request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Inventory details are not valid")
		return
	}

	item, err := ctrl.inventoryService.CreateItem(req.toModel())
	if err != nil {
		respondInventoryError(c, err, "create inventory")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Inventory item created",
		"item":    item,
	})
}

// UpdateItem replaces an inventory item's tracked fields
// PUT /api/v1/inventory/:id
func (ctrl *InventoryController) UpdateItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Inventory ID must be a number")
		return
	}

	var req InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Inventory details are not valid")
		return
	}

	item := req.toModel()
	item.ID = uint(id)

	item, err = ctrl.inventoryService.UpdateItem(item)
	if err != nil {
		respondInventoryError(c, err, "update inventory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory item updated",
		"item":    item,
	})
}

// Restock adds delivered stock to an item
// POST /api/v1/inventory/:id/restock
func (ctrl *InventoryController) Restock(c *gin.Context) {
	ctrl.adjustStock(c, ctrl.inventoryService.Restock, "Stock added")
}

// Consume removes used stock from an item
// POST /api/v1/inventory/:id/consume
func (ctrl *InventoryController) Consume(c *gin.Context) {
	ctrl.adjustStock(c, ctrl.inventoryService.Consume, "Stock consumed")
}

func (ctrl *InventoryController) adjustStock(c *gin.Context, adjust func(uint, float64) (*model.Inventory, error), message string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Inventory ID must be a number")
		return
	}

	var req StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "A quantity is required")
		return
	}

	item, err := adjust(uint(id), req.Quantity)
	if err != nil {
		respondInventoryError(c, err, "adjust stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"item":    item,
	})
}

// ListLowStock lists items at or below their reorder level
// GET /api/v1/inventory/low-stock
func (ctrl *InventoryController) ListLowStock(c *gin.Context) {
	items, err := ctrl.inventoryService.LowStockItems()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "low stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// ListExpiring lists items expiring within the requested number of days
// GET /api/v1/inventory/expiring?days=7
func (ctrl *InventoryController) ListExpiring(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Days must be a positive number")
			return
		}
		days = parsed
	}

	items, err := ctrl.inventoryService.ExpiringSoon(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "expiring inventory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// DeleteItem stops tracking an inventory item
// DELETE /api/v1/inventory/:id
func (ctrl *InventoryController) DeleteItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Inventory ID must be a number")
		return
	}

	if err := ctrl.inventoryService.DeleteItem(uint(id)); err != nil {
		respondInventoryError(c, err, "delete inventory")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted"})
}
