package model

import (
	"time"

	"gorm.io/gorm"
)

type InventoryUnit string     // stock-keeping unit of measure
type InventoryLocation string // where the stock is kept

const (
	UnitKilogram InventoryUnit = "kg"
	UnitGram     InventoryUnit = "g"
	UnitLiter    InventoryUnit = "l"
	UnitPiece    InventoryUnit = "piece"
	UnitBag      InventoryUnit = "bag"
	UnitBox      InventoryUnit = "box"

	LocationStoreroom InventoryLocation = "storeroom"
	LocationCounter   InventoryLocation = "counter"
	LocationFridge    InventoryLocation = "fridge"
	LocationFreezer   InventoryLocation = "freezer"
)

func (u InventoryUnit) IsValid() bool {
	switch u {
	case UnitKilogram, UnitGram, UnitLiter, UnitPiece, UnitBag, UnitBox:
		return true
	}
	return false
}

func (l InventoryLocation) IsValid() bool {
	switch l {
	case LocationStoreroom, LocationCounter, LocationFridge, LocationFreezer:
		return true
	}
	return false
}

// Inventory tracks stock for one product. TotalValue is derived
// (current stock x unit cost) and recomputed on every stock or cost change.
type Inventory struct {
	ID        uint `gorm:"primarykey" json:"id"`
	ProductID uint `gorm:"uniqueIndex;not null" json:"product_id"`

	CurrentStock    float64 `gorm:"not null;check:current_stock >= 0" json:"current_stock" validate:"gte=0"`
	MinimumStock    float64 `gorm:"default:0;check:minimum_stock >= 0" json:"minimum_stock" validate:"gte=0"`
	MaximumStock    float64 `gorm:"default:0;check:maximum_stock >= 0" json:"maximum_stock" validate:"gte=0"`
	ReorderLevel    float64 `gorm:"default:0;check:reorder_level >= 0" json:"reorder_level" validate:"gte=0"`
	ReorderQuantity float64 `gorm:"default:0;check:reorder_quantity >= 0" json:"reorder_quantity" validate:"gte=0"`

	Unit        InventoryUnit `gorm:"type:varchar(10);not null" json:"unit" validate:"required,inventoryunit"`
	CostPerUnit float64       `gorm:"not null;check:cost_per_unit >= 0" json:"cost_per_unit" validate:"gte=0"`
	TotalValue  float64       `gorm:"not null" json:"total_value"`

	SupplierName  string `json:"supplier_name,omitempty"`
	SupplierPhone string `json:"supplier_phone,omitempty" validate:"omitempty,e164ish"`

	ExpirationDate *time.Time        `json:"expiration_date,omitempty"`
	Location       InventoryLocation `gorm:"type:varchar(20);default:'storeroom'" json:"location" validate:"omitempty,inventorylocation"`
	LowStockAlerts bool              `gorm:"default:true" json:"low_stock_alerts"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Inventory) TableName() string {
	return "inventories"
}

// IsLowStock reports whether stock has fallen to or below the reorder level.
func (i *Inventory) IsLowStock() bool {
	return i.CurrentStock <= i.ReorderLevel
}

// RecomputeTotalValue refreshes the derived stock valuation.
func (i *Inventory) RecomputeTotalValue() {
	i.TotalValue = i.CurrentStock * i.CostPerUnit
}
