package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryCoffee      ProductCategory = "coffee"
	CategoryTea         ProductCategory = "tea"
	CategoryColdDrinks  ProductCategory = "cold-drinks"
	CategoryPastries    ProductCategory = "pastries"
	CategorySandwiches  ProductCategory = "sandwiches"
	CategoryDesserts    ProductCategory = "desserts"
	CategorySnacks      ProductCategory = "snacks"
	CategoryMerchandise ProductCategory = "merchandise"
)

var ValidCategories = []ProductCategory{
	CategoryCoffee, CategoryTea, CategoryColdDrinks, CategoryPastries,
	CategorySandwiches, CategoryDesserts, CategorySnacks, CategoryMerchandise,
}

func (c ProductCategory) IsValid() bool {
	for _, category := range ValidCategories {
		if c == category {
			return true
		}
	}
	return false
}

// RequiresSizes reports whether products in this category are sold in sizes.
// Drinks carry a size list with per-size prices; everything else is a flat
// base price with no sizes. This is the single source of truth for the
// product pricing variant.
func (c ProductCategory) RequiresSizes() bool {
	switch c {
	case CategoryCoffee, CategoryTea, CategoryColdDrinks:
		return true
	}
	return false
}

type Product struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	Name            string          `gorm:"not null;index" json:"name" validate:"required,min=2,max=150"`
	Description     string          `gorm:"type:text" json:"description"`
	Category        ProductCategory `gorm:"type:varchar(30);not null;index" json:"category" validate:"required,productcategory"`
	Subcategory     string          `json:"subcategory,omitempty"`
	BasePrice       float64         `gorm:"not null;check:base_price >= 0" json:"base_price" validate:"gte=0"`
	ImageURL        string          `json:"image_url,omitempty"`
	Ingredients     pq.StringArray  `gorm:"type:text[]" json:"ingredients,omitempty"`
	Allergens       pq.StringArray  `gorm:"type:text[]" json:"allergens,omitempty"`
	Tags            pq.StringArray  `gorm:"type:text[]" json:"tags,omitempty"`
	Calories        int             `json:"calories,omitempty" validate:"gte=0"`
	IsAvailable     bool            `gorm:"default:true;index" json:"is_available"`
	IsFeatured      bool            `gorm:"default:false" json:"is_featured"`
	IsSeasonal      bool            `gorm:"default:false" json:"is_seasonal"`
	PreparationTime int             `gorm:"default:5;check:preparation_time >= 1" json:"preparation_time" validate:"gte=1"` // minutes
	CreatedByID     uint            `gorm:"index" json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	CreatedBy      *User                  `gorm:"foreignKey:CreatedByID" json:"-"`
	Sizes          []ProductSize          `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sizes,omitempty"`
	Customizations []ProductCustomization `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"customizations,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ProductSize is one sellable size of a sized product (drinks).
type ProductSize struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Size      string  `gorm:"type:varchar(20);not null" json:"size" validate:"required"` // small, medium, large...
	Price     float64 `gorm:"not null;check:price >= 0" json:"price" validate:"gte=0"`
	Calories  int     `json:"calories,omitempty" validate:"gte=0"`
}

func (ProductSize) TableName() string {
	return "product_sizes"
}

// ProductCustomization is a named option group (e.g. "Milk", "Syrup").
type ProductCustomization struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Name      string `gorm:"not null" json:"name" validate:"required"`
	Required  bool   `gorm:"default:false" json:"required"`

	Options []CustomizationOption `gorm:"foreignKey:CustomizationID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (ProductCustomization) TableName() string {
	return "product_customizations"
}

// CustomizationOption is one priced choice inside an option group.
type CustomizationOption struct {
	ID              uint    `gorm:"primarykey" json:"id"`
	CustomizationID uint    `gorm:"not null;index" json:"customization_id"`
	Name            string  `gorm:"not null" json:"name" validate:"required"`
	Price           float64 `gorm:"default:0;check:price >= 0" json:"price" validate:"gte=0"`
}

func (CustomizationOption) TableName() string {
	return "customization_options"
}

// PriceForSize resolves the unit price for a requested size. Sized products
// must be ordered with one of their declared sizes; flat products ignore the
// size and sell at the base price.
func (p *Product) PriceForSize(size string) (float64, bool) {
	if !p.Category.RequiresSizes() {
		return p.BasePrice, true
	}
	for _, s := range p.Sizes {
		if s.Size == size {
			return s.Price, true
		}
	}
	return 0, false
}
