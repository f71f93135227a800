package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/app/repository"
	"github.com/brewtab/coffeehouse-backend/internal/validation"
	"github.com/brewtab/coffeehouse-backend/pkg/logger"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSizesRequired   = errors.New("drink products require at least one size")
	ErrSizesForbidden  = errors.New("non-drink products cannot have sizes")
)

type ProductService interface {
	CreateProduct(product *model.Product) (*model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	ListProducts(filter repository.ProductFilter) ([]model.Product, error)
	UpdateProduct(product *model.Product) (*model.Product, error)
	SetAvailability(id uint, available bool) (*model.Product, error)
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// checkVariant enforces the category pricing variant: drink categories carry
// a size list, everything else sells flat at the base price.
func checkVariant(product *model.Product) error {
	if product.Category.RequiresSizes() {
		if len(product.Sizes) == 0 {
			return ErrSizesRequired
		}
		return nil
	}
	if len(product.Sizes) > 0 {
		return ErrSizesForbidden
	}
	return nil
}

func (s *productService) CreateProduct(product *model.Product) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":     product.Name,
		"category": product.Category,
	})

	if err := validation.Validate(product); err != nil {
		logger.Warn("Product creation failed: invalid data", map[string]interface{}{
			"name":   product.Name,
			"errors": err.Error(),
		})
		return nil, err
	}

	if err := checkVariant(product); err != nil {
		logger.Warn("Product creation failed: pricing variant mismatch", map[string]interface{}{
			"name":     product.Name,
			"category": product.Category,
			"sizes":    len(product.Sizes),
		})
		return nil, err
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(filter)
}

func (s *productService) UpdateProduct(product *model.Product) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(product.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := validation.Validate(product); err != nil {
		return nil, err
	}

	if err := checkVariant(product); err != nil {
		logger.Warn("Product update failed: pricing variant mismatch", map[string]interface{}{
			"product_id": product.ID,
			"category":   product.Category,
		})
		return nil, err
	}

	product.CreatedByID = existing.CreatedByID
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

func (s *productService) SetAvailability(id uint, available bool) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product.IsAvailable = available
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product availability changed", map[string]interface{}{
		"product_id": id,
		"available":  available,
	})
	return product, nil
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.productRepo.Delete(id)
}
