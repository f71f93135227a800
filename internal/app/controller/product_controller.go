package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/app/repository"
	"github.com/brewtab/coffeehouse-backend/internal/app/service"
	apperrors "github.com/brewtab/coffeehouse-backend/internal/errors"
	"github.com/brewtab/coffeehouse-backend/internal/middleware"
	"github.com/brewtab/coffeehouse-backend/internal/storage"
	"github.com/brewtab/coffeehouse-backend/internal/validation"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

const maxImageSize = 5 * 1024 * 1024 // 5MB

type ProductController struct {
	productService service.ProductService
	s3Storage      *storage.S3Storage
}

func NewProductController(productService service.ProductService, s3Storage *storage.S3Storage) *ProductController {
	return &ProductController{
		productService: productService,
		s3Storage:      s3Storage,
	}
}

type ProductSizeRequest struct {
	Size     string  `json:"size" binding:"required"`
	Price    float64 `json:"price" binding:"min=0"`
	Calories int     `json:"calories"`
}

type CustomizationOptionRequest struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"min=0"`
}

type CustomizationRequest struct {
	Name     string                       `json:"name" binding:"required"`
	Required bool                         `json:"required"`
	Options  []CustomizationOptionRequest `json:"options" binding:"required,min=1,dive"`
}

type ProductRequest struct {
	Name            string                 `json:"name" binding:"required"`
	Description     string                 `json:"description"`
	Category        model.ProductCategory  `json:"category" binding:"required"`
	Subcategory     string                 `json:"subcategory"`
	BasePrice       float64                `json:"base_price" binding:"min=0"`
	ImageURL        string                 `json:"image_url"`
	Ingredients     []string               `json:"ingredients"`
	Allergens       []string               `json:"allergens"`
	Tags            []string               `json:"tags"`
	Calories        int                    `json:"calories"`
	IsFeatured      bool                   `json:"is_featured"`
	IsSeasonal      bool                   `json:"is_seasonal"`
	PreparationTime int                    `json:"preparation_time"`
	Sizes           []ProductSizeRequest   `json:"sizes" binding:"dive"`
	Customizations  []CustomizationRequest `json:"customizations" binding:"dive"`
}

type PresignUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required,min=1"`
}

func (req *ProductRequest) toModel(createdByID uint) *model.Product {
	product := &model.Product{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Subcategory:     req.Subcategory,
		BasePrice:       req.BasePrice,
		ImageURL:        req.ImageURL,
		Ingredients:     pq.StringArray(req.Ingredients),
		Allergens:       pq.StringArray(req.Allergens),
		Tags:            pq.StringArray(req.Tags),
		Calories:        req.Calories,
		IsAvailable:     true,
		IsFeatured:      req.IsFeatured,
		IsSeasonal:      req.IsSeasonal,
		PreparationTime: req.PreparationTime,
		CreatedByID:     createdByID,
	}
	if product.PreparationTime == 0 {
		product.PreparationTime = 5
	}
	for _, size := range req.Sizes {
		product.Sizes = append(product.Sizes, model.ProductSize{
			Size:     size.Size,
			Price:    size.Price,
			Calories: size.Calories,
		})
	}
	for _, custom := range req.Customizations {
		group := model.ProductCustomization{
			Name:     custom.Name,
			Required: custom.Required,
		}
		for _, opt := range custom.Options {
			group.Options = append(group.Options, model.CustomizationOption{
				Name:  opt.Name,
				Price: opt.Price,
			})
		}
		product.Customizations = append(product.Customizations, group)
	}
	return product
}

func respondProductError(c *gin.Context, err error, context string) {
	var fieldErrs validation.FieldErrors
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrSizesRequired):
		apperrors.BadRequest(c, apperrors.ProductSizesRequired, "Drink products require at least one size")
	case errors.Is(err, service.ErrSizesForbidden):
		apperrors.BadRequest(c, apperrors.ProductSizesForbidden, "Only drink products can have sizes")
	case errors.As(err, &fieldErrs):
		apperrors.RespondWithValidationError(c, fieldErrs)
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// ListProducts returns the catalog, optionally filtered
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		Category:      model.ProductCategory(c.Query("category")),
		AvailableOnly: c.Query("available") == "true",
		FeaturedOnly:  c.Query("featured") == "true",
	}
	if filter.Category != "" && !filter.Category.IsValid() {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown product category")
		return
	}

	products, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns one product with sizes and customizations
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Product ID must be a number")
		return
	}

	product, err := ctrl.productService.GetProductByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct adds a catalog entry (manager/admin)
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Product details are not valid")
		return
	}

	product, err := ctrl.productService.CreateProduct(req.toModel(userID))
	if err != nil {
		log.Warn("Product creation rejected", map[string]interface{}{
			"name":  req.Name,
			"error": err.Error(),
		})
		respondProductError(c, err, "create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct replaces a catalog entry (manager/admin)
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Product ID must be a number")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Product details are not valid")
		return
	}

	product := req.toModel(0)
	product.ID = uint(id)

	updated, err := ctrl.productService.UpdateProduct(product)
	if err != nil {
		respondProductError(c, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": updated,
	})
}

// SetAvailability toggles whether a product can be ordered (staff and up)
// PATCH /api/v1/products/:id/availability
func (ctrl *ProductController) SetAvailability(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Product ID must be a number")
		return
	}

	var req struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Availability flag is required")
		return
	}

	product, err := ctrl.productService.SetAvailability(uint(id), *req.Available)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product availability updated",
		"product": product,
	})
}

// DeleteProduct removes a catalog entry (admin)
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Product ID must be a number")
		return
	}

	if err := ctrl.productService.DeleteProduct(uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// PresignImageUpload issues a presigned S3 URL for a product image
// POST /api/v1/products/upload-url
func (ctrl *ProductController) PresignImageUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.s3Storage == nil {
		apperrors.Unavailable(c, "Image uploads are not configured")
		return
	}

	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Upload details are not valid")
		return
	}

	if err := ctrl.s3Storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Only JPEG, PNG and WebP images are allowed")
		return
	}
	if err := ctrl.s3Storage.ValidateFileSize(req.FileSize, maxImageSize); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Image must be 5MB or smaller")
		return
	}

	presigned, err := ctrl.s3Storage.GenerateProductImageURL(req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to generate presigned upload URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, presigned)
}
