package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// Clients map these codes to their own messaging.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenMissing       = "AUTH_TOKEN_MISSING"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthAccountDeactivated = "AUTH_ACCOUNT_DEACTIVATED"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION"
	OrderEmptyItems        = "ORDER_EMPTY_ITEMS"
	OrderNumberConflict    = "ORDER_NUMBER_CONFLICT"

	// ==================== Sales (SALE_) ====================
	SaleNotFound        = "SALE_NOT_FOUND"
	SaleDuplicate       = "SALE_DUPLICATE"
	SaleAlreadyRefunded = "SALE_ALREADY_REFUNDED"

	// ==================== Products (PRODUCT_) ====================
	ProductNotFound        = "PRODUCT_NOT_FOUND"
	ProductUnavailable     = "PRODUCT_UNAVAILABLE"
	ProductInvalidSize     = "PRODUCT_INVALID_SIZE"
	ProductSizesRequired   = "PRODUCT_SIZES_REQUIRED"
	ProductSizesForbidden  = "PRODUCT_SIZES_FORBIDDEN"

	// ==================== Inventory (INVENTORY_) ====================
	InventoryNotFound          = "INVENTORY_NOT_FOUND"
	InventoryInsufficientStock = "INVENTORY_INSUFFICIENT_STOCK"
	InventoryDuplicateProduct  = "INVENTORY_DUPLICATE_PRODUCT"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	ServiceUnavailable    = "SERVICE_UNAVAILABLE"
)
