package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Postgres error classes we care about. See the PostgreSQL error code
// appendix for the full list.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo is the parsed, client-safe view of a storage error
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a storage-layer error into a stable code and a message
// that is safe to show to clients. Raw driver text never leaves this package.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return parseUniqueViolation(pqErr.Constraint)
		case pgForeignKeyViolation:
			return ErrorInfo{Code: ResourceNotFound, Message: "Referenced record does not exist"}
		case pgNotNullViolation:
			return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
		case pgCheckViolation:
			return ErrorInfo{Code: ValidationInvalidRange, Message: "A value is out of its allowed range"}
		}
	}

	// SQLite (tests) and other drivers surface constraint failures as text
	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "unique constraint") || strings.Contains(errLower, "duplicate key") {
		return parseUniqueViolation(errLower)
	}
	if strings.Contains(errLower, "check constraint") {
		return ErrorInfo{Code: ValidationInvalidRange, Message: "A value is out of its allowed range"}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{Code: ServiceUnavailable, Message: "Data store unreachable, please try again later"}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

// IsUniqueViolation reports whether the error is a duplicate-key rejection.
// Callers treat this as retryable (regenerate order number, report duplicate).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errLower := strings.ToLower(err.Error())
	return strings.Contains(errLower, "unique constraint") || strings.Contains(errLower, "duplicate key")
}

func parseUniqueViolation(detail string) ErrorInfo {
	detail = strings.ToLower(detail)

	switch {
	case strings.Contains(detail, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "This email is already registered"}
	case strings.Contains(detail, "order_number"):
		return ErrorInfo{Code: OrderNumberConflict, Message: "Order number collision, please retry"}
	case strings.Contains(detail, "order_id"):
		return ErrorInfo{Code: SaleDuplicate, Message: "A sale was already recorded for this order"}
	case strings.Contains(detail, "product_id"):
		return ErrorInfo{Code: InventoryDuplicateProduct, Message: "This product already has an inventory record"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists"}
}

// ParseAndRespond writes the parsed view of a storage error. The status code
// is the caller's fallback; not-found and conflict outcomes override it.
func ParseAndRespond(c *gin.Context, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	switch errorInfo.Code {
	case ResourceNotFound:
		statusCode = 404
	case AuthEmailAlreadyExists, OrderNumberConflict, SaleDuplicate,
		InventoryDuplicateProduct, ResourceAlreadyExists:
		statusCode = 409
	case ServiceUnavailable:
		statusCode = 503
	}
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "user"):
		return "User not found"
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "sale"):
		return "Sale not found"
	case strings.Contains(contextLower, "inventory"):
		return "Inventory record not found"
	}
	return "Requested record not found"
}

func defaultMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create the record, please try again later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update the record, please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete the record, please try again later"
	}
	return "Something went wrong, please try again later"
}
