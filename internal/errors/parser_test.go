package errors

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError_RecordNotFound(t *testing.T) {
	info := ParseError(gorm.ErrRecordNotFound, "get order")
	assert.Equal(t, ResourceNotFound, info.Code)
	assert.Equal(t, "Order not found", info.Message)
}

func TestParseError_UniqueViolations(t *testing.T) {
	tests := []struct {
		constraint string
		wantCode   string
	}{
		{"idx_users_email", AuthEmailAlreadyExists},
		{"idx_orders_order_number", OrderNumberConflict},
		{"idx_sales_order_id", SaleDuplicate},
		{"idx_inventories_product_id", InventoryDuplicateProduct},
		{"some_other_key", ResourceAlreadyExists},
	}

	for _, tt := range tests {
		err := &pq.Error{Code: "23505", Constraint: tt.constraint}
		info := ParseError(err, "create")
		assert.Equal(t, tt.wantCode, info.Code, "constraint %s", tt.constraint)
	}
}

func TestParseError_NeverLeaksDriverText(t *testing.T) {
	err := errors.New(`pq: insert or update on table "orders" violates foreign key constraint "fk_orders_users"`)
	info := ParseError(err, "create order")
	assert.NotContains(t, info.Message, "pq:")
	assert.NotContains(t, info.Message, "fk_orders_users")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: orders.order_number")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
}

func TestParseError_Unavailable(t *testing.T) {
	info := ParseError(errors.New("dial tcp 127.0.0.1:5432: connection refused"), "create order")
	assert.Equal(t, ServiceUnavailable, info.Code)
}
