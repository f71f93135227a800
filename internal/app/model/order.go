package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string   // fulfillment status code
type PaymentStatus string // payment status code
type PaymentMethod string // how the order is paid
type OrderType string     // how the order is handed over

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"

	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"

	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodMobile   PaymentMethod = "mobile"
	PaymentMethodGiftCard PaymentMethod = "gift-card"

	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
	OrderTypeDineIn   OrderType = "dine-in"
)

// statusTransitions is the legal forward chain. Cancellation is handled
// separately: it is reachable from any non-terminal state.
var statusTransitions = map[OrderStatus]OrderStatus{
	OrderStatusPending:   OrderStatusConfirmed,
	OrderStatusConfirmed: OrderStatusPreparing,
	OrderStatusPreparing: OrderStatusReady,
	OrderStatusReady:     OrderStatusCompleted,
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if next == OrderStatusCancelled {
		return !s.IsTerminal()
	}
	return statusTransitions[s] == next
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobile, PaymentMethodGiftCard:
		return true
	}
	return false
}

func (t OrderType) IsValid() bool {
	switch t {
	case OrderTypePickup, OrderTypeDelivery, OrderTypeDineIn:
		return true
	}
	return false
}

type Order struct {
	ID          uint `gorm:"primarykey" json:"id"`
	OrderNumber string `gorm:"type:varchar(11);uniqueIndex;not null" json:"order_number" validate:"required,ordernumber"`
	CustomerID  uint `gorm:"not null;index" json:"customer_id"`

	// Customer snapshot taken at checkout so the ticket survives profile edits
	CustomerName  string `gorm:"not null" json:"customer_name"`
	CustomerEmail string `gorm:"not null" json:"customer_email"`
	CustomerPhone string `json:"customer_phone,omitempty"`

	Subtotal float64 `gorm:"not null;check:subtotal >= 0" json:"subtotal" validate:"gte=0"`
	Tax      float64 `gorm:"not null;check:tax >= 0" json:"tax" validate:"gte=0"`
	Discount float64 `gorm:"default:0;check:discount >= 0" json:"discount" validate:"gte=0"`
	Tip      float64 `gorm:"default:0;check:tip >= 0" json:"tip" validate:"gte=0"`
	Total    float64 `gorm:"not null;check:total >= 0" json:"total" validate:"gte=0"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method" validate:"required,paymentmethod"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`

	OrderType            OrderType   `gorm:"type:varchar(20);default:'pickup'" json:"order_type" validate:"required,ordertype"`
	Status               OrderStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Priority             int         `gorm:"default:0" json:"priority"`
	DeliveryAddress      string      `gorm:"type:text" json:"delivery_address,omitempty"`
	DeliveryInstructions string      `gorm:"type:text" json:"delivery_instructions,omitempty"`

	EstimatedPrepTime  int        `json:"estimated_prep_time,omitempty"` // minutes
	EstimatedReadyTime *time.Time `json:"estimated_ready_time,omitempty"`
	ActualReadyTime    *time.Time `json:"actual_ready_time,omitempty"`

	AssignedStaffID *uint `gorm:"index" json:"assigned_staff_id,omitempty"`

	LoyaltyPointsUsed   int `gorm:"default:0;check:loyalty_points_used >= 0" json:"loyalty_points_used"`
	LoyaltyPointsEarned int `gorm:"default:0;check:loyalty_points_earned >= 0" json:"loyalty_points_earned"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Customer      *User       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	AssignedStaff *User       `gorm:"foreignKey:AssignedStaffID" json:"assigned_staff,omitempty"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty" validate:"required,min=1,dive"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint `gorm:"primarykey" json:"id"`
	OrderID   uint `gorm:"not null;index" json:"order_id"`
	ProductID uint `gorm:"not null;index" json:"product_id"`

	// Snapshot of the product at checkout
	Name      string  `gorm:"not null" json:"name"`
	Size      string  `gorm:"type:varchar(20)" json:"size,omitempty"`
	UnitPrice float64 `gorm:"not null;check:unit_price >= 0" json:"unit_price" validate:"gte=0"`
	Quantity  int     `gorm:"not null;check:quantity >= 1" json:"quantity" validate:"gte=1"`
	Total     float64 `gorm:"not null;check:total >= 0" json:"total" validate:"gte=0"`

	CustomizationSnapshot string `gorm:"type:text" json:"customizations,omitempty"` // "Milk: oat (+0.50); Shots: double (+1.00)"
	SpecialInstructions   string `gorm:"type:text" json:"special_instructions,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
