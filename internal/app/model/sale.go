package model

import (
	"time"

	"github.com/lib/pq"
)

type Shift string // coarse time-of-day bucket for reporting

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftEvening   Shift = "evening"
	ShiftNight     Shift = "night"
)

// DeriveShift buckets a point in time into a shift:
// 05:00-11:59 morning, 12:00-16:59 afternoon, 17:00-20:59 evening, else night.
func DeriveShift(t time.Time) Shift {
	switch hour := t.Hour(); {
	case hour >= 5 && hour < 12:
		return ShiftMorning
	case hour >= 12 && hour < 17:
		return ShiftAfternoon
	case hour >= 17 && hour < 21:
		return ShiftEvening
	default:
		return ShiftNight
	}
}

// Sale is the immutable reporting record derived from a completed order.
// Only refund processing mutates it; it is never deleted.
type Sale struct {
	ID      uint `gorm:"primarykey" json:"id"`
	OrderID uint `gorm:"uniqueIndex;not null" json:"order_id"`

	OrderNumber   string        `gorm:"not null;index" json:"order_number"`
	CustomerID    uint          `gorm:"index" json:"customer_id"`
	StaffID       *uint         `gorm:"index" json:"staff_id,omitempty"`
	Subtotal      float64       `gorm:"not null" json:"subtotal"`
	Tax           float64       `gorm:"not null" json:"tax"`
	Discount      float64       `gorm:"default:0" json:"discount"`
	Tip           float64       `gorm:"default:0" json:"tip"`
	Total         float64       `gorm:"not null" json:"total"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null;index" json:"payment_method"`

	Shift             Shift          `gorm:"type:varchar(10);not null;index" json:"shift"`
	Location          string         `gorm:"type:varchar(100)" json:"location,omitempty"`
	PromotionsApplied pq.StringArray `gorm:"type:text[]" json:"promotions_applied,omitempty"`

	Refunded     bool       `gorm:"default:false;index" json:"refunded"`
	RefundDate   *time.Time `json:"refund_date,omitempty"`
	RefundAmount float64    `gorm:"default:0" json:"refund_amount,omitempty"`
	RefundReason string     `gorm:"type:text" json:"refund_reason,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Staff *User  `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

func (Sale) TableName() string {
	return "sales"
}
