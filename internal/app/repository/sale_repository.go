package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/pkg/logger"
)

// SalesSummary aggregates a date range. Refunded sales are excluded from
// every aggregate; they are reported only through RefundedCount.
type SalesSummary struct {
	Count           int64   `json:"count"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalTax        float64 `json:"total_tax"`
	TotalTips       float64 `json:"total_tips"`
	TotalDiscounts  float64 `json:"total_discounts"`
	AvgOrderValue   float64 `json:"avg_order_value"`
	RefundedCount   int64   `json:"refunded_count"`
	RefundedAmount  float64 `json:"refunded_amount"`
}

// PaymentMethodStat is revenue broken down by payment method.
type PaymentMethodStat struct {
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Count         int64               `json:"count"`
	Revenue       float64             `json:"revenue"`
}

// ProductStat is a product's sold quantity and revenue within a range.
type ProductStat struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// StaffStat attributes completed sales to the staff member who closed them.
type StaffStat struct {
	StaffID uint    `json:"staff_id"`
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

type SaleRepository interface {
	Create(sale *model.Sale) error
	CreateInTx(tx *gorm.DB, sale *model.Sale) error
	FindByID(id uint) (*model.Sale, error)
	FindByOrderID(orderID uint) (*model.Sale, error)
	FindByDateRange(start, end time.Time) ([]model.Sale, error)
	FindRecent(limit int) ([]model.Sale, error)
	Update(sale *model.Sale) error
	Summary(start, end time.Time) (*SalesSummary, error)
	PaymentMethodBreakdown(start, end time.Time) ([]PaymentMethodStat, error)
	TopProducts(start, end time.Time, limit int) ([]ProductStat, error)
	StaffPerformance(start, end time.Time) ([]StaffStat, error)
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(sale *model.Sale) error {
	return r.CreateInTx(r.db, sale)
}

// CreateInTx inserts a sale inside an existing transaction so order
// completion and sale recording commit or roll back together.
func (r *saleRepository) CreateInTx(tx *gorm.DB, sale *model.Sale) error {
	logger.Debug("Recording sale in database", map[string]interface{}{
		"order_id":     sale.OrderID,
		"order_number": sale.OrderNumber,
		"total":        sale.Total,
		"shift":        sale.Shift,
	})

	if err := tx.Create(sale).Error; err != nil {
		logger.Error("Failed to record sale in database", err, map[string]interface{}{
			"order_id": sale.OrderID,
		})
		return err
	}

	logger.Debug("Sale recorded in database", map[string]interface{}{
		"sale_id":  sale.ID,
		"order_id": sale.OrderID,
	})
	return nil
}

func (r *saleRepository) FindByID(id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.First(&sale, id).Error; err != nil {
		logger.Error("Failed to find sale by ID in database", err, map[string]interface{}{
			"sale_id": id,
		})
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindByOrderID(orderID uint) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.Where("order_id = ?", orderID).First(&sale).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindByDateRange(start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	if err := r.db.Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&sales).Error; err != nil {
		logger.Error("Failed to find sales by date range in database", err, map[string]interface{}{
			"start": start,
			"end":   end,
		})
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) FindRecent(limit int) ([]model.Sale, error) {
	var sales []model.Sale
	if err := r.db.Order("created_at DESC").Limit(limit).
		Find(&sales).Error; err != nil {
		logger.Error("Failed to find recent sales in database", err, nil)
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) Update(sale *model.Sale) error {
	logger.Debug("Updating sale in database", map[string]interface{}{
		"sale_id":  sale.ID,
		"refunded": sale.Refunded,
	})

	if err := r.db.Save(sale).Error; err != nil {
		logger.Error("Failed to update sale in database", err, map[string]interface{}{
			"sale_id": sale.ID,
		})
		return err
	}
	return nil
}

func (r *saleRepository) inRange(start, end time.Time) *gorm.DB {
	return r.db.Model(&model.Sale{}).
		Where("created_at >= ? AND created_at < ?", start, end)
}

func (r *saleRepository) Summary(start, end time.Time) (*SalesSummary, error) {
	var summary SalesSummary

	err := r.inRange(start, end).
		Where("refunded = ?", false).
		Select("COUNT(*) as count, " +
			"COALESCE(SUM(total), 0) as total_revenue, " +
			"COALESCE(SUM(tax), 0) as total_tax, " +
			"COALESCE(SUM(tip), 0) as total_tips, " +
			"COALESCE(SUM(discount), 0) as total_discounts").
		Scan(&summary).Error
	if err != nil {
		logger.Error("Failed to aggregate sales summary in database", err, map[string]interface{}{
			"start": start,
			"end":   end,
		})
		return nil, err
	}

	if summary.Count > 0 {
		summary.AvgOrderValue = summary.TotalRevenue / float64(summary.Count)
	}

	var refunded struct {
		Count  int64
		Amount float64
	}
	err = r.inRange(start, end).
		Where("refunded = ?", true).
		Select("COUNT(*) as count, COALESCE(SUM(refund_amount), 0) as amount").
		Scan(&refunded).Error
	if err != nil {
		logger.Error("Failed to aggregate refunded sales in database", err, nil)
		return nil, err
	}
	summary.RefundedCount = refunded.Count
	summary.RefundedAmount = refunded.Amount

	return &summary, nil
}

func (r *saleRepository) PaymentMethodBreakdown(start, end time.Time) ([]PaymentMethodStat, error) {
	var stats []PaymentMethodStat
	err := r.inRange(start, end).
		Where("refunded = ?", false).
		Select("payment_method, COUNT(*) as count, COALESCE(SUM(total), 0) as revenue").
		Group("payment_method").
		Order("revenue DESC").
		Scan(&stats).Error
	if err != nil {
		logger.Error("Failed to aggregate payment-method breakdown in database", err, nil)
		return nil, err
	}
	return stats, nil
}

func (r *saleRepository) TopProducts(start, end time.Time, limit int) ([]ProductStat, error) {
	var stats []ProductStat
	err := r.db.Model(&model.Sale{}).
		Select("order_items.product_id as product_id, order_items.name as name, "+
			"SUM(order_items.quantity) as quantity, COALESCE(SUM(order_items.total), 0) as revenue").
		Joins("JOIN order_items ON order_items.order_id = sales.order_id").
		Where("sales.created_at >= ? AND sales.created_at < ?", start, end).
		Where("sales.refunded = ?", false).
		Group("order_items.product_id, order_items.name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&stats).Error
	if err != nil {
		logger.Error("Failed to aggregate top products in database", err, nil)
		return nil, err
	}
	return stats, nil
}

func (r *saleRepository) StaffPerformance(start, end time.Time) ([]StaffStat, error) {
	var stats []StaffStat
	err := r.db.Model(&model.Sale{}).
		Select("sales.staff_id as staff_id, users.name as name, "+
			"COUNT(*) as count, COALESCE(SUM(sales.total), 0) as revenue").
		Joins("JOIN users ON users.id = sales.staff_id").
		Where("sales.staff_id IS NOT NULL").
		Where("sales.created_at >= ? AND sales.created_at < ?", start, end).
		Where("sales.refunded = ?", false).
		Group("sales.staff_id, users.name").
		Order("revenue DESC").
		Scan(&stats).Error
	if err != nil {
		logger.Error("Failed to aggregate staff performance in database", err, nil)
		return nil, err
	}
	return stats, nil
}
