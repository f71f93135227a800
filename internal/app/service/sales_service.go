package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/app/repository"
	apperrors "github.com/brewtab/coffeehouse-backend/internal/errors"
	"github.com/brewtab/coffeehouse-backend/pkg/logger"
)

var (
	ErrSaleNotFound       = errors.New("sale not found")
	ErrDuplicateSale      = errors.New("sale already recorded for order")
	ErrAlreadyRefunded    = errors.New("sale already refunded")
	ErrOrderNotCompleted  = errors.New("order is not completed")
	ErrInvalidRefund      = errors.New("refund amount exceeds sale total")
	ErrInvalidReportRange = errors.New("report end must be after start")
)

// HourlyStat is sales volume within one clock hour of the reporting range.
type HourlyStat struct {
	Hour    int     `json:"hour"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// SalesReport is the full reporting payload for a date range.
type SalesReport struct {
	Start          time.Time                      `json:"start"`
	End            time.Time                      `json:"end"`
	Summary        repository.SalesSummary        `json:"summary"`
	PaymentMethods []repository.PaymentMethodStat `json:"payment_methods"`
	TopProducts    []repository.ProductStat       `json:"top_products"`
	Hourly         []HourlyStat                   `json:"hourly"`
}

type SalesService interface {
	RecordSale(order *model.Order, staffID *uint) (*model.Sale, error)
	GetSaleByID(id uint) (*model.Sale, error)
	GetSaleByOrderID(orderID uint) (*model.Sale, error)
	ProcessRefund(saleID uint, amount float64, reason string) (*model.Sale, error)
	DailySales(day time.Time) ([]model.Sale, error)
	RecentSales(limit int) ([]model.Sale, error)
	SalesByDateRange(start, end time.Time) ([]model.Sale, error)
	Report(start, end time.Time) (*SalesReport, error)
	TopSellingProducts(start, end time.Time, limit int) ([]repository.ProductStat, error)
	StaffPerformance(start, end time.Time) ([]repository.StaffStat, error)
	ExportReport(start, end time.Time) (*excelize.File, error)
}

type salesService struct {
	saleRepo repository.SaleRepository
}

func NewSalesService(saleRepo repository.SaleRepository) SalesService {
	return &salesService{saleRepo: saleRepo}
}

// RecordSale derives a sale record from a completed order. Recording the
// same order twice returns ErrDuplicateSale; the first record stands.
func (s *salesService) RecordSale(order *model.Order, staffID *uint) (*model.Sale, error) {
	if order.Status != model.OrderStatusCompleted {
		logger.Warn("Refused to record sale for incomplete order", map[string]interface{}{
			"order_id": order.ID,
			"status":   order.Status,
		})
		return nil, ErrOrderNotCompleted
	}

	sale := &model.Sale{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.CustomerID,
		StaffID:       staffID,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Discount:      order.Discount,
		Tip:           order.Tip,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		Shift:         model.DeriveShift(time.Now()),
	}

	if err := s.saleRepo.Create(sale); err != nil {
		if apperrors.IsUniqueViolation(err) {
			logger.Warn("Duplicate sale rejected", map[string]interface{}{
				"order_id": order.ID,
			})
			return nil, ErrDuplicateSale
		}
		return nil, err
	}

	logger.Info("Sale recorded", map[string]interface{}{
		"sale_id":  sale.ID,
		"order_id": order.ID,
		"total":    sale.Total,
		"shift":    sale.Shift,
	})
	return sale, nil
}

func (s *salesService) GetSaleByID(id uint) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

func (s *salesService) GetSaleByOrderID(orderID uint) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

// ProcessRefund annotates a sale as refunded. The sale row is kept so the
// reporting history stays complete; refunded rows just drop out of revenue.
func (s *salesService) ProcessRefund(saleID uint, amount float64, reason string) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}

	if sale.Refunded {
		logger.Warn("Refund rejected: sale already refunded", map[string]interface{}{
			"sale_id": saleID,
		})
		return nil, ErrAlreadyRefunded
	}

	if amount <= 0 {
		amount = sale.Total
	}
	if amount > sale.Total {
		return nil, ErrInvalidRefund
	}

	now := time.Now()
	sale.Refunded = true
	sale.RefundDate = &now
	sale.RefundAmount = amount
	sale.RefundReason = reason

	if err := s.saleRepo.Update(sale); err != nil {
		return nil, err
	}

	logger.Info("Sale refunded", map[string]interface{}{
		"sale_id":       saleID,
		"order_id":      sale.OrderID,
		"refund_amount": amount,
	})
	return sale, nil
}

func (s *salesService) DailySales(day time.Time) ([]model.Sale, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return s.saleRepo.FindByDateRange(start, start.Add(24*time.Hour))
}

func (s *salesService) RecentSales(limit int) ([]model.Sale, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.saleRepo.FindRecent(limit)
}

func (s *salesService) SalesByDateRange(start, end time.Time) ([]model.Sale, error) {
	if !end.After(start) {
		return nil, ErrInvalidReportRange
	}
	return s.saleRepo.FindByDateRange(start, end)
}

func (s *salesService) Report(start, end time.Time) (*SalesReport, error) {
	if !end.After(start) {
		return nil, ErrInvalidReportRange
	}

	logger.Debug("Building sales report", map[string]interface{}{
		"start": start,
		"end":   end,
	})

	summary, err := s.saleRepo.Summary(start, end)
	if err != nil {
		return nil, err
	}

	payments, err := s.saleRepo.PaymentMethodBreakdown(start, end)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.saleRepo.TopProducts(start, end, 10)
	if err != nil {
		return nil, err
	}

	hourly, err := s.hourlySales(start, end)
	if err != nil {
		return nil, err
	}

	return &SalesReport{
		Start:          start,
		End:            end,
		Summary:        *summary,
		PaymentMethods: payments,
		TopProducts:    topProducts,
		Hourly:         hourly,
	}, nil
}

// hourlySales buckets sales by clock hour in Go so the report works the same
// on every database backend.
func (s *salesService) hourlySales(start, end time.Time) ([]HourlyStat, error) {
	sales, err := s.saleRepo.FindByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	buckets := make(map[int]*HourlyStat)
	for _, sale := range sales {
		if sale.Refunded {
			continue
		}
		hour := sale.CreatedAt.Hour()
		bucket, ok := buckets[hour]
		if !ok {
			bucket = &HourlyStat{Hour: hour}
			buckets[hour] = bucket
		}
		bucket.Count++
		bucket.Revenue += sale.Total
	}

	stats := make([]HourlyStat, 0, len(buckets))
	for hour := 0; hour < 24; hour++ {
		if bucket, ok := buckets[hour]; ok {
			stats = append(stats, *bucket)
		}
	}
	return stats, nil
}

func (s *salesService) TopSellingProducts(start, end time.Time, limit int) ([]repository.ProductStat, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.saleRepo.TopProducts(start, end, limit)
}

func (s *salesService) StaffPerformance(start, end time.Time) ([]repository.StaffStat, error) {
	return s.saleRepo.StaffPerformance(start, end)
}

// ExportReport renders the reporting payload as an XLSX workbook with a
// summary sheet and a raw sales sheet.
func (s *salesService) ExportReport(start, end time.Time) (*excelize.File, error) {
	report, err := s.Report(start, end)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	summarySheet := "Summary"
	f.SetSheetName("Sheet1", summarySheet)

	rows := [][]interface{}{
		{"Period", fmt.Sprintf("%s - %s", start.Format("2006-01-02"), end.Format("2006-01-02"))},
		{"Sales", report.Summary.Count},
		{"Revenue", report.Summary.TotalRevenue},
		{"Tax", report.Summary.TotalTax},
		{"Tips", report.Summary.TotalTips},
		{"Discounts", report.Summary.TotalDiscounts},
		{"Average order value", report.Summary.AvgOrderValue},
		{"Refunds", report.Summary.RefundedCount},
		{"Refunded amount", report.Summary.RefundedAmount},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	salesSheet := "Sales"
	if _, err := f.NewSheet(salesSheet); err != nil {
		return nil, err
	}
	header := []interface{}{"Order Number", "Date", "Shift", "Payment", "Subtotal", "Tax", "Discount", "Tip", "Total", "Refunded"}
	if err := f.SetSheetRow(salesSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, sale := range sales {
		row := []interface{}{
			sale.OrderNumber,
			sale.CreatedAt.Format("2006-01-02 15:04"),
			string(sale.Shift),
			string(sale.PaymentMethod),
			sale.Subtotal,
			sale.Tax,
			sale.Discount,
			sale.Tip,
			sale.Total,
			sale.Refunded,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(salesSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	logger.Info("Sales report exported", map[string]interface{}{
		"start": start,
		"end":   end,
		"rows":  len(sales),
	})
	return f, nil
}
