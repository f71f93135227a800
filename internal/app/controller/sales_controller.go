package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brewtab/coffeehouse-backend/internal/app/service"
	apperrors "github.com/brewtab/coffeehouse-backend/internal/errors"
	"github.com/brewtab/coffeehouse-backend/internal/middleware"
)

const dateLayout = "2006-01-02"

type SalesController struct {
	salesService service.SalesService
}

func NewSalesController(salesService service.SalesService) *SalesController {
	return &SalesController{salesService: salesService}
}

type RefundRequest struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason" binding:"required"`
}

// parseDateRange reads ?start= and ?end= (inclusive days) and returns
// the half-open window covering them. Defaults to today.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q", raw)
		}
		start = parsed
		end = start.AddDate(0, 0, 1)
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q", raw)
		}
		end = parsed.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// GetDailySales lists the sales recorded on one day
// GET /api/v1/sales/daily?date=2026-01-15
func (ctrl *SalesController) GetDailySales(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, day.Location())
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Date must be formatted as YYYY-MM-DD")
			return
		}
		day = parsed
	}

	sales, err := ctrl.salesService.DailySales(day)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "daily sales")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  day.Format(dateLayout),
		"sales": sales,
		"count": len(sales),
	})
}

// GetRecentSales lists the latest sales for the register view
// GET /api/v1/sales/recent?limit=20
func (ctrl *SalesController) GetRecentSales(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Limit must be a positive number")
			return
		}
		limit = parsed
	}

	sales, err := ctrl.salesService.RecentSales(limit)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "recent sales")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sales": sales,
		"count": len(sales),
	})
}

// GetReport builds the aggregate sales report for a date range
// GET /api/v1/sales/report?start=2026-01-01&end=2026-01-31
func (ctrl *SalesController) GetReport(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	report, err := ctrl.salesService.Report(start, end)
	if err != nil {
		if errors.Is(err, service.ErrInvalidReportRange) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Report range end must be after its start")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "sales report")
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetTopProducts lists the best selling products in a date range
// GET /api/v1/sales/top-products?start=...&end=...&limit=10
func (ctrl *SalesController) GetTopProducts(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Limit must be a positive number")
			return
		}
	}

	products, err := ctrl.salesService.TopSellingProducts(start, end, limit)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "top products")
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetStaffPerformance aggregates completed sales per staff member
// GET /api/v1/sales/staff-performance?start=...&end=...
func (ctrl *SalesController) GetStaffPerformance(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	stats, err := ctrl.salesService.StaffPerformance(start, end)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "staff performance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"staff": stats})
}

// GetSale returns one sale record
// GET /api/v1/sales/:id
func (ctrl *SalesController) GetSale(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Sale ID must be a number")
		return
	}

	sale, err := ctrl.salesService.GetSaleByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrSaleNotFound) {
			apperrors.NotFound(c, apperrors.SaleNotFound, "Sale not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get sale")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sale": sale})
}

// ProcessRefund annotates a sale as refunded without deleting the record
// POST /api/v1/sales/:id/refund
func (ctrl *SalesController) ProcessRefund(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Sale ID must be a number")
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "A refund reason is required")
		return
	}

	sale, err := ctrl.salesService.ProcessRefund(uint(id), req.Amount, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSaleNotFound):
			apperrors.NotFound(c, apperrors.SaleNotFound, "Sale not found")
		case errors.Is(err, service.ErrAlreadyRefunded):
			apperrors.Conflict(c, apperrors.SaleAlreadyRefunded, "This sale was already refunded")
		case errors.Is(err, service.ErrInvalidRefund):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Refund amount cannot exceed the sale total")
		default:
			log.Error("Refund failed", err, map[string]interface{}{
				"sale_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "process refund")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Refund recorded",
		"sale":    sale,
	})
}

// ExportReport streams the sales report for a date range as an xlsx workbook
// GET /api/v1/sales/export?start=...&end=...
func (ctrl *SalesController) ExportReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	start, end, err := parseDateRange(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	file, err := ctrl.salesService.ExportReport(start, end)
	if err != nil {
		if errors.Is(err, service.ErrInvalidReportRange) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Report range end must be after its start")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export report")
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("sales-%s-%s.xlsx", start.Format(dateLayout), end.AddDate(0, 0, -1).Format(dateLayout))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Transfer-Encoding", "binary")

	if err := file.Write(c.Writer); err != nil {
		log.Error("Report download interrupted", err, map[string]interface{}{
			"start": start.Format(dateLayout),
			"end":   end.Format(dateLayout),
		})
	}
}
