package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/brewtab/coffeehouse-backend/internal/app/service"
	"github.com/brewtab/coffeehouse-backend/pkg/logger"
)

// InventoryScheduler runs the daily stock check: anything at or below its
// reorder level, and anything expiring within the next week, gets logged so
// the morning shift sees it.
type InventoryScheduler struct {
	cron             *cron.Cron
	inventoryService service.InventoryService
}

func NewInventoryScheduler(inventoryService service.InventoryService) *InventoryScheduler {
	return &InventoryScheduler{
		cron:             cron.New(),
		inventoryService: inventoryService,
	}
}

// Start schedules the check for 6:00 every morning, before opening.
func (s *InventoryScheduler) Start() error {
	_, err := s.cron.AddFunc("0 6 * * *", s.runCheck)
	if err != nil {
		logger.Error("Failed to add cron job for inventory check", err)
		return err
	}

	s.cron.Start()
	logger.Info("Inventory scheduler started (daily at 6:00 AM)", nil)
	return nil
}

func (s *InventoryScheduler) runCheck() {
	logger.Info("Starting scheduled inventory check", nil)

	lowStock, err := s.inventoryService.LowStockItems()
	if err != nil {
		logger.Error("Failed to check low-stock inventory", err)
	} else {
		for _, item := range lowStock {
			fields := map[string]interface{}{
				"inventory_id":     item.ID,
				"product_id":       item.ProductID,
				"current_stock":    item.CurrentStock,
				"reorder_level":    item.ReorderLevel,
				"reorder_quantity": item.ReorderQuantity,
			}
			if item.Product != nil {
				fields["product_name"] = item.Product.Name
			}
			logger.Warn("Low stock alert", fields)
		}
		logger.Info("Low-stock check finished", map[string]interface{}{
			"alerts": len(lowStock),
		})
	}

	expiring, err := s.inventoryService.ExpiringSoon(7 * 24 * time.Hour)
	if err != nil {
		logger.Error("Failed to check expiring inventory", err)
		return
	}
	for _, item := range expiring {
		fields := map[string]interface{}{
			"inventory_id":    item.ID,
			"product_id":      item.ProductID,
			"expiration_date": item.ExpirationDate,
		}
		if item.Product != nil {
			fields["product_name"] = item.Product.Name
		}
		logger.Warn("Expiration alert", fields)
	}
	logger.Info("Expiration check finished", map[string]interface{}{
		"alerts": len(expiring),
	})
}

// Stop halts the scheduler.
func (s *InventoryScheduler) Stop() {
	logger.Info("Stopping inventory scheduler...", nil)
	s.cron.Stop()
	logger.Info("Inventory scheduler stopped", nil)
}
