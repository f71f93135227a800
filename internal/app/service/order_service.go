package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/app/repository"
	apperrors "github.com/brewtab/coffeehouse-backend/internal/errors"
	"github.com/brewtab/coffeehouse-backend/internal/validation"
	"github.com/brewtab/coffeehouse-backend/pkg/logger"
	"github.com/brewtab/coffeehouse-backend/pkg/util"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrEmptyOrder              = errors.New("order has no items")
	ErrProductUnavailable      = errors.New("product is not available")
	ErrInvalidSize             = errors.New("invalid size for product")
	ErrInvalidCustomization    = errors.New("invalid customization option")
	ErrInvalidQuantity         = errors.New("quantity must be at least 1")
	ErrInvalidTransition       = errors.New("invalid order status transition")
	ErrDeliveryAddressRequired = errors.New("delivery orders require an address")
	ErrExcessiveDiscount       = errors.New("discount exceeds order value")
	ErrNotOrderOwner           = errors.New("order belongs to another customer")
)

// OrderEvent is broadcast to the staff order board whenever an order is
// created or changes status.
type OrderEvent struct {
	OrderID     uint              `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Status      model.OrderStatus `json:"status"`
	OrderType   model.OrderType   `json:"order_type"`
	Total       float64           `json:"total"`
	Timestamp   time.Time         `json:"timestamp"`
}

// OrderNotifier receives order events. Implementations must not block.
type OrderNotifier interface {
	NotifyOrderEvent(event OrderEvent)
}

// Pricing is the money breakdown of an order before persistence.
type Pricing struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Tip      float64 `json:"tip"`
	Total    float64 `json:"total"`
}

// CustomizationChoice selects one option from one of the product's
// customization groups.
type CustomizationChoice struct {
	GroupName string `json:"group_name" binding:"required"`
	Option    string `json:"option" binding:"required"`
}

type OrderItemInput struct {
	ProductID           uint                  `json:"product_id" binding:"required"`
	Size                string                `json:"size"`
	Quantity            int                   `json:"quantity" binding:"required,min=1"`
	Customizations      []CustomizationChoice `json:"customizations"`
	SpecialInstructions string                `json:"special_instructions"`
}

type CreateOrderInput struct {
	Items                []OrderItemInput    `json:"items" binding:"required,min=1"`
	PaymentMethod        model.PaymentMethod `json:"payment_method" binding:"required"`
	OrderType            model.OrderType     `json:"order_type"`
	DeliveryAddress      string              `json:"delivery_address"`
	DeliveryInstructions string              `json:"delivery_instructions"`
	Discount             float64             `json:"discount"`
	Tip                  float64             `json:"tip"`
}

type OrderService interface {
	CreateOrder(customerID uint, input CreateOrderInput) (*model.Order, error)
	GetOrderByID(orderID uint) (*model.Order, error)
	GetOrderByNumber(orderNumber string) (*model.Order, error)
	GetCustomerOrders(customerID uint) ([]model.Order, error)
	GetOrders(status model.OrderStatus) ([]model.Order, error)
	GetActiveOrders() ([]model.Order, error)
	TransitionStatus(orderID uint, next model.OrderStatus, staffID *uint) (*model.Order, error)
	UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error
}

type orderService struct {
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	saleRepo        repository.SaleRepository
	userRepo        repository.UserRepository
	db              *gorm.DB
	taxRate         float64
	loyaltyEarnRate float64
	notifier        OrderNotifier
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
	taxRate float64,
	loyaltyEarnRate float64,
	notifier OrderNotifier,
) OrderService {
	return &orderService{
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		saleRepo:        saleRepo,
		userRepo:        userRepo,
		db:              db,
		taxRate:         taxRate,
		loyaltyEarnRate: loyaltyEarnRate,
		notifier:        notifier,
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputePricing derives the money breakdown from an item subtotal.
// Total is always subtotal + tax - discount + tip.
func ComputePricing(subtotal, discount, tip, taxRate float64) (Pricing, error) {
	if discount < 0 || tip < 0 {
		return Pricing{}, ErrExcessiveDiscount
	}
	tax := roundCents(subtotal * taxRate)
	total := roundCents(subtotal + tax - discount + tip)
	if total < 0 {
		return Pricing{}, ErrExcessiveDiscount
	}
	return Pricing{
		Subtotal: roundCents(subtotal),
		Tax:      tax,
		Discount: roundCents(discount),
		Tip:      roundCents(tip),
		Total:    total,
	}, nil
}

// CalculateLoyaltyPoints converts an order total into earned points,
// rounded down to whole points.
func CalculateLoyaltyPoints(total, earnRate float64) int {
	if total <= 0 || earnRate <= 0 {
		return 0
	}
	return int(math.Floor(total * earnRate))
}

// resolveItem prices one requested item against the live product catalog and
// produces the immutable order item snapshot.
func resolveItem(product *model.Product, input OrderItemInput) (model.OrderItem, error) {
	if input.Quantity < 1 {
		return model.OrderItem{}, ErrInvalidQuantity
	}
	if !product.IsAvailable {
		return model.OrderItem{}, ErrProductUnavailable
	}

	unitPrice, ok := product.PriceForSize(input.Size)
	if !ok {
		return model.OrderItem{}, ErrInvalidSize
	}

	var snapshots []string
	for _, choice := range input.Customizations {
		var matched *model.CustomizationOption
		for gi := range product.Customizations {
			group := &product.Customizations[gi]
			if group.Name != choice.GroupName {
				continue
			}
			for oi := range group.Options {
				if group.Options[oi].Name == choice.Option {
					matched = &group.Options[oi]
					break
				}
			}
			break
		}
		if matched == nil {
			return model.OrderItem{}, ErrInvalidCustomization
		}
		unitPrice += matched.Price
		snapshots = append(snapshots, fmt.Sprintf("%s: %s (+%.2f)", choice.GroupName, choice.Option, matched.Price))
	}

	size := input.Size
	if !product.Category.RequiresSizes() {
		size = ""
	}

	return model.OrderItem{
		ProductID:             product.ID,
		Name:                  product.Name,
		Size:                  size,
		UnitPrice:             roundCents(unitPrice),
		Quantity:              input.Quantity,
		Total:                 roundCents(unitPrice * float64(input.Quantity)),
		CustomizationSnapshot: strings.Join(snapshots, "; "),
		SpecialInstructions:   input.SpecialInstructions,
	}, nil
}

func (s *orderService) CreateOrder(customerID uint, input CreateOrderInput) (*model.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	if input.OrderType == "" {
		input.OrderType = model.OrderTypePickup
	}
	if input.OrderType == model.OrderTypeDelivery && input.DeliveryAddress == "" {
		logger.Warn("Delivery order missing address", map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, ErrDeliveryAddressRequired
	}

	logger.Info("Creating order", map[string]interface{}{
		"customer_id": customerID,
		"item_count":  len(input.Items),
		"order_type":  input.OrderType,
	})

	customer, err := s.userRepo.FindByID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var (
		items    []model.OrderItem
		subtotal float64
		prepTime int
	)
	for _, itemInput := range input.Items {
		product, err := s.productRepo.FindByID(itemInput.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product not found during order creation", map[string]interface{}{
					"customer_id": customerID,
					"product_id":  itemInput.ProductID,
				})
				return nil, ErrProductNotFound
			}
			return nil, err
		}

		item, err := resolveItem(product, itemInput)
		if err != nil {
			logger.Warn("Order item rejected", map[string]interface{}{
				"customer_id": customerID,
				"product_id":  itemInput.ProductID,
				"reason":      err.Error(),
			})
			return nil, err
		}

		items = append(items, item)
		subtotal += item.Total
		if product.PreparationTime > prepTime {
			prepTime = product.PreparationTime
		}
	}

	pricing, err := ComputePricing(subtotal, input.Discount, input.Tip, s.taxRate)
	if err != nil {
		logger.Warn("Order pricing rejected", map[string]interface{}{
			"customer_id": customerID,
			"subtotal":    subtotal,
			"discount":    input.Discount,
		})
		return nil, err
	}

	now := time.Now()
	readyEstimate := now.Add(time.Duration(prepTime) * time.Minute)

	order := &model.Order{
		OrderNumber:          util.GenerateOrderNumber(),
		CustomerID:           customer.ID,
		CustomerName:         customer.Name,
		CustomerEmail:        customer.Email,
		CustomerPhone:        customer.Phone,
		Subtotal:             pricing.Subtotal,
		Tax:                  pricing.Tax,
		Discount:             pricing.Discount,
		Tip:                  pricing.Tip,
		Total:                pricing.Total,
		PaymentMethod:        input.PaymentMethod,
		PaymentStatus:        model.PaymentStatusPending,
		OrderType:            input.OrderType,
		Status:               model.OrderStatusPending,
		DeliveryAddress:      input.DeliveryAddress,
		DeliveryInstructions: input.DeliveryInstructions,
		EstimatedPrepTime:    prepTime,
		EstimatedReadyTime:   &readyEstimate,
		Items:                items,
	}

	if err := validation.Validate(order); err != nil {
		logger.Warn("Order failed validation", map[string]interface{}{
			"customer_id": customerID,
			"errors":      err.Error(),
		})
		return nil, err
	}

	if err := s.orderRepo.Create(order); err != nil {
		// Order numbers carry a random suffix, so a collision is rare.
		// Regenerate once before giving up.
		if apperrors.IsUniqueViolation(err) {
			logger.Warn("Order number collision, regenerating", map[string]interface{}{
				"order_number": order.OrderNumber,
			})
			order.ID = 0
			order.OrderNumber = util.GenerateOrderNumber()
			err = s.orderRepo.Create(order)
		}
		if err != nil {
			logger.Error("Failed to create order", err, map[string]interface{}{
				"customer_id": customerID,
			})
			return nil, err
		}
	}

	logger.Info("Order created", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Total,
	})

	s.notify(order)
	return order, nil
}

func (s *orderService) GetOrderByID(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrderByNumber(orderNumber string) (*model.Order, error) {
	order, err := s.orderRepo.FindByOrderNumber(orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetCustomerOrders(customerID uint) ([]model.Order, error) {
	return s.orderRepo.FindByCustomerID(customerID)
}

func (s *orderService) GetOrders(status model.OrderStatus) ([]model.Order, error) {
	return s.orderRepo.FindAll(status)
}

func (s *orderService) GetActiveOrders() ([]model.Order, error) {
	return s.orderRepo.FindActive()
}

func (s *orderService) TransitionStatus(orderID uint, next model.OrderStatus, staffID *uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		logger.Warn("Rejected order status transition", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       next,
		})
		return nil, ErrInvalidTransition
	}

	logger.Info("Transitioning order status", map[string]interface{}{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
		"from":         order.Status,
		"to":           next,
	})

	if next == model.OrderStatusCompleted {
		if err := s.completeOrder(order, staffID); err != nil {
			return nil, err
		}
	} else {
		if err := s.orderRepo.UpdateStatus(orderID, next, staffID); err != nil {
			return nil, err
		}
	}

	updated, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}

	s.notify(updated)
	return updated, nil
}

// completeOrder closes the order and records its sale in one transaction so
// a completed order can never be left without a sale record.
func (s *orderService) completeOrder(order *model.Order, staffID *uint) error {
	now := time.Now()
	points := CalculateLoyaltyPoints(order.Total, s.loyaltyEarnRate)

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order completion, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"order_id": order.ID,
			})
		}
	}()

	updates := map[string]interface{}{
		"status":                model.OrderStatusCompleted,
		"payment_status":        model.PaymentStatusCompleted,
		"loyalty_points_earned": points,
	}
	if staffID != nil {
		updates["assigned_staff_id"] = *staffID
	}
	if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to complete order", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}

	resolvedStaff := staffID
	if resolvedStaff == nil {
		resolvedStaff = order.AssignedStaffID
	}

	sale := &model.Sale{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.CustomerID,
		StaffID:       resolvedStaff,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Discount:      order.Discount,
		Tip:           order.Tip,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		Shift:         model.DeriveShift(now),
	}
	if err := s.saleRepo.CreateInTx(tx, sale); err != nil {
		tx.Rollback()
		if apperrors.IsUniqueViolation(err) {
			return ErrDuplicateSale
		}
		return err
	}

	if points > 0 {
		if err := tx.Model(&model.User{}).
			Where("id = ?", order.CustomerID).
			Update("loyalty_points", gorm.Expr("loyalty_points + ?", points)).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to award loyalty points", err, map[string]interface{}{
				"order_id":    order.ID,
				"customer_id": order.CustomerID,
			})
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order completion", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}

	logger.Info("Order completed and sale recorded", map[string]interface{}{
		"order_id":       order.ID,
		"order_number":   order.OrderNumber,
		"sale_id":        sale.ID,
		"shift":          sale.Shift,
		"loyalty_earned": points,
	})
	return nil
}

func (s *orderService) UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error {
	if _, err := s.orderRepo.FindByID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return s.orderRepo.UpdatePaymentStatus(orderID, status)
}

func (s *orderService) notify(order *model.Order) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyOrderEvent(OrderEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		OrderType:   order.OrderType,
		Total:       order.Total,
		Timestamp:   time.Now(),
	})
}
