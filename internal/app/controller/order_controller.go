package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/app/service"
	apperrors "github.com/brewtab/coffeehouse-backend/internal/errors"
	"github.com/brewtab/coffeehouse-backend/internal/middleware"
	"github.com/brewtab/coffeehouse-backend/internal/validation"
	"github.com/brewtab/coffeehouse-backend/internal/websocket"
)

type OrderController struct {
	orderService service.OrderService
	hub          *websocket.Hub
}

func NewOrderController(orderService service.OrderService, hub *websocket.Hub) *OrderController {
	return &OrderController{
		orderService: orderService,
		hub:          hub,
	}
}

type TransitionRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// staffRole reports whether the caller can act on other customers' orders.
func staffRole(role model.UserRole) bool {
	switch role {
	case model.RoleStaff, model.RoleManager, model.RoleAdmin:
		return true
	}
	return false
}

// CreateOrder places an order for the authenticated customer
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var input service.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Order details are not valid")
		return
	}

	order, err := ctrl.orderService.CreateOrder(userID, input)
	if err != nil {
		var fieldErrs validation.FieldErrors
		switch {
		case errors.Is(err, service.ErrEmptyOrder):
			apperrors.BadRequest(c, apperrors.OrderEmptyItems, "An order needs at least one item")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "One of the ordered products does not exist")
		case errors.Is(err, service.ErrProductUnavailable):
			apperrors.BadRequest(c, apperrors.ProductUnavailable, "One of the ordered products is not available")
		case errors.Is(err, service.ErrInvalidSize):
			apperrors.BadRequest(c, apperrors.ProductInvalidSize, "Requested size is not offered for this product")
		case errors.Is(err, service.ErrInvalidCustomization):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Requested customization is not offered for this product")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Item quantity must be at least 1")
		case errors.Is(err, service.ErrDeliveryAddressRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Delivery orders require an address")
		case errors.Is(err, service.ErrExcessiveDiscount):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Discount cannot exceed the order value")
		case errors.As(err, &fieldErrs):
			apperrors.RespondWithValidationError(c, fieldErrs)
		default:
			log.Error("Order creation failed", err, map[string]interface{}{
				"customer_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create order")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetMyOrders lists the authenticated customer's orders
// GET /api/v1/orders/my
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetCustomerOrders(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one order. Customers see only their own.
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Order ID must be a number")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get order")
		return
	}

	role, _ := middleware.GetUserRole(c)
	if order.CustomerID != userID && !staffRole(role) {
		apperrors.Forbidden(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetOrderByNumber looks an order up by its printed number, for pickup counters
// GET /api/v1/orders/number/:number
func (ctrl *OrderController) GetOrderByNumber(c *gin.Context) {
	order, err := ctrl.orderService.GetOrderByNumber(c.Param("number"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// ListOrders lists orders for the staff board, optionally by status
// GET /api/v1/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	status := model.OrderStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown order status")
		return
	}

	orders, err := ctrl.orderService.GetOrders(status)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// ListActiveOrders lists orders still moving through the pipeline
// GET /api/v1/orders/active
func (ctrl *OrderController) ListActiveOrders(c *gin.Context) {
	orders, err := ctrl.orderService.GetActiveOrders()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// TransitionOrder moves an order to its next status (staff and up).
// Completing an order also records its sale.
// PATCH /api/v1/orders/:id/status
func (ctrl *OrderController) TransitionOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Order ID must be a number")
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Target status is required")
		return
	}
	if !req.Status.IsValid() {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown order status")
		return
	}

	staffID, _ := middleware.GetUserID(c)

	order, err := ctrl.orderService.TransitionStatus(uint(id), req.Status, &staffID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidTransition):
			apperrors.Conflict(c, apperrors.OrderInvalidTransition, "This status change is not allowed")
		case errors.Is(err, service.ErrDuplicateSale):
			apperrors.Conflict(c, apperrors.SaleDuplicate, "A sale was already recorded for this order")
		default:
			log.Error("Order transition failed", err, map[string]interface{}{
				"order_id": id,
				"to":       req.Status,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"order":   order,
	})
}

// CancelOrder cancels the customer's own order while it is still cancellable
// POST /api/v1/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Order ID must be a number")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get order")
		return
	}

	role, _ := middleware.GetUserRole(c)
	if order.CustomerID != userID && !staffRole(role) {
		apperrors.Forbidden(c, "")
		return
	}

	order, err = ctrl.orderService.TransitionStatus(uint(id), model.OrderStatusCancelled, nil)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			apperrors.Conflict(c, apperrors.OrderInvalidTransition, "This order can no longer be cancelled")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled",
		"order":   order,
	})
}

type PaymentStatusRequest struct {
	PaymentStatus model.PaymentStatus `json:"payment_status" binding:"required"`
}

// UpdatePaymentStatus marks an order's payment as completed, failed or refunded
// PATCH /api/v1/orders/:id/payment
func (ctrl *OrderController) UpdatePaymentStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Order ID must be a number")
		return
	}

	var req PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Payment status is required")
		return
	}
	if !req.PaymentStatus.IsValid() {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown payment status")
		return
	}

	if err := ctrl.orderService.UpdatePaymentStatus(uint(id), req.PaymentStatus); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated"})
}

// StreamOrders upgrades to a websocket feeding the staff order board
// GET /api/v1/orders/stream
func (ctrl *OrderController) StreamOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	websocket.ServeOrderBoard(ctrl.hub, c, userID)
}
