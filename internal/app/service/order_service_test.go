package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/app/repository"
	"github.com/brewtab/coffeehouse-backend/internal/db"
)

type captureNotifier struct {
	events []OrderEvent
}

func (n *captureNotifier) NotifyOrderEvent(event OrderEvent) {
	n.events = append(n.events, event)
}

type orderServiceFixture struct {
	db       *gorm.DB
	service  OrderService
	notifier *captureNotifier
	customer *model.User
	staff    *model.User
	latte    *model.Product
	muffin   *model.Product
}

func setupOrderServiceTest(t *testing.T) *orderServiceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	orderRepo := repository.NewOrderRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	saleRepo := repository.NewSaleRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)

	notifier := &captureNotifier{}
	service := NewOrderService(orderRepo, productRepo, saleRepo, userRepo, testDB, 0.08, 1, notifier)

	customer := &model.User{
		Email:        "customer@example.com",
		PasswordHash: "hash",
		Name:         "Test Customer",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(customer).Error)

	staff := &model.User{
		Email:        "barista@example.com",
		PasswordHash: "hash",
		Name:         "Barista",
		Role:         model.RoleStaff,
	}
	require.NoError(t, testDB.Create(staff).Error)

	latte := &model.Product{
		Name:            "Latte",
		Category:        model.CategoryCoffee,
		BasePrice:       4.00,
		IsAvailable:     true,
		PreparationTime: 7,
		Sizes: []model.ProductSize{
			{Size: "small", Price: 3.50},
			{Size: "large", Price: 4.75},
		},
		Customizations: []model.ProductCustomization{
			{
				Name: "Milk",
				Options: []model.CustomizationOption{
					{Name: "whole", Price: 0},
					{Name: "oat", Price: 0.50},
				},
			},
		},
	}
	require.NoError(t, testDB.Create(latte).Error)

	muffin := &model.Product{
		Name:            "Blueberry Muffin",
		Category:        model.CategoryPastries,
		BasePrice:       3.25,
		IsAvailable:     true,
		PreparationTime: 2,
	}
	require.NoError(t, testDB.Create(muffin).Error)

	return &orderServiceFixture{
		db:       testDB,
		service:  service,
		notifier: notifier,
		customer: customer,
		staff:    staff,
		latte:    latte,
		muffin:   muffin,
	}
}

func TestComputePricing(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		discount float64
		tip      float64
		taxRate  float64
		want     Pricing
		wantErr  error
	}{
		{
			name:     "No discount or tip",
			subtotal: 250,
			taxRate:  0.12,
			want:     Pricing{Subtotal: 250, Tax: 30, Total: 280},
		},
		{
			name:     "Discount and tip",
			subtotal: 100,
			discount: 10,
			tip:      5,
			taxRate:  0.08,
			want:     Pricing{Subtotal: 100, Tax: 8, Discount: 10, Tip: 5, Total: 103},
		},
		{
			name:     "Zero tax rate",
			subtotal: 50,
			taxRate:  0,
			want:     Pricing{Subtotal: 50, Total: 50},
		},
		{
			name:     "Discount larger than order",
			subtotal: 10,
			discount: 50,
			taxRate:  0.08,
			wantErr:  ErrExcessiveDiscount,
		},
		{
			name:     "Negative tip",
			subtotal: 10,
			tip:      -1,
			taxRate:  0.08,
			wantErr:  ErrExcessiveDiscount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pricing, err := ComputePricing(tt.subtotal, tt.discount, tt.tip, tt.taxRate)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Subtotal, pricing.Subtotal, 0.001)
			assert.InDelta(t, tt.want.Tax, pricing.Tax, 0.001)
			assert.InDelta(t, tt.want.Total, pricing.Total, 0.001)
			// The money identity must always hold
			assert.InDelta(t, pricing.Subtotal+pricing.Tax-pricing.Discount+pricing.Tip, pricing.Total, 0.001)
		})
	}
}

func TestCalculateLoyaltyPoints(t *testing.T) {
	assert.Equal(t, 12, CalculateLoyaltyPoints(12.80, 1))
	assert.Equal(t, 25, CalculateLoyaltyPoints(12.80, 2))
	assert.Equal(t, 0, CalculateLoyaltyPoints(0, 1))
	assert.Equal(t, 0, CalculateLoyaltyPoints(10, 0))
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := setupOrderServiceTest(t)

	order, err := f.service.CreateOrder(f.customer.ID, CreateOrderInput{
		Items: []OrderItemInput{
			{
				ProductID:      f.latte.ID,
				Size:           "large",
				Quantity:       2,
				Customizations: []CustomizationChoice{{GroupName: "Milk", Option: "oat"}},
			},
			{ProductID: f.muffin.ID, Quantity: 1},
		},
		PaymentMethod: model.PaymentMethodCard,
		Tip:           1.00,
	})
	require.NoError(t, err)

	// (4.75 + 0.50) * 2 + 3.25 = 13.75
	assert.InDelta(t, 13.75, order.Subtotal, 0.001)
	assert.InDelta(t, 1.10, order.Tax, 0.001)
	assert.InDelta(t, 15.85, order.Total, 0.001)
	assert.Regexp(t, `^CF\d{9}$`, order.OrderNumber)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, f.customer.Name, order.CustomerName)
	assert.Equal(t, 7, order.EstimatedPrepTime)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Milk: oat (+0.50)", order.Items[0].CustomizationSnapshot)
	assert.Empty(t, order.Items[1].Size)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, order.OrderNumber, f.notifier.events[0].OrderNumber)
}

func TestOrderService_CreateOrder_Rejections(t *testing.T) {
	f := setupOrderServiceTest(t)

	unavailable := &model.Product{
		Name:            "Off Menu",
		Category:        model.CategoryPastries,
		BasePrice:       2.00,
		PreparationTime: 1,
	}
	require.NoError(t, f.db.Create(unavailable).Error)
	f.db.Model(unavailable).Update("is_available", false)

	tests := []struct {
		name    string
		input   CreateOrderInput
		wantErr error
	}{
		{
			name:    "Empty order",
			input:   CreateOrderInput{PaymentMethod: model.PaymentMethodCard},
			wantErr: ErrEmptyOrder,
		},
		{
			name: "Unknown product",
			input: CreateOrderInput{
				Items:         []OrderItemInput{{ProductID: 99999, Quantity: 1}},
				PaymentMethod: model.PaymentMethodCard,
			},
			wantErr: ErrProductNotFound,
		},
		{
			name: "Unavailable product",
			input: CreateOrderInput{
				Items:         []OrderItemInput{{ProductID: unavailable.ID, Quantity: 1}},
				PaymentMethod: model.PaymentMethodCard,
			},
			wantErr: ErrProductUnavailable,
		},
		{
			name: "Unknown size",
			input: CreateOrderInput{
				Items:         []OrderItemInput{{ProductID: f.latte.ID, Size: "venti", Quantity: 1}},
				PaymentMethod: model.PaymentMethodCard,
			},
			wantErr: ErrInvalidSize,
		},
		{
			name: "Unknown customization",
			input: CreateOrderInput{
				Items: []OrderItemInput{{
					ProductID:      f.latte.ID,
					Size:           "small",
					Quantity:       1,
					Customizations: []CustomizationChoice{{GroupName: "Milk", Option: "goat"}},
				}},
				PaymentMethod: model.PaymentMethodCard,
			},
			wantErr: ErrInvalidCustomization,
		},
		{
			name: "Zero quantity",
			input: CreateOrderInput{
				Items:         []OrderItemInput{{ProductID: f.muffin.ID, Quantity: 0}},
				PaymentMethod: model.PaymentMethodCard,
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "Delivery without address",
			input: CreateOrderInput{
				Items:         []OrderItemInput{{ProductID: f.muffin.ID, Quantity: 1}},
				PaymentMethod: model.PaymentMethodCard,
				OrderType:     model.OrderTypeDelivery,
			},
			wantErr: ErrDeliveryAddressRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateOrder(f.customer.ID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOrderService_TransitionStatus_FullLifecycle(t *testing.T) {
	f := setupOrderServiceTest(t)

	order, err := f.service.CreateOrder(f.customer.ID, CreateOrderInput{
		Items:         []OrderItemInput{{ProductID: f.muffin.ID, Quantity: 2}},
		PaymentMethod: model.PaymentMethodCash,
	})
	require.NoError(t, err)

	chain := []model.OrderStatus{
		model.OrderStatusConfirmed,
		model.OrderStatusPreparing,
		model.OrderStatusReady,
		model.OrderStatusCompleted,
	}
	for _, status := range chain {
		order, err = f.service.TransitionStatus(order.ID, status, &f.staff.ID)
		require.NoError(t, err)
		assert.Equal(t, status, order.Status)
	}

	assert.NotNil(t, order.ActualReadyTime)

	// Completion records exactly one sale with the order's totals
	var sales []model.Sale
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Find(&sales).Error)
	require.Len(t, sales, 1)
	assert.InDelta(t, order.Total, sales[0].Total, 0.001)
	assert.Equal(t, order.OrderNumber, sales[0].OrderNumber)
	require.NotNil(t, sales[0].StaffID)
	assert.Equal(t, f.staff.ID, *sales[0].StaffID)

	// Loyalty points accrued from the total
	var customer model.User
	require.NoError(t, f.db.First(&customer, f.customer.ID).Error)
	assert.Equal(t, CalculateLoyaltyPoints(order.Total, 1), customer.LoyaltyPoints)

	// One event per creation plus one per transition
	assert.Len(t, f.notifier.events, 5)
}

func TestOrderService_TransitionStatus_RejectsIllegalMoves(t *testing.T) {
	f := setupOrderServiceTest(t)

	order, err := f.service.CreateOrder(f.customer.ID, CreateOrderInput{
		Items:         []OrderItemInput{{ProductID: f.muffin.ID, Quantity: 1}},
		PaymentMethod: model.PaymentMethodCard,
	})
	require.NoError(t, err)

	// Cannot skip ahead
	_, err = f.service.TransitionStatus(order.ID, model.OrderStatusReady, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Cancel is allowed from pending
	order, err = f.service.TransitionStatus(order.ID, model.OrderStatusCancelled, nil)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, order.Status)

	// Terminal states are final
	_, err = f.service.TransitionStatus(order.ID, model.OrderStatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Cancelled orders never produce sales
	var count int64
	f.db.Model(&model.Sale{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Zero(t, count)
}

func TestOrderService_TransitionStatus_UnknownOrder(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.service.TransitionStatus(99999, model.OrderStatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
