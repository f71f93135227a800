package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/db"
	apperrors "github.com/brewtab/coffeehouse-backend/internal/errors"
)

func setupOrderTest(t *testing.T) (*gorm.DB, OrderRepository, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewOrderRepository(testDB)

	user := &model.User{
		Email:        "customer@example.com",
		PasswordHash: "hash",
		Name:         "Test Customer",
		Role:         model.RoleCustomer,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:            "Latte",
		Category:        model.CategoryCoffee,
		BasePrice:       4.50,
		PreparationTime: 5,
		Sizes: []model.ProductSize{
			{Size: "medium", Price: 4.50},
		},
	}
	testDB.Create(product)

	return testDB, repo, user, product
}

func newTestOrder(user *model.User, product *model.Product, orderNumber string) *model.Order {
	return &model.Order{
		OrderNumber:   orderNumber,
		CustomerID:    user.ID,
		CustomerName:  user.Name,
		CustomerEmail: user.Email,
		Subtotal:      9.00,
		Tax:           0.72,
		Total:         9.72,
		PaymentMethod: model.PaymentMethodCard,
		PaymentStatus: model.PaymentStatusPending,
		OrderType:     model.OrderTypePickup,
		Status:        model.OrderStatusPending,
		Items: []model.OrderItem{
			{
				ProductID: product.ID,
				Name:      product.Name,
				Size:      "medium",
				UnitPrice: 4.50,
				Quantity:  2,
				Total:     9.00,
			},
		},
	}
}

func TestOrderRepository_Create(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user, product, "CF123456001")

	err := repo.Create(order)
	assert.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Len(t, order.Items, 1)
}

func TestOrderRepository_Create_DuplicateOrderNumber(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	first := newTestOrder(user, product, "CF123456002")
	require.NoError(t, repo.Create(first))

	second := newTestOrder(user, product, "CF123456002")
	err := repo.Create(second)
	require.Error(t, err)
	assert.True(t, apperrors.IsUniqueViolation(err))
}

func TestOrderRepository_FindByID(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user, product, "CF123456003")
	repo.Create(order)

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, user.ID, found.CustomerID)
	assert.NotNil(t, found.Customer)
	assert.Len(t, found.Items, 1)
}

func TestOrderRepository_FindByOrderNumber(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user, product, "CF123456004")
	repo.Create(order)

	found, err := repo.FindByOrderNumber("CF123456004")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = repo.FindByOrderNumber("CF000000000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepository_FindByCustomerID(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	for i := 0; i < 3; i++ {
		order := newTestOrder(user, product, fmt.Sprintf("CF12345600%d", 5+i))
		repo.Create(order)
	}

	orders, err := repo.FindByCustomerID(user.ID)
	assert.NoError(t, err)
	assert.Len(t, orders, 3)
}

func TestOrderRepository_FindAll_FilterByStatus(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	pending := newTestOrder(user, product, "CF123456010")
	repo.Create(pending)

	completed := newTestOrder(user, product, "CF123456011")
	completed.Status = model.OrderStatusCompleted
	repo.Create(completed)

	all, err := repo.FindAll("")
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	onlyPending, err := repo.FindAll(model.OrderStatusPending)
	assert.NoError(t, err)
	require.Len(t, onlyPending, 1)
	assert.Equal(t, pending.ID, onlyPending[0].ID)
}

func TestOrderRepository_FindActive(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	pending := newTestOrder(user, product, "CF123456020")
	repo.Create(pending)

	preparing := newTestOrder(user, product, "CF123456021")
	preparing.Status = model.OrderStatusPreparing
	preparing.Priority = 5
	repo.Create(preparing)

	completed := newTestOrder(user, product, "CF123456022")
	completed.Status = model.OrderStatusCompleted
	repo.Create(completed)

	cancelled := newTestOrder(user, product, "CF123456023")
	cancelled.Status = model.OrderStatusCancelled
	repo.Create(cancelled)

	active, err := repo.FindActive()
	assert.NoError(t, err)
	require.Len(t, active, 2)
	// Higher priority first
	assert.Equal(t, preparing.ID, active[0].ID)
	assert.Equal(t, pending.ID, active[1].ID)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user, product, "CF123456030")
	repo.Create(order)

	err := repo.UpdateStatus(order.ID, model.OrderStatusConfirmed, nil)
	assert.NoError(t, err)

	updated, _ := repo.FindByID(order.ID)
	assert.Equal(t, model.OrderStatusConfirmed, updated.Status)
	assert.Nil(t, updated.ActualReadyTime)
}

func TestOrderRepository_UpdateStatus_ReadyStampsActualReadyTime(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	staff := &model.User{
		Email:        "barista@example.com",
		PasswordHash: "hash",
		Name:         "Barista",
		Role:         model.RoleStaff,
	}
	testDB.Create(staff)

	order := newTestOrder(user, product, "CF123456031")
	order.Status = model.OrderStatusPreparing
	repo.Create(order)

	err := repo.UpdateStatus(order.ID, model.OrderStatusReady, &staff.ID)
	assert.NoError(t, err)

	updated, _ := repo.FindByID(order.ID)
	assert.Equal(t, model.OrderStatusReady, updated.Status)
	assert.NotNil(t, updated.ActualReadyTime)
	require.NotNil(t, updated.AssignedStaffID)
	assert.Equal(t, staff.ID, *updated.AssignedStaffID)
}

func TestOrderRepository_UpdatePaymentStatus(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(user, product, "CF123456040")
	repo.Create(order)

	err := repo.UpdatePaymentStatus(order.ID, model.PaymentStatusCompleted)
	assert.NoError(t, err)

	updated, _ := repo.FindByID(order.ID)
	assert.Equal(t, model.PaymentStatusCompleted, updated.PaymentStatus)
}
