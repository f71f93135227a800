package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/app/repository"
	"github.com/brewtab/coffeehouse-backend/internal/db"
)

func setupProductServiceTest(t *testing.T) ProductService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewProductService(repository.NewProductRepository(testDB))
}

func TestProductService_CreateProduct_VariantRules(t *testing.T) {
	service := setupProductServiceTest(t)

	tests := []struct {
		name    string
		product *model.Product
		wantErr error
	}{
		{
			name: "Drink with sizes",
			product: &model.Product{
				Name:            "Flat White",
				Category:        model.CategoryCoffee,
				BasePrice:       4.25,
				PreparationTime: 5,
				Sizes:           []model.ProductSize{{Size: "regular", Price: 4.25}},
			},
		},
		{
			name: "Drink without sizes",
			product: &model.Product{
				Name:            "Mystery Brew",
				Category:        model.CategoryCoffee,
				BasePrice:       3.00,
				PreparationTime: 5,
			},
			wantErr: ErrSizesRequired,
		},
		{
			name: "Pastry with sizes",
			product: &model.Product{
				Name:            "Croissant",
				Category:        model.CategoryPastries,
				BasePrice:       2.75,
				PreparationTime: 1,
				Sizes:           []model.ProductSize{{Size: "large", Price: 3.25}},
			},
			wantErr: ErrSizesForbidden,
		},
		{
			name: "Pastry flat price",
			product: &model.Product{
				Name:            "Almond Croissant",
				Category:        model.CategoryPastries,
				BasePrice:       3.25,
				PreparationTime: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := service.CreateProduct(tt.product)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, created.ID)
		})
	}
}

func TestProductService_CreateProduct_Invalid(t *testing.T) {
	service := setupProductServiceTest(t)

	_, err := service.CreateProduct(&model.Product{
		Name:            "X",
		Category:        "laundry",
		BasePrice:       -1,
		PreparationTime: 1,
	})
	assert.Error(t, err)
}

func TestProductService_UpdateProduct_VariantRules(t *testing.T) {
	service := setupProductServiceTest(t)

	created, err := service.CreateProduct(&model.Product{
		Name:            "Iced Tea",
		Category:        model.CategoryTea,
		BasePrice:       3.00,
		PreparationTime: 3,
		Sizes:           []model.ProductSize{{Size: "regular", Price: 3.00}},
	})
	require.NoError(t, err)

	created.Sizes = nil
	_, err = service.UpdateProduct(created)
	assert.ErrorIs(t, err, ErrSizesRequired)

	_, err = service.UpdateProduct(&model.Product{ID: 99999, Name: "Ghost", Category: model.CategoryPastries, BasePrice: 1, PreparationTime: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_SetAvailability(t *testing.T) {
	service := setupProductServiceTest(t)

	created, err := service.CreateProduct(&model.Product{
		Name:            "Brownie",
		Category:        model.CategoryDesserts,
		BasePrice:       3.50,
		PreparationTime: 1,
	})
	require.NoError(t, err)

	updated, err := service.SetAvailability(created.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)

	_, err = service.SetAvailability(99999, true)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	service := setupProductServiceTest(t)

	created, err := service.CreateProduct(&model.Product{
		Name:            "Scone",
		Category:        model.CategoryPastries,
		BasePrice:       2.50,
		PreparationTime: 1,
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteProduct(created.ID))

	_, err = service.GetProductByID(created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, service.DeleteProduct(99999), ErrProductNotFound)
}
