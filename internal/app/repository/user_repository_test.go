package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/db"
	apperrors "github.com/brewtab/coffeehouse-backend/internal/errors"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	return testDB, NewUserRepository(testDB)
}

func TestUserRepository_Create(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "new@example.com",
		PasswordHash: "hash",
		Name:         "New User",
		Role:         model.RoleCustomer,
	}

	err := repo.Create(user)
	assert.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	first := &model.User{Email: "dup@example.com", PasswordHash: "hash", Name: "First", Role: model.RoleCustomer}
	require.NoError(t, repo.Create(first))

	second := &model.User{Email: "dup@example.com", PasswordHash: "hash", Name: "Second", Role: model.RoleCustomer}
	err := repo.Create(second)
	require.Error(t, err)
	assert.True(t, apperrors.IsUniqueViolation(err))
}

func TestUserRepository_FindByEmail(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{Email: "find@example.com", PasswordHash: "hash", Name: "Findable", Role: model.RoleCustomer}
	repo.Create(user)

	found, err := repo.FindByEmail("find@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail("missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_FindByRole(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	repo.Create(&model.User{Email: "c1@example.com", PasswordHash: "hash", Name: "Customer One", Role: model.RoleCustomer})
	repo.Create(&model.User{Email: "s1@example.com", PasswordHash: "hash", Name: "Staff One", Role: model.RoleStaff})
	repo.Create(&model.User{Email: "s2@example.com", PasswordHash: "hash", Name: "Staff Two", Role: model.RoleStaff})

	staff, err := repo.FindByRole(model.RoleStaff)
	assert.NoError(t, err)
	assert.Len(t, staff, 2)
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{Email: "login@example.com", PasswordHash: "hash", Name: "Login User", Role: model.RoleCustomer}
	repo.Create(user)
	require.Nil(t, user.LastLogin)

	at := time.Now()
	err := repo.UpdateLastLogin(user.ID, at)
	assert.NoError(t, err)

	updated, _ := repo.FindByID(user.ID)
	require.NotNil(t, updated.LastLogin)
	assert.WithinDuration(t, at, *updated.LastLogin, time.Second)
}

func TestUserRepository_AddLoyaltyPoints(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{Email: "points@example.com", PasswordHash: "hash", Name: "Points User", Role: model.RoleCustomer, LoyaltyPoints: 10}
	repo.Create(user)

	err := repo.AddLoyaltyPoints(user.ID, 25)
	assert.NoError(t, err)
	err = repo.AddLoyaltyPoints(user.ID, 5)
	assert.NoError(t, err)

	updated, _ := repo.FindByID(user.ID)
	assert.Equal(t, 40, updated.LoyaltyPoints)
}

func TestUserRepository_Delete(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{Email: "gone@example.com", PasswordHash: "hash", Name: "Gone User", Role: model.RoleCustomer}
	repo.Create(user)

	err := repo.Delete(user.ID)
	assert.NoError(t, err)

	_, err = repo.FindByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
