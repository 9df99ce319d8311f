package repository

import (
	"testing"

	"github.com/jykim/modacloset-backend/internal/app/model"
	"github.com/jykim/modacloset-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartRepository, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewCartRepository(testDB)

	// Create test user
	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	// Create test product
	product := &model.Product{
		SKU:           "TOP-001",
		Name:          "Test Product",
		Price:         39000,
		Category:      model.CategoryTop,
		IsActive:      true,
		StockQuantity: 10,
	}
	testDB.Create(product)

	return testDB, repo, user, product
}

func TestCartRepository_Create(t *testing.T) {
	testDB, repo, user, _ := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{UserID: user.ID}

	err := repo.Create(cart)
	assert.NoError(t, err)
	assert.NotZero(t, cart.ID)
}

func TestCartRepository_Create_DuplicateUser(t *testing.T) {
	testDB, repo, user, _ := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	err := repo.Create(&model.Cart{UserID: user.ID})
	require.NoError(t, err)

	// One cart per user
	err = repo.Create(&model.Cart{UserID: user.ID})
	assert.Error(t, err)
}

func TestCartRepository_FindByUserID(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{
		UserID: user.ID,
		Lines: []model.CartLine{
			{ProductID: product.ID, Quantity: 2, UnitPrice: product.Price, Color: "black", Size: "M"},
		},
	}
	cart.Recalculate()
	require.NoError(t, repo.Create(cart))

	found, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, found.ID)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, product.ID, found.Lines[0].ProductID)
	assert.Equal(t, product.Name, found.Lines[0].Product.Name)
}

func TestCartRepository_FindByUserID_NotFound(t *testing.T) {
	testDB, repo, _, _ := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := repo.FindByUserID(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_Save_UpdatesLineQuantity(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{
		UserID: user.ID,
		Lines: []model.CartLine{
			{ProductID: product.ID, Quantity: 1, UnitPrice: product.Price},
		},
	}
	cart.Recalculate()
	require.NoError(t, repo.Create(cart))

	cart.Lines[0].Quantity = 5
	cart.Recalculate()
	require.NoError(t, repo.Save(cart))

	found, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, 5, found.Lines[0].Quantity)
	assert.Equal(t, 5, found.TotalItems)
	assert.Equal(t, int64(5)*product.Price, found.TotalPrice)
}

func TestCartRepository_DeleteLine(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{
		UserID: user.ID,
		Lines: []model.CartLine{
			{ProductID: product.ID, Quantity: 2, UnitPrice: product.Price},
		},
	}
	cart.Recalculate()
	require.NoError(t, repo.Create(cart))

	err := repo.DeleteLine(cart.Lines[0].ID)
	assert.NoError(t, err)

	found, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Lines)
}

func TestCartRepository_ClearLines(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{
		UserID: user.ID,
		Lines: []model.CartLine{
			{ProductID: product.ID, Quantity: 2, UnitPrice: product.Price, Size: "M"},
			{ProductID: product.ID, Quantity: 1, UnitPrice: product.Price, Size: "L"},
		},
	}
	cart.Recalculate()
	require.NoError(t, repo.Create(cart))

	err := repo.ClearLines(cart.ID)
	assert.NoError(t, err)

	found, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Lines)
}
