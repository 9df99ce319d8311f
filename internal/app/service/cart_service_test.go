package service

import (
	"testing"

	"github.com/jykim/modacloset-backend/internal/app/model"
	"github.com/jykim/modacloset-backend/internal/app/repository"
	"github.com/jykim/modacloset-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo, nil)

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
		Name:          "Test Shirt",
		Price:         45000,
		Category:      model.CategoryTop,
		IsActive:      true,
		StockQuantity: 10,
	}
	testDB.Create(product)

	return cartService, user, product, testDB
}

func TestCartService_GetCart_CreatesOnFirstAccess(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	cart, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.NotZero(t, cart.ID)
	assert.Equal(t, user.ID, cart.UserID)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 0, cart.TotalItems)

	// Second access returns the same cart
	again, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartService_AddItem_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	cart, err := cartService.AddItem(user.ID, AddItemInput{
		ProductID: product.ID,
		Quantity:  2,
		Color:     "black",
		Size:      "M",
	})
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, product.Price, cart.Lines[0].UnitPrice)
	assert.Equal(t, 2, cart.TotalItems)
	assert.Equal(t, int64(2)*product.Price, cart.TotalPrice)
}

func TestCartService_AddItem_MergesSameLine(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 2, Size: "M"})
	require.NoError(t, err)

	cart, err := cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 3, Size: "M"})
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
}

func TestCartService_AddItem_DifferentSizeIsNewLine(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 1, Size: "M"})
	require.NoError(t, err)

	cart, err := cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 1, Size: "L"})
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 2)
}

func TestCartService_AddItem_SaturatesAtMax(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 8})
	require.NoError(t, err)

	// 8 + 5 saturates at 10 instead of failing
	cart, err := cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, model.MaxLineQuantity, cart.Lines[0].Quantity)
}

func TestCartService_AddItem_ClampsRequestedQuantity(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	cart, err := cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 99})
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, model.MaxLineQuantity, cart.Lines[0].Quantity)

	cart, err = cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 0, Size: "L"})
	require.NoError(t, err)
	assert.Equal(t, model.MinLineQuantity, cart.FindLine(product.ID, "", "L").Quantity)
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(user.ID, AddItemInput{ProductID: 999, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddItem_InactiveProduct(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	testDB.Model(product).Update("is_active", false)

	_, err := cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductInactive)
}

func TestCartService_AddItem_SnapshotsPriceAtAddTime(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	cart, err := cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	originalPrice := product.Price

	// Price change after adding must not affect the cart line
	testDB.Model(product).Update("price", originalPrice+10000)

	cart, err = cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, originalPrice, cart.Lines[0].UnitPrice)
	assert.Equal(t, originalPrice, cart.TotalPrice)
}

func TestCartService_UpdateQuantity_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	cart, err := cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	cart, err = cartService.UpdateQuantity(user.ID, cart.Lines[0].ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Lines[0].Quantity)
	assert.Equal(t, 7, cart.TotalItems)
}

func TestCartService_UpdateQuantity_RejectsOutOfRange(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	cart, err := cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	// Explicit quantity is validated, not clamped
	_, err = cartService.UpdateQuantity(user.ID, cart.Lines[0].ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = cartService.UpdateQuantity(user.ID, cart.Lines[0].ID, 11)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_UpdateQuantity_LineNotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	_, err := cartService.UpdateQuantity(user.ID, 999, 5)
	assert.ErrorIs(t, err, ErrCartLineNotFound)
}

func TestCartService_RemoveItem_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	cart, err := cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	cart, err = cartService.RemoveItem(user.ID, cart.Lines[0].ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 0, cart.TotalItems)
	assert.Equal(t, int64(0), cart.TotalPrice)
}

func TestCartService_RemoveItem_AbsentLineIsNoop(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	cart, err := cartService.RemoveItem(user.ID, 999)
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1)
}

func TestCartService_Clear(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 2, Size: "M"})
	require.NoError(t, err)
	_, err = cartService.AddItem(user.ID, AddItemInput{ProductID: product.ID, Quantity: 1, Size: "L"})
	require.NoError(t, err)

	cart, err := cartService.Clear(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 0, cart.TotalItems)
}
