package repository

import (
	"testing"
	"time"

	"github.com/jykim/modacloset-backend/internal/app/model"
	"github.com/jykim/modacloset-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderTest(t *testing.T) (*gorm.DB, OrderRepository, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewOrderRepository(testDB)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		SKU:           "OUT-001",
		Name:          "Test Coat",
		Price:         128000,
		Category:      model.CategoryOuter,
		IsActive:      true,
		StockQuantity: 10,
	}
	testDB.Create(product)

	return testDB, repo, user, product
}

func makeTestOrder(user *model.User, product *model.Product, orderNumber string) *model.Order {
	order := &model.Order{
		OrderNumber: orderNumber,
		UserID:      user.ID,
		Status:      model.OrderStatusPending,
		PaymentMethod: model.PaymentMethodCard,
		PaymentStatus: model.PaymentStatusPending,
		ShippingAddress: model.ShippingAddress{
			RecipientName: "홍길동",
			Phone:         "010-1234-5678",
			Address:       "서울시 강남구 테헤란로 123",
		},
		Lines: []model.OrderLine{
			{ProductID: product.ID, Quantity: 2, UnitPrice: product.Price},
		},
	}
	order.RecalculateAmounts()
	return order
}

func TestOrderRepository_Create(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := makeTestOrder(user, product, "ORD2508280001")

	err := repo.Create(order)
	assert.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, int64(256000), order.TotalAmount)
}

func TestOrderRepository_Create_DuplicateOrderNumber(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(makeTestOrder(user, product, "ORD2508280001")))

	err := repo.Create(makeTestOrder(user, product, "ORD2508280001"))
	assert.Error(t, err)
}

func TestOrderRepository_FindByID(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := makeTestOrder(user, product, "ORD2508280001")
	require.NoError(t, repo.Create(order))

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, product.Name, found.Lines[0].Product.Name)
}

func TestOrderRepository_FindByOrderNumber(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := makeTestOrder(user, product, "ORD2508280042")
	require.NoError(t, repo.Create(order))

	found, err := repo.FindByOrderNumber("ORD2508280042")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = repo.FindByOrderNumber("ORD0000000000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepository_FindWithFilter_ByUser(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleUser}
	testDB.Create(other)

	require.NoError(t, repo.Create(makeTestOrder(user, product, "ORD2508280001")))
	require.NoError(t, repo.Create(makeTestOrder(user, product, "ORD2508280002")))
	require.NoError(t, repo.Create(makeTestOrder(other, product, "ORD2508280003")))

	orders, total, err := repo.FindWithFilter(OrderFilter{UserID: user.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 2)
}

func TestOrderRepository_FindWithFilter_StatusAndPaging(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	for i := 0; i < 3; i++ {
		order := makeTestOrder(user, product, "ORD250828000"+string(rune('1'+i)))
		require.NoError(t, repo.Create(order))
	}
	paid := makeTestOrder(user, product, "ORD2508280009")
	paid.Status = model.OrderStatusPaid
	require.NoError(t, repo.Create(paid))

	// Status filter
	orders, total, err := repo.FindWithFilter(OrderFilter{UserID: user.ID, Status: model.OrderStatusPaid, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderStatusPaid, orders[0].Status)

	// Paging: total counts all, page holds at most limit
	orders, total, err = repo.FindWithFilter(OrderFilter{UserID: user.ID, Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, orders, 2)

	orders, _, err = repo.FindWithFilter(OrderFilter{UserID: user.ID, Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepository_Save(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := makeTestOrder(user, product, "ORD2508280001")
	require.NoError(t, repo.Create(order))

	now := time.Now()
	order.Status = model.OrderStatusPaid
	order.PaymentStatus = model.PaymentStatusCompleted
	order.PaidAt = &now
	require.NoError(t, repo.Save(order))

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, found.Status)
	assert.Equal(t, model.PaymentStatusCompleted, found.PaymentStatus)
	assert.NotNil(t, found.PaidAt)
}

func TestOrderRepository_LatestOrderNumber(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	number, err := repo.LatestOrderNumber("ORD250828")
	require.NoError(t, err)
	assert.Equal(t, "", number)

	require.NoError(t, repo.Create(makeTestOrder(user, product, "ORD2508280001")))
	require.NoError(t, repo.Create(makeTestOrder(user, product, "ORD2508280003")))
	require.NoError(t, repo.Create(makeTestOrder(user, product, "ORD2508270009")))

	number, err = repo.LatestOrderNumber("ORD250828")
	require.NoError(t, err)
	assert.Equal(t, "ORD2508280003", number)

	number, err = repo.LatestOrderNumber("ORD250827")
	require.NoError(t, err)
	assert.Equal(t, "ORD2508270009", number)
}

func TestOrderRepository_FindStalePending(t *testing.T) {
	testDB, repo, user, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	stale := makeTestOrder(user, product, "ORD2508270001")
	require.NoError(t, repo.Create(stale))
	testDB.Model(stale).Update("created_at", time.Now().Add(-48*time.Hour))

	fresh := makeTestOrder(user, product, "ORD2508280001")
	require.NoError(t, repo.Create(fresh))

	paid := makeTestOrder(user, product, "ORD2508270002")
	paid.Status = model.OrderStatusPaid
	require.NoError(t, repo.Create(paid))
	testDB.Model(paid).Update("created_at", time.Now().Add(-48*time.Hour))

	orders, err := repo.FindStalePending(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, stale.OrderNumber, orders[0].OrderNumber)

	// 취소 시 재고 복원이 라인을 순회하므로 라인까지 로드되어야 한다
	require.Len(t, orders[0].Lines, 1)
	assert.Equal(t, product.ID, orders[0].Lines[0].ProductID)
}
