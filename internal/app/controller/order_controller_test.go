package controller

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jykim/modacloset-backend/internal/app/model"
	"github.com/jykim/modacloset-backend/internal/app/repository"
	"github.com/jykim/modacloset-backend/internal/app/service"
	"github.com/jykim/modacloset-backend/internal/db"
	apperrors "github.com/jykim/modacloset-backend/internal/errors"
	"github.com/jykim/modacloset-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderControllerTest(t *testing.T) (*gin.Engine, service.CartService, service.OrderService, *model.User, *model.Product, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)

	cartService := service.NewCartService(cartRepo, productRepo, nil)
	orderService := service.NewOrderService(orderRepo, cartRepo, testDB)
	ctrl := NewOrderController(orderService)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		SKU:           "TOP-001",
		Name:          "오버핏 셔츠",
		Price:         45000,
		Category:      model.CategoryTop,
		IsActive:      true,
		StockQuantity: 10,
	}
	testDB.Create(product)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		c.Next()
	})
	router.POST("/orders", ctrl.Checkout)
	router.PATCH("/orders/:id/cancel", ctrl.CancelOrder)
	router.PATCH("/orders/:id/payment", ctrl.CompletePayment)

	return router, cartService, orderService, user, product, testDB
}

func checkoutBody() string {
	return `{
		"recipient_name": "홍길동",
		"phone": "010-1234-5678",
		"address": "서울시 강남구 테헤란로 123",
		"payment_method": "card"
	}`
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOrderController_Checkout_OutOfStockReturns400(t *testing.T) {
	router, cartService, _, user, product, testDB := setupOrderControllerTest(t)

	_, err := cartService.AddItem(user.ID, service.AddItemInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	// 담은 뒤 재고가 줄어든 상황
	testDB.Model(&model.Product{}).Where("id = ?", product.ID).Update("stock_quantity", 1)

	w := doJSON(router, "POST", "/orders", checkoutBody())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.ProductOutOfStock)
	assert.Contains(t, w.Body.String(), product.Name)
}

func TestOrderController_CancelOrder_NotCancellableReturns400(t *testing.T) {
	router, cartService, orderService, user, product, _ := setupOrderControllerTest(t)

	_, err := cartService.AddItem(user.ID, service.AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	order, err := orderService.Checkout(user.ID, service.CheckoutInput{
		ShippingAddress: model.ShippingAddress{
			RecipientName: "홍길동",
			Phone:         "010-1234-5678",
			Address:       "서울시 강남구 테헤란로 123",
		},
		PaymentMethod: model.PaymentMethodCard,
	})
	require.NoError(t, err)

	_, err = orderService.CompletePayment(user.ID, order.ID, "pay_123")
	require.NoError(t, err)
	_, err = orderService.AdminUpdateStatus(order.ID, service.AdminStatusInput{
		Status:         model.OrderStatusShipped,
		TrackingNumber: "1Z999",
	})
	require.NoError(t, err)

	w := doJSON(router, "PATCH", "/orders/"+strconv.Itoa(int(order.ID))+"/cancel", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.OrderInvalidTransition)
}

func TestOrderController_CompletePayment_NotPendingReturns400(t *testing.T) {
	router, cartService, orderService, user, product, _ := setupOrderControllerTest(t)

	_, err := cartService.AddItem(user.ID, service.AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	order, err := orderService.Checkout(user.ID, service.CheckoutInput{
		ShippingAddress: model.ShippingAddress{
			RecipientName: "홍길동",
			Phone:         "010-1234-5678",
			Address:       "서울시 강남구 테헤란로 123",
		},
		PaymentMethod: model.PaymentMethodCard,
	})
	require.NoError(t, err)

	_, err = orderService.CompletePayment(user.ID, order.ID, "pay_123")
	require.NoError(t, err)

	// 이미 결제된 주문에 다시 결제 확인
	w := doJSON(router, "PATCH", "/orders/"+strconv.Itoa(int(order.ID))+"/payment", `{"payment_id": "pay_456"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.OrderInvalidTransition)
}
