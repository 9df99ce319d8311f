package controller

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jykim/modacloset-backend/internal/app/model"
	"github.com/jykim/modacloset-backend/internal/app/service"
	apperrors "github.com/jykim/modacloset-backend/internal/errors"
	"github.com/jykim/modacloset-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// 숫자, +, -, 괄호, 공백만 허용
var phonePattern = regexp.MustCompile(`^[0-9+\-() ]+$`)

type CheckoutRequest struct {
	RecipientName string `json:"recipient_name" binding:"required,max=50"`
	Phone         string `json:"phone" binding:"required,max=30"`
	Address       string `json:"address" binding:"required,max=200"`
	DetailAddress string `json:"detail_address" binding:"max=100"`
	DeliveryMemo  string `json:"delivery_memo" binding:"max=200"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=200"`
}

type CompletePaymentRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
}

type AdminUpdateStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
	AdminMemo      string `json:"admin_memo" binding:"max=200"`
}

// Checkout converts the cart into an order
// POST /api/v1/orders
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	if !phonePattern.MatchString(req.Phone) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "연락처 형식이 올바르지 않습니다")
		return
	}

	order, err := ctrl.orderService.Checkout(userID, service.CheckoutInput{
		ShippingAddress: model.ShippingAddress{
			RecipientName: req.RecipientName,
			Phone:         req.Phone,
			Address:       req.Address,
			DetailAddress: req.DetailAddress,
			DeliveryMemo:  req.DeliveryMemo,
		},
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		var unavailable *service.ErrProductUnavailable
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "장바구니가 비어 있습니다")
		case errors.Is(err, service.ErrInvalidPayment):
			apperrors.BadRequest(c, apperrors.OrderInvalidPayment, "지원하지 않는 결제 방법입니다")
		case errors.As(err, &unavailable):
			log.Warn("Checkout blocked by unavailable product", map[string]interface{}{
				"user_id":    userID,
				"product_id": unavailable.ProductID,
				"reason":     unavailable.Reason,
			})
			apperrors.BadRequest(c, apperrors.ProductOutOfStock,
				"'"+unavailable.ProductName+"' 상품을 주문할 수 없습니다")
		case errors.Is(err, service.ErrOrderNumberExhausted):
			apperrors.RespondWithError(c, http.StatusConflict, apperrors.OrderNumberCollision, "주문번호 생성에 실패했습니다. 다시 시도해주세요")
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create order")
		}
		return
	}

	log.Info("Order created", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   order,
	})
}

// ListOrders returns the user's order history
// GET /api/v1/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	status := model.OrderStatus(c.Query("status"))

	orders, total, err := ctrl.orderService.GetUserOrders(userID, status, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrderStatus) {
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "유효하지 않은 주문 상태입니다")
			return
		}
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get orders")
		return
	}

	c.JSON(http.StatusOK, orderPageResponse(orders, total, page, limit))
}

// GetOrder returns one of the user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "유효하지 않은 주문 ID입니다")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "주문을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// CancelOrder cancels the user's own order
// PATCH /api/v1/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "유효하지 않은 주문 ID입니다")
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	order, err := ctrl.orderService.CancelOrder(userID, orderID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "주문을 찾을 수 없습니다")
		case errors.Is(err, service.ErrOrderNotCancellable):
			apperrors.BadRequest(c, apperrors.OrderInvalidTransition, "취소할 수 없는 주문입니다")
		default:
			log.Error("Failed to cancel order", err, map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled",
		"order":   order,
	})
}

// CompletePayment marks the order as paid
// PATCH /api/v1/orders/:id/payment
func (ctrl *OrderController) CompletePayment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "유효하지 않은 주문 ID입니다")
		return
	}

	var req CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	order, err := ctrl.orderService.CompletePayment(userID, orderID, req.PaymentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "주문을 찾을 수 없습니다")
		case errors.Is(err, service.ErrInvalidTransition):
			apperrors.BadRequest(c, apperrors.OrderInvalidTransition, "결제 대기 상태의 주문이 아닙니다")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.BadRequest(c, apperrors.ProductOutOfStock, "재고가 부족하여 결제할 수 없습니다")
		default:
			log.Error("Failed to complete payment", err, map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment completed",
		"order":   order,
	})
}

// AdminListOrders returns all orders (admin)
// GET /api/v1/admin/orders
func (ctrl *OrderController) AdminListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	status := model.OrderStatus(c.Query("status"))
	paymentStatus := model.PaymentStatus(c.Query("payment_status"))

	orders, total, err := ctrl.orderService.AdminListOrders(status, paymentStatus, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrderStatus) {
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "유효하지 않은 주문 상태입니다")
			return
		}
		log.Error("Failed to fetch orders for admin", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get orders")
		return
	}

	c.JSON(http.StatusOK, orderPageResponse(orders, total, page, limit))
}

// AdminUpdateStatus sets an order status directly (admin)
// PATCH /api/v1/admin/orders/:id/status
func (ctrl *OrderController) AdminUpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "유효하지 않은 주문 ID입니다")
		return
	}

	var req AdminUpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	order, err := ctrl.orderService.AdminUpdateStatus(orderID, service.AdminStatusInput{
		Status:         model.OrderStatus(req.Status),
		TrackingNumber: req.TrackingNumber,
		AdminMemo:      req.AdminMemo,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrderStatus):
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "유효하지 않은 주문 상태입니다")
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "주문을 찾을 수 없습니다")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.RespondWithError(c, http.StatusConflict, apperrors.ProductOutOfStock, "재고가 부족하여 상태를 변경할 수 없습니다")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order")
		}
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   order.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"order":   order,
	})
}

func orderPageResponse(orders []model.Order, total int64, page, limit int) gin.H {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	return gin.H{
		"orders":       orders,
		"total_orders": total,
		"current_page": page,
		"total_pages":  totalPages,
		"has_next":     page < totalPages,
		"has_prev":     page > 1,
	}
}
