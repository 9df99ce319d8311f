package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/jykim/modacloset-backend/internal/errors"
	"github.com/jykim/modacloset-backend/internal/app/model"
	"github.com/jykim/modacloset-backend/internal/app/repository"
	"github.com/jykim/modacloset-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrInvalidTransition   = errors.New("order status transition not allowed")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrInvalidPayment      = errors.New("invalid payment method")
	ErrOrderNumberExhausted = errors.New("failed to allocate order number")
)

// ErrProductUnavailable wraps the name of the product that blocked a
// checkout so the client can show which line to fix.
type ErrProductUnavailable struct {
	ProductID   uint
	ProductName string
	Reason      string
}

func (e *ErrProductUnavailable) Error() string {
	return fmt.Sprintf("product %q unavailable: %s", e.ProductName, e.Reason)
}

// CheckoutInput 주문 생성 입력
type CheckoutInput struct {
	ShippingAddress model.ShippingAddress
	PaymentMethod   model.PaymentMethod
}

// AdminStatusInput 관리자 상태 변경 입력
type AdminStatusInput struct {
	Status         model.OrderStatus
	TrackingNumber string
	AdminMemo      string
}

type OrderService interface {
	Checkout(userID uint, input CheckoutInput) (*model.Order, error)
	GetUserOrders(userID uint, status model.OrderStatus, page, limit int) ([]model.Order, int64, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	CancelOrder(userID, orderID uint, reason string) (*model.Order, error)
	CompletePayment(userID, orderID uint, paymentID string) (*model.Order, error)
	AdminListOrders(status model.OrderStatus, paymentStatus model.PaymentStatus, page, limit int) ([]model.Order, int64, error)
	AdminUpdateStatus(orderID uint, input AdminStatusInput) (*model.Order, error)
	ExpireStalePending(olderThan time.Duration) (int, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	db        *gorm.DB
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, db *gorm.DB) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		db:        db,
	}
}

// Checkout converts the user's cart into a pending order inside a single
// transaction: validate lines, snapshot prices, allocate an order number,
// persist the order, clear the cart. An order number collision (two
// checkouts racing for the same-day sequence) restarts the whole
// transaction once.
func (s *orderService) Checkout(userID uint, input CheckoutInput) (*model.Order, error) {
	logger.Info("Starting checkout", map[string]interface{}{
		"user_id":        userID,
		"payment_method": input.PaymentMethod,
	})

	if !model.IsValidPaymentMethod(input.PaymentMethod) {
		return nil, ErrInvalidPayment
	}

	const maxAttempts = 2
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		order, err := s.checkoutOnce(userID, input)
		if err == nil {
			logger.Info("Checkout completed", map[string]interface{}{
				"user_id":      userID,
				"order_id":     order.ID,
				"order_number": order.OrderNumber,
				"total_amount": order.TotalAmount,
				"attempt":      attempt,
			})
			return order, nil
		}

		lastErr = err
		if apperrors.IsUniqueViolation(err) {
			logger.Warn("Order number collision, retrying checkout", map[string]interface{}{
				"user_id": userID,
				"attempt": attempt,
			})
			continue
		}
		return nil, err
	}

	logger.Error("Checkout failed after retries", lastErr, map[string]interface{}{
		"user_id": userID,
	})
	return nil, ErrOrderNumberExhausted
}

func (s *orderService) checkoutOnce(userID uint, input CheckoutInput) (*model.Order, error) {
	var order *model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		cart, err := cartRepo.FindByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		if len(cart.Lines) == 0 {
			return ErrEmptyCart
		}

		lines := make([]model.OrderLine, 0, len(cart.Lines))
		for _, cartLine := range cart.Lines {
			var product model.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, cartLine.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ErrProductUnavailable{
						ProductID:   cartLine.ProductID,
						ProductName: cartLine.Product.Name,
						Reason:      "product no longer exists",
					}
				}
				return err
			}
			if !product.IsActive {
				return &ErrProductUnavailable{
					ProductID:   product.ID,
					ProductName: product.Name,
					Reason:      "product is not for sale",
				}
			}
			if product.StockQuantity < cartLine.Quantity {
				logger.Warn("Insufficient stock during checkout", map[string]interface{}{
					"user_id":    userID,
					"product_id": product.ID,
					"stock":      product.StockQuantity,
					"requested":  cartLine.Quantity,
				})
				return &ErrProductUnavailable{
					ProductID:   product.ID,
					ProductName: product.Name,
					Reason:      "insufficient stock",
				}
			}

			// 장바구니에 담을 때 스냅샷한 가격을 그대로 사용
			lines = append(lines, model.OrderLine{
				ProductID: product.ID,
				Quantity:  cartLine.Quantity,
				UnitPrice: cartLine.UnitPrice,
				Color:     cartLine.Color,
				Size:      cartLine.Size,
			})
		}

		orderNumber, err := s.nextOrderNumber(orderRepo)
		if err != nil {
			return err
		}

		order = &model.Order{
			OrderNumber:     orderNumber,
			UserID:          userID,
			ShippingAddress: input.ShippingAddress,
			Status:          model.OrderStatusPending,
			PaymentMethod:   input.PaymentMethod,
			PaymentStatus:   model.PaymentStatusPending,
			Lines:           lines,
		}
		order.RecalculateAmounts()

		if err := orderRepo.Create(order); err != nil {
			return err
		}

		if err := cartRepo.ClearLines(cart.ID); err != nil {
			return err
		}
		cart.Lines = nil
		cart.Recalculate()
		return cartRepo.Save(cart)
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// nextOrderNumber allocates ORD + YYMMDD + zero-padded sequence, one
// past the highest number already issued for today's prefix. Deriving
// from the issued numbers (not a created_at count) keeps the allocator
// correct for backdated or restored rows. Uniqueness is still enforced
// by the order_number index; a race shows up as a unique violation on
// insert and the caller retries.
func (s *orderService) nextOrderNumber(orderRepo repository.OrderRepository) (string, error) {
	prefix := "ORD" + time.Now().Format("060102")

	latest, err := orderRepo.LatestOrderNumber(prefix)
	if err != nil {
		return "", err
	}

	seq := 1
	if latest != "" {
		n, err := strconv.Atoi(latest[len(prefix):])
		if err != nil {
			return "", fmt.Errorf("malformed order number %q: %w", latest, err)
		}
		seq = n + 1
	}

	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (s *orderService) GetUserOrders(userID uint, status model.OrderStatus, page, limit int) ([]model.Order, int64, error) {
	if status != "" && !model.IsValidOrderStatus(status) {
		return nil, 0, ErrInvalidOrderStatus
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	return s.orderRepo.FindWithFilter(repository.OrderFilter{
		UserID: userID,
		Status: status,
		Page:   page,
		Limit:  limit,
	})
}

// GetOrderByID returns the order only to its owner. A mismatch is
// reported as not found rather than forbidden, so order IDs cannot be
// probed.
func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Order ownership mismatch", map[string]interface{}{
			"order_id":      orderID,
			"owner_id":      order.UserID,
			"requester_id":  userID,
		})
		return nil, ErrOrderNotFound
	}

	return order, nil
}

// CancelOrder cancels the user's own order. Allowed from pending, paid
// and processing; stock is restored only if it was decremented.
func (s *orderService) CancelOrder(userID, orderID uint, reason string) (*model.Order, error) {
	logger.Info("Cancelling order", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.GetOrderByID(userID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.IsCancellable() {
		logger.Warn("Order not cancellable in current status", map[string]interface{}{
			"order_id": orderID,
			"status":   order.Status,
		})
		return nil, ErrOrderNotCancellable
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.cancelInTx(tx, order, reason)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Order cancelled", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
	return order, nil
}

func (s *orderService) cancelInTx(tx *gorm.DB, order *model.Order, reason string) error {
	orderRepo := s.orderRepo.WithTx(tx)

	if order.StockAdjusted {
		if err := s.restoreStock(tx, order); err != nil {
			return err
		}
		order.StockAdjusted = false
	}

	order.Status = model.OrderStatusCancelled
	order.CancelReason = reason
	if order.PaymentStatus == model.PaymentStatusCompleted {
		order.PaymentStatus = model.PaymentStatusRefunded
	} else {
		order.PaymentStatus = model.PaymentStatusCancelled
	}

	return orderRepo.Save(order)
}

// CompletePayment marks the user's pending order as paid and decrements
// stock. Stock moves exactly once per order (StockAdjusted guard).
func (s *orderService) CompletePayment(userID, orderID uint, paymentID string) (*model.Order, error) {
	logger.Info("Completing payment", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.GetOrderByID(userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != model.OrderStatusPending {
		logger.Warn("Payment completion rejected: order not pending", map[string]interface{}{
			"order_id": orderID,
			"status":   order.Status,
		})
		return nil, ErrInvalidTransition
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.deductStock(tx, order); err != nil {
			return err
		}

		now := time.Now()
		order.Status = model.OrderStatusPaid
		order.PaymentStatus = model.PaymentStatusCompleted
		order.PaymentID = paymentID
		order.PaidAt = &now
		order.StockAdjusted = true

		return s.orderRepo.WithTx(tx).Save(order)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payment completed", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
	return order, nil
}

func (s *orderService) AdminListOrders(status model.OrderStatus, paymentStatus model.PaymentStatus, page, limit int) ([]model.Order, int64, error) {
	if status != "" && !model.IsValidOrderStatus(status) {
		return nil, 0, ErrInvalidOrderStatus
	}
	if paymentStatus != "" && !model.IsValidPaymentStatus(paymentStatus) {
		return nil, 0, ErrInvalidOrderStatus
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	return s.orderRepo.FindWithFilter(repository.OrderFilter{
		Status:        status,
		PaymentStatus: paymentStatus,
		Page:          page,
		Limit:         limit,
	})
}

// AdminUpdateStatus sets any valid status directly. Admins may need to
// fix operational mistakes, so transitions are not validated here; side
// effects (timestamps, stock) still fire for the statuses that have them.
func (s *orderService) AdminUpdateStatus(orderID uint, input AdminStatusInput) (*model.Order, error) {
	logger.Info("Admin updating order status", map[string]interface{}{
		"order_id": orderID,
		"status":   input.Status,
	})

	if !model.IsValidOrderStatus(input.Status) {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		switch input.Status {
		case model.OrderStatusPaid:
			if !order.StockAdjusted {
				if err := s.deductStock(tx, order); err != nil {
					return err
				}
				order.StockAdjusted = true
			}
			if order.PaidAt == nil {
				order.PaidAt = &now
			}
			order.PaymentStatus = model.PaymentStatusCompleted

		case model.OrderStatusShipped:
			if order.ShippedAt == nil {
				order.ShippedAt = &now
			}
			if input.TrackingNumber != "" {
				order.TrackingNumber = input.TrackingNumber
			}

		case model.OrderStatusDelivered:
			if order.DeliveredAt == nil {
				order.DeliveredAt = &now
			}

		case model.OrderStatusCancelled:
			if order.StockAdjusted {
				if err := s.restoreStock(tx, order); err != nil {
					return err
				}
				order.StockAdjusted = false
			}
			if order.PaymentStatus == model.PaymentStatusCompleted {
				order.PaymentStatus = model.PaymentStatusRefunded
			} else {
				order.PaymentStatus = model.PaymentStatusCancelled
			}
		}

		order.Status = input.Status
		if input.AdminMemo != "" {
			order.AdminMemo = input.AdminMemo
		}

		return s.orderRepo.WithTx(tx).Save(order)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Order status updated by admin", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
	})
	return order, nil
}

// ExpireStalePending cancels pending orders that were never paid within
// the configured window. Returns the number of orders cancelled.
func (s *orderService) ExpireStalePending(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	orders, err := s.orderRepo.FindStalePending(cutoff)
	if err != nil {
		return 0, err
	}
	if len(orders) == 0 {
		return 0, nil
	}

	logger.Info("Expiring stale pending orders", map[string]interface{}{
		"count":  len(orders),
		"cutoff": cutoff,
	})

	expired := 0
	for i := range orders {
		order := &orders[i]
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return s.cancelInTx(tx, order, "결제 기한 초과로 자동 취소")
		})
		if err != nil {
			// 한 건 실패해도 나머지는 계속 처리
			logger.Error("Failed to expire pending order", err, map[string]interface{}{
				"order_id": order.ID,
			})
			continue
		}
		expired++
	}

	logger.Info("Stale pending orders expired", map[string]interface{}{
		"expired": expired,
	})
	return expired, nil
}

func (s *orderService) deductStock(tx *gorm.DB, order *model.Order) error {
	for _, line := range order.Lines {
		var product model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, line.ProductID).Error; err != nil {
			return err
		}
		if product.StockQuantity < line.Quantity {
			logger.Warn("Insufficient stock during payment", map[string]interface{}{
				"order_id":   order.ID,
				"product_id": product.ID,
				"stock":      product.StockQuantity,
				"requested":  line.Quantity,
			})
			return ErrInsufficientStock
		}
		product.StockQuantity -= line.Quantity
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *orderService) restoreStock(tx *gorm.DB, order *model.Order) error {
	for _, line := range order.Lines {
		var product model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, line.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 상품이 삭제됐으면 복구할 재고가 없음
				continue
			}
			return err
		}
		product.StockQuantity += line.Quantity
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
	}
	return nil
}
