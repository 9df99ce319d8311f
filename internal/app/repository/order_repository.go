package repository

import (
	"time"

	"github.com/jykim/modacloset-backend/internal/app/model"
	"github.com/jykim/modacloset-backend/pkg/logger"
	"gorm.io/gorm"
)

// OrderFilter 주문 목록 조회 필터 (관리자용은 UserID 0으로 전체 조회)
type OrderFilter struct {
	UserID        uint
	Status        model.OrderStatus   // 빈 값이면 전체
	PaymentStatus model.PaymentStatus // 빈 값이면 전체
	Page          int
	Limit         int
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByOrderNumber(orderNumber string) (*model.Order, error)
	FindWithFilter(filter OrderFilter) ([]model.Order, int64, error)
	Save(order *model.Order) error
	LatestOrderNumber(prefix string) (string, error)
	FindStalePending(before time.Time) ([]model.Order, error)
	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) OrderRepository
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"order_number": order.OrderNumber,
			"user_id":      order.UserID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	err := r.db.Preload("Lines").
		Preload("Lines.Product").
		First(&order, id).Error
	if err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) FindByOrderNumber(orderNumber string) (*model.Order, error) {
	logger.Debug("Finding order by order number in database", map[string]interface{}{
		"order_number": orderNumber,
	})

	var order model.Order
	err := r.db.Where("order_number = ?", orderNumber).
		Preload("Lines").
		Preload("Lines.Product").
		First(&order).Error
	if err != nil {
		logger.Error("Failed to find order by order number in database", err, map[string]interface{}{
			"order_number": orderNumber,
		})
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) FindWithFilter(filter OrderFilter) ([]model.Order, int64, error) {
	logger.Debug("Finding orders with filter in database", map[string]interface{}{
		"user_id": filter.UserID,
		"status":  filter.Status,
		"page":    filter.Page,
		"limit":   filter.Limit,
	})

	query := r.db.Model(&model.Order{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count orders in database", err)
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		query = query.Offset(offset).Limit(filter.Limit)
	}

	var orders []model.Order
	err := query.Order("created_at DESC").
		Preload("Lines").
		Preload("Lines.Product").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders in database", err)
		return nil, 0, err
	}

	logger.Debug("Orders found in database", map[string]interface{}{
		"count": len(orders),
		"total": total,
	})
	return orders, total, nil
}

func (r *orderRepository) Save(order *model.Order) error {
	logger.Debug("Saving order in database", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
	})

	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to save order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}

	return nil
}

// LatestOrderNumber returns the highest order number with the given
// prefix, or an empty string if none exists. The suffix is fixed-width
// zero-padded, so lexicographic order matches numeric order.
func (r *orderRepository) LatestOrderNumber(prefix string) (string, error) {
	var numbers []string
	err := r.db.Model(&model.Order{}).
		Unscoped().
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &numbers).Error
	if err != nil {
		logger.Error("Failed to find latest order number in database", err, map[string]interface{}{
			"prefix": prefix,
		})
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

// FindStalePending returns pending orders created before the cutoff.
func (r *orderRepository) FindStalePending(before time.Time) ([]model.Order, error) {
	logger.Debug("Finding stale pending orders in database", map[string]interface{}{
		"before": before,
	})

	var orders []model.Order
	err := r.db.Where("status = ? AND created_at < ?", model.OrderStatusPending, before).
		Preload("Lines").
		Preload("Lines.Product").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find stale pending orders in database", err)
		return nil, err
	}

	return orders, nil
}
