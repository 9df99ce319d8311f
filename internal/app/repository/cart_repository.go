package repository

import (
	"errors"

	"github.com/jykim/modacloset-backend/internal/app/model"
	"github.com/jykim/modacloset-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cart *model.Cart) error
	FindByUserID(userID uint) (*model.Cart, error)
	Save(cart *model.Cart) error
	DeleteLine(lineID uint) error
	ClearLines(cartID uint) error
	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) CartRepository
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) WithTx(tx *gorm.DB) CartRepository {
	return &cartRepository{db: tx}
}

func (r *cartRepository) Create(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id": cart.UserID,
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	logger.Debug("Finding cart by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.Cart
	err := r.db.Where("user_id = ?", userID).
		Preload("Lines").
		Preload("Lines.Product").
		First(&cart).Error
	if err != nil {
		// 장바구니 없음은 최초 접근 시 정상 경로 (지연 생성)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug("Cart not found for user", map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}
		logger.Error("Failed to find cart by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart found by user ID in database", map[string]interface{}{
		"cart_id":    cart.ID,
		"user_id":    userID,
		"line_count": len(cart.Lines),
	})
	return &cart, nil
}

// Save persists the cart including its lines. FullSaveAssociations makes
// quantity changes on existing lines stick.
func (r *cartRepository) Save(cart *model.Cart) error {
	logger.Debug("Saving cart in database", map[string]interface{}{
		"cart_id":     cart.ID,
		"user_id":     cart.UserID,
		"total_items": cart.TotalItems,
		"total_price": cart.TotalPrice,
	})

	if err := r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(cart).Error; err != nil {
		logger.Error("Failed to save cart in database", err, map[string]interface{}{
			"cart_id": cart.ID,
			"user_id": cart.UserID,
		})
		return err
	}

	return nil
}

func (r *cartRepository) DeleteLine(lineID uint) error {
	logger.Debug("Deleting cart line from database", map[string]interface{}{
		"cart_line_id": lineID,
	})

	if err := r.db.Delete(&model.CartLine{}, lineID).Error; err != nil {
		logger.Error("Failed to delete cart line from database", err, map[string]interface{}{
			"cart_line_id": lineID,
		})
		return err
	}

	return nil
}

func (r *cartRepository) ClearLines(cartID uint) error {
	logger.Debug("Clearing cart lines from database", map[string]interface{}{
		"cart_id": cartID,
	})

	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartLine{}).Error; err != nil {
		logger.Error("Failed to clear cart lines from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}

	logger.Debug("Cart lines cleared from database", map[string]interface{}{
		"cart_id": cartID,
	})
	return nil
}
