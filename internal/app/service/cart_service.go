package service

import (
	"errors"

	"github.com/jykim/modacloset-backend/internal/app/model"
	"github.com/jykim/modacloset-backend/internal/app/repository"
	"github.com/jykim/modacloset-backend/internal/events"
	"github.com/jykim/modacloset-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartLineNotFound = errors.New("cart line not found")
	ErrInvalidQuantity  = errors.New("quantity must be between 1 and 10")
)

// AddItemInput 장바구니 담기 입력
type AddItemInput struct {
	ProductID uint
	Quantity  int
	Color     string
	Size      string
}

type CartService interface {
	GetCart(userID uint) (*model.Cart, error)
	AddItem(userID uint, input AddItemInput) (*model.Cart, error)
	UpdateQuantity(userID, lineID uint, quantity int) (*model.Cart, error)
	RemoveItem(userID, lineID uint) (*model.Cart, error)
	Clear(userID uint) (*model.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	publisher   events.Publisher
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, publisher events.Publisher) CartService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *cartService) GetCart(userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	logger.Info("Creating cart on first access", map[string]interface{}{
		"user_id": userID,
	})

	cart = &model.Cart{UserID: userID}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) AddItem(userID uint, input AddItemInput) (*model.Cart, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": input.ProductID,
		"quantity":   input.Quantity,
		"color":      input.Color,
		"size":       input.Size,
	})

	product, err := s.productRepo.FindByID(input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"product_id": input.ProductID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		logger.Warn("Cannot add to cart: product not for sale", map[string]interface{}{
			"product_id": input.ProductID,
		})
		return nil, ErrProductInactive
	}

	quantity := model.ClampQuantity(input.Quantity)

	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	if line := cart.FindLine(input.ProductID, input.Color, input.Size); line != nil {
		// 동일 항목: 수량 합산, 상한에서 포화
		line.Quantity = model.ClampQuantity(line.Quantity + quantity)
	} else {
		cart.Lines = append(cart.Lines, model.CartLine{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  quantity,
			UnitPrice: product.Price, // 담는 시점 가격 스냅샷
			Color:     input.Color,
			Size:      input.Size,
		})
	}

	cart.Recalculate()
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}

	s.publishSummary(cart)

	logger.Info("Item added to cart", map[string]interface{}{
		"user_id":     userID,
		"cart_id":     cart.ID,
		"total_items": cart.TotalItems,
	})
	return s.cartRepo.FindByUserID(userID)
}

func (s *cartService) UpdateQuantity(userID, lineID uint, quantity int) (*model.Cart, error) {
	logger.Info("Updating cart line quantity", map[string]interface{}{
		"user_id":      userID,
		"cart_line_id": lineID,
		"quantity":     quantity,
	})

	// 수량 지정은 보정 없이 거부
	if !model.IsValidQuantity(quantity) {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	line := cart.FindLineByID(lineID)
	if line == nil {
		logger.Warn("Cart line not found", map[string]interface{}{
			"user_id":      userID,
			"cart_line_id": lineID,
		})
		return nil, ErrCartLineNotFound
	}

	line.Quantity = quantity
	cart.Recalculate()
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}

	s.publishSummary(cart)
	return s.cartRepo.FindByUserID(userID)
}

// RemoveItem deletes a line from the cart. Removing a line that does not
// exist is a no-op, not an error.
func (s *cartService) RemoveItem(userID, lineID uint) (*model.Cart, error) {
	logger.Info("Removing item from cart", map[string]interface{}{
		"user_id":      userID,
		"cart_line_id": lineID,
	})

	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	line := cart.FindLineByID(lineID)
	if line == nil {
		logger.Debug("Cart line already absent, nothing to remove", map[string]interface{}{
			"user_id":      userID,
			"cart_line_id": lineID,
		})
		return cart, nil
	}

	if err := s.cartRepo.DeleteLine(line.ID); err != nil {
		return nil, err
	}

	cart, err = s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	cart.Recalculate()
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}

	s.publishSummary(cart)
	return cart, nil
}

func (s *cartService) Clear(userID uint) (*model.Cart, error) {
	logger.Info("Clearing cart", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.ClearLines(cart.ID); err != nil {
		return nil, err
	}

	cart.Lines = nil
	cart.Recalculate()
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}

	s.publishSummary(cart)
	return cart, nil
}

func (s *cartService) publishSummary(cart *model.Cart) {
	s.publisher.PublishCartSummary(events.CartSummary{
		UserID:     cart.UserID,
		TotalItems: cart.TotalItems,
		TotalPrice: cart.TotalPrice,
	})
}
