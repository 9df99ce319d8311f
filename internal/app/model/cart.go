package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	MinLineQuantity = 1  // 항목당 최소 수량
	MaxLineQuantity = 10 // 항목당 최대 수량
)

// Cart 사용자당 하나의 장바구니 (user_id unique)
type Cart struct {
	ID         uint           `gorm:"primarykey" json:"id"`                // 장바구니 ID
	UserID     uint           `gorm:"not null;uniqueIndex" json:"user_id"` // 소유자 ID (1:1)
	TotalItems int            `gorm:"not null;default:0" json:"total_items"` // 총 수량 (파생값)
	TotalPrice int64          `gorm:"not null;default:0" json:"total_price"` // 총 금액 (파생값)
	CreatedAt  time.Time      `json:"created_at"`                          // 생성 시각
	UpdatedAt  time.Time      `json:"updated_at"`                          // 수정 시각
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                      // 삭제 시각(소프트 삭제)

	User  User       `gorm:"foreignKey:UserID" json:"-"`                                          // 소유자
	Lines []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"` // 담긴 항목
}

func (Cart) TableName() string {
	return "carts"
}

// CartLine 장바구니 항목. (product_id, color, size)가 항목의 식별 단위
type CartLine struct {
	ID        uint           `gorm:"primarykey" json:"id"`             // 항목 ID
	CartID    uint           `gorm:"not null;index" json:"cart_id"`    // 장바구니 ID
	ProductID uint           `gorm:"not null;index" json:"product_id"` // 상품 ID
	Quantity  int            `gorm:"not null;default:1" json:"quantity"` // 수량 (1-10)
	UnitPrice int64          `gorm:"not null" json:"unit_price"`       // 담을 당시 단가 스냅샷
	Color     string         `gorm:"type:varchar(30);default:''" json:"color"` // 선택 색상
	Size      string         `gorm:"type:varchar(30);default:''" json:"size"`  // 선택 사이즈
	CreatedAt time.Time      `json:"created_at"`                       // 생성 시각
	UpdatedAt time.Time      `json:"updated_at"`                       // 수정 시각
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                   // 삭제 시각(소프트 삭제)

	Cart    Cart    `gorm:"foreignKey:CartID" json:"-"`                    // 소속 장바구니
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 상품 정보
}

func (CartLine) TableName() string {
	return "cart_lines"
}

// ClampQuantity 수량을 [1, 10] 범위로 보정
func ClampQuantity(q int) int {
	if q < MinLineQuantity {
		return MinLineQuantity
	}
	if q > MaxLineQuantity {
		return MaxLineQuantity
	}
	return q
}

// IsValidQuantity 수량이 허용 범위인지 검사 (보정 없이)
func IsValidQuantity(q int) bool {
	return q >= MinLineQuantity && q <= MaxLineQuantity
}

// FindLine returns the line matching (productID, color, size), or nil.
func (c *Cart) FindLine(productID uint, color, size string) *CartLine {
	for i := range c.Lines {
		line := &c.Lines[i]
		if line.ProductID == productID && line.Color == color && line.Size == size {
			return line
		}
	}
	return nil
}

// FindLineByID returns the line with the given ID, or nil.
func (c *Cart) FindLineByID(lineID uint) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}

// Recalculate recomputes the derived totals from the lines. Must be
// called before every persist; totals are never mutated independently.
func (c *Cart) Recalculate() {
	totalItems := 0
	var totalPrice int64
	for _, line := range c.Lines {
		totalItems += line.Quantity
		totalPrice += line.UnitPrice * int64(line.Quantity)
	}
	c.TotalItems = totalItems
	c.TotalPrice = totalPrice
}
