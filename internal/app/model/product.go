package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProductCategory string // 상품 카테고리

const (
	CategoryOuter  ProductCategory = "outer"  // 아우터
	CategoryTop    ProductCategory = "top"    // 상의
	CategoryBottom ProductCategory = "bottom" // 하의
	CategoryAcc    ProductCategory = "acc"    // 액세서리
)

// IsValidCategory reports whether c is one of the known categories
func IsValidCategory(c ProductCategory) bool {
	switch c {
	case CategoryOuter, CategoryTop, CategoryBottom, CategoryAcc:
		return true
	}
	return false
}

type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`                           // 상품 ID
	SKU           string          `gorm:"uniqueIndex;not null" json:"sku"`                // SKU (대문자/숫자/하이픈)
	Name          string          `gorm:"not null" json:"name"`                           // 상품명 (최대 100자)
	Price         int64           `gorm:"not null" json:"price"`                          // 가격 (원 단위 정수)
	Category      ProductCategory `gorm:"type:varchar(20);not null" json:"category"`      // 카테고리
	ImageURL      string          `gorm:"not null" json:"image_url"`                      // 대표 이미지
	Description   string          `gorm:"type:text" json:"description"`                   // 설명 (최대 1000자)
	IsActive      bool            `gorm:"not null" json:"is_active"`                      // 판매 여부 (기본값 없음: false도 그대로 저장)
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`                // 재고 수량
	Colors        pq.StringArray  `gorm:"type:text[]" json:"colors,omitempty"`            // 선택 가능한 색상
	Sizes         pq.StringArray  `gorm:"type:text[]" json:"sizes,omitempty"`             // 선택 가능한 사이즈
	CreatedAt     time.Time       `json:"created_at"`                                     // 생성 시각
	UpdatedAt     time.Time       `json:"updated_at"`                                     // 수정 시각
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`                                 // 삭제 시각(소프트 삭제)

	// Relationships
	CartLines  []CartLine  `gorm:"foreignKey:ProductID" json:"-"`
	OrderLines []OrderLine `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
