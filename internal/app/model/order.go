package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string   // 주문 상태 코드
type PaymentStatus string // 결제 상태 코드
type PaymentMethod string // 결제 방법 코드

const (
	OrderStatusPending    OrderStatus = "pending"    // 결제 대기
	OrderStatusPaid       OrderStatus = "paid"       // 결제 완료
	OrderStatusProcessing OrderStatus = "processing" // 주문 처리 중
	OrderStatusShipped    OrderStatus = "shipped"    // 배송 중
	OrderStatusDelivered  OrderStatus = "delivered"  // 배송 완료
	OrderStatusCancelled  OrderStatus = "cancelled"  // 주문 취소

	PaymentStatusPending   PaymentStatus = "pending"   // 결제 대기
	PaymentStatusCompleted PaymentStatus = "completed" // 결제 완료
	PaymentStatusFailed    PaymentStatus = "failed"    // 결제 실패
	PaymentStatusCancelled PaymentStatus = "cancelled" // 결제 취소
	PaymentStatusRefunded  PaymentStatus = "refunded"  // 환불 완료

	PaymentMethodCard         PaymentMethod = "card"          // 카드
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer" // 계좌이체
	PaymentMethodKakaoPay     PaymentMethod = "kakao_pay"     // 카카오페이
	PaymentMethodNaverPay     PaymentMethod = "naver_pay"     // 네이버페이
	PaymentMethodTossPay      PaymentMethod = "toss_pay"      // 토스페이
)

// IsValidOrderStatus reports whether s is one of the known order statuses
func IsValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsValidPaymentStatus reports whether s is one of the known payment statuses
func IsValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed,
		PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// IsValidPaymentMethod reports whether m is one of the known payment methods
func IsValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodKakaoPay,
		PaymentMethodNaverPay, PaymentMethodTossPay:
		return true
	}
	return false
}

// IsCancellable reports whether an order in status s may be cancelled.
// No transition out of shipped, delivered or cancelled.
func (s OrderStatus) IsCancellable() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing:
		return true
	}
	return false
}

// IsTerminal reports whether s admits no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// ShippingAddress 배송지 정보 (주문에 내장)
type ShippingAddress struct {
	RecipientName string `gorm:"type:varchar(50);not null" json:"recipient_name"` // 수령인 (최대 50자)
	Phone         string `gorm:"type:varchar(30);not null" json:"phone"`          // 연락처
	Address       string `gorm:"type:varchar(200);not null" json:"address"`       // 주소 (최대 200자)
	DetailAddress string `gorm:"type:varchar(100)" json:"detail_address"`         // 상세주소 (최대 100자)
	DeliveryMemo  string `gorm:"type:varchar(200)" json:"delivery_memo"`          // 배송 메모 (최대 200자)
}

// Order 주문. 생성 이후 items/subtotal/totalAmount는 불변이며
// 상태/결제/배송 필드와 타임스탬프만 변경된다.
type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`                                       // 주문 ID
	OrderNumber     string          `gorm:"uniqueIndex;not null" json:"order_number"`                   // 주문번호 (ORD + YYMMDD + 4자리 순번)
	UserID          uint            `gorm:"not null;index" json:"user_id"`                              // 주문자 ID
	Subtotal        int64           `gorm:"not null" json:"subtotal"`                                   // 상품 총액
	TotalAmount     int64           `gorm:"not null" json:"total_amount"`                               // 총 결제 금액 (할인 없음, subtotal과 동일)
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`  // 배송지
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`          // 주문 상태
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`            // 결제 방법
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`  // 결제 상태
	PaymentID       string          `gorm:"type:varchar(100)" json:"payment_id,omitempty"`              // 외부 결제 토큰
	TrackingNumber  string          `gorm:"type:varchar(50)" json:"tracking_number,omitempty"`          // 운송장 번호
	CancelReason    string          `gorm:"type:varchar(200)" json:"cancel_reason,omitempty"`           // 취소 사유
	AdminMemo       string          `gorm:"type:varchar(200)" json:"admin_memo,omitempty"`              // 관리자 메모
	StockAdjusted   bool            `gorm:"not null;default:false" json:"-"`                            // 재고 차감 여부 (중복 차감/복구 방지)
	PaidAt          *time.Time      `json:"paid_at,omitempty"`                                          // 결제 시각
	ShippedAt       *time.Time      `json:"shipped_at,omitempty"`                                       // 발송 시각
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`                                     // 배송 완료 시각
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`                                    // 생성 시각
	UpdatedAt       time.Time       `json:"updated_at"`                                                 // 수정 시각
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`                                             // 삭제 시각(소프트 삭제)

	User  User        `gorm:"foreignKey:UserID" json:"user,omitempty"`                              // 주문자
	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // 주문 항목
}

func (Order) TableName() string {
	return "orders"
}

// OrderLine 주문 항목. 단가는 장바구니 스냅샷 가격이며 이후 상품 가격
// 변동의 영향을 받지 않는다.
type OrderLine struct {
	ID        uint           `gorm:"primarykey" json:"id"`             // 항목 ID
	OrderID   uint           `gorm:"not null;index" json:"order_id"`   // 주문 ID
	ProductID uint           `gorm:"not null;index" json:"product_id"` // 상품 ID
	Quantity  int            `gorm:"not null" json:"quantity"`         // 수량
	UnitPrice int64          `gorm:"not null" json:"unit_price"`       // 단가 스냅샷
	Color     string         `gorm:"type:varchar(30);default:''" json:"color"` // 선택 색상
	Size      string         `gorm:"type:varchar(30);default:''" json:"size"`  // 선택 사이즈
	CreatedAt time.Time      `json:"created_at"`                       // 생성 시각
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                   // 삭제 시각(소프트 삭제)

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`                   // 주문
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 상품 정보
}

func (OrderLine) TableName() string {
	return "order_lines"
}

// RecalculateAmounts recomputes subtotal and total from the lines.
// Called once at creation; orders are immutable afterwards.
func (o *Order) RecalculateAmounts() {
	var subtotal int64
	for _, line := range o.Lines {
		subtotal += line.UnitPrice * int64(line.Quantity)
	}
	o.Subtotal = subtotal
	o.TotalAmount = subtotal
}
