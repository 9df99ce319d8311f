package events

// CartSummary 장바구니 요약 이벤트. 장바구니가 변경될 때마다 발행되어
// 클라이언트의 장바구니 뱃지를 갱신한다.
type CartSummary struct {
	UserID     uint  `json:"user_id"`
	TotalItems int   `json:"total_items"`
	TotalPrice int64 `json:"total_price"`
}

// Publisher publishes cart summary events. Implementations must not
// block the caller; event loss is acceptable.
type Publisher interface {
	PublishCartSummary(summary CartSummary)
}

// NoopPublisher is used when Redis is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishCartSummary(CartSummary) {}
