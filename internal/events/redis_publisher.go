package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jykim/modacloset-backend/pkg/logger"
	appRedis "github.com/jykim/modacloset-backend/pkg/redis"
)

// CartSummaryChannel 장바구니 요약 이벤트가 발행되는 Redis 채널
const CartSummaryChannel = "cart:summary"

const publishTimeout = 2 * time.Second

// RedisPublisher publishes cart summary events through Redis pub/sub so
// every server instance can push them to its own WebSocket clients.
type RedisPublisher struct{}

func NewRedisPublisher() *RedisPublisher {
	return &RedisPublisher{}
}

func (p *RedisPublisher) PublishCartSummary(summary CartSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		logger.Error("Failed to marshal cart summary event", err, map[string]interface{}{
			"user_id": summary.UserID,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := appRedis.Publish(ctx, CartSummaryChannel, data); err != nil {
		// 이벤트 유실 허용: 뱃지 갱신 실패가 주문 흐름을 막으면 안 됨
		logger.Warn("Failed to publish cart summary event", map[string]interface{}{
			"user_id": summary.UserID,
			"error":   err.Error(),
		})
		return
	}

	logger.Debug("Cart summary event published", map[string]interface{}{
		"user_id":     summary.UserID,
		"total_items": summary.TotalItems,
	})
}
