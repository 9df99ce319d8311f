package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jykim/modacloset-backend/pkg/logger"
	appRedis "github.com/jykim/modacloset-backend/pkg/redis"
)

// Hub 장바구니 이벤트용 WebSocket 연결 관리자. 사용자별로 요약 이벤트를
// 푸시하며 채팅 기능은 없다.
type Hub struct {
	// 등록된 클라이언트들 (UserID -> []*Client - 멀티 디바이스 지원)
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	notify     chan CartSummary

	mu sync.RWMutex
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		notify:     make(chan CartSummary, 1024),
	}
}

// Run Hub 실행
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// 멀티 디바이스 지원: 클라이언트 리스트에 추가
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}
				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}
				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case summary := <-h.notify:
			h.deliver(summary)
		}
	}
}

func (h *Hub) deliver(summary CartSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		logger.Error("Failed to marshal cart summary", err, nil)
		return
	}

	h.mu.RLock()
	clientList := h.clients[summary.UserID]
	h.mu.RUnlock()

	for _, client := range clientList {
		select {
		case client.Send <- data:
			// 전송 성공
		default:
			// Send 채널이 막혀있음 - 비동기로 정리
			go h.Unregister(client)
			logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
				"user_id": summary.UserID,
			})
		}
	}
}

// Notify queues a cart summary for delivery to the user's sessions.
func (h *Hub) Notify(summary CartSummary) {
	select {
	case h.notify <- summary:
	default:
		// 이벤트 유실 허용 (주요 로직에 영향 없음)
		logger.Warn("Notify channel full, cart summary dropped", map[string]interface{}{
			"user_id": summary.UserID,
		})
	}
}

// Register 클라이언트 등록
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 클라이언트 등록 해제
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline 사용자 온라인 여부 확인
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// RunRelay subscribes to the Redis cart summary channel and fans events
// out to local WebSocket clients. Blocks until ctx is cancelled.
func (h *Hub) RunRelay(ctx context.Context) {
	pubsub := appRedis.Subscribe(ctx, CartSummaryChannel)
	defer pubsub.Close()

	logger.Info("Cart summary relay started", map[string]interface{}{
		"channel": CartSummaryChannel,
	})

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Cart summary relay stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				logger.Warn("Cart summary subscription closed")
				return
			}

			var summary CartSummary
			if err := json.Unmarshal([]byte(msg.Payload), &summary); err != nil {
				logger.Warn("Failed to parse cart summary payload", map[string]interface{}{
					"error": err.Error(),
				})
				continue
			}
			h.Notify(summary)
		}
	}
}
