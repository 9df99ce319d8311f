package scheduler

import (
	"time"

	"github.com/jykim/modacloset-backend/internal/app/service"
	"github.com/jykim/modacloset-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// OrderScheduler 미결제 주문 자동 취소 스케줄러
type OrderScheduler struct {
	cron          *cron.Cron
	orderService  service.OrderService
	pendingExpiry time.Duration
}

// NewOrderScheduler 주문 스케줄러 생성
func NewOrderScheduler(orderService service.OrderService, pendingExpiry time.Duration) *OrderScheduler {
	return &OrderScheduler{
		cron:          cron.New(),
		orderService:  orderService,
		pendingExpiry: pendingExpiry,
	}
}

// Start 스케줄러 시작
func (s *OrderScheduler) Start() error {
	// 매시 정각에 결제 기한이 지난 pending 주문 취소
	// cron 표현식: "0 * * * *" = 매시 0분
	_, err := s.cron.AddFunc("0 * * * *", func() {
		logger.Info("Starting scheduled pending order expiry", map[string]interface{}{
			"pending_expiry": s.pendingExpiry.String(),
		})

		expired, err := s.orderService.ExpireStalePending(s.pendingExpiry)
		if err != nil {
			logger.Error("Failed to expire pending orders from scheduler", err)
			return
		}

		logger.Info("Scheduled pending order expiry completed", map[string]interface{}{
			"expired": expired,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for pending order expiry", err)
		return err
	}

	s.cron.Start()
	logger.Info("Order scheduler started successfully (hourly)", nil)

	return nil
}

// Stop 스케줄러 중지
func (s *OrderScheduler) Stop() {
	logger.Info("Stopping order scheduler...")
	s.cron.Stop()
	logger.Info("Order scheduler stopped")
}
