// Package notification 接收 Farcaster mini app 的 webhook 通知
package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"freelance-invoice-api/pkg/logger"
	"freelance-invoice-api/pkg/metrics"
)

// Record 一条已接收的通知
type Record struct {
	ID         string          `json:"id"`
	ReceivedAt time.Time       `json:"receivedAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Store 通知持久化
type Store interface {
	Save(ctx context.Context, rec *Record) error
	Name() string
}

// LogStore 只写日志的存储，Redis 未启用时使用
type LogStore struct{}

// Save 实现 Store
func (LogStore) Save(ctx context.Context, rec *Record) error {
	logger.Info(ctx, "mini app notification received",
		"notification_id", rec.ID,
		"payload", string(rec.Payload),
	)
	return nil
}

// Name 实现 Store
func (LogStore) Name() string {
	return "log"
}

// Service 通知服务
type Service struct {
	store Store
	now   func() time.Time
}

// NewService store 为 nil 时退化为 LogStore
func NewService(store Store) *Service {
	if store == nil {
		store = LogStore{}
	}
	return &Service{store: store, now: time.Now}
}

// Receive 记录一条通知并返回其 ID
func (s *Service) Receive(ctx context.Context, payload json.RawMessage) (*Record, error) {
	rec := &Record{
		ID:         uuid.NewString(),
		ReceivedAt: s.now().UTC(),
		Payload:    payload,
	}

	if err := s.store.Save(ctx, rec); err != nil {
		metrics.NotificationsReceived.WithLabelValues(s.store.Name(), "error").Inc()
		logger.Error(ctx, "failed to store notification", err, "notification_id", rec.ID)
		return nil, err
	}

	metrics.NotificationsReceived.WithLabelValues(s.store.Name(), "success").Inc()
	return rec, nil
}
