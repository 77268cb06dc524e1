package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"freelance-invoice-api/internal/application/notification"
)

// NotificationStore 将 mini app 通知写入定长 Redis 列表（最新在前）
type NotificationStore struct {
	client *Client
	key    string
	maxLen int64
}

// NewNotificationStore 创建通知存储，maxLen<=0 表示不截断
func NewNotificationStore(client *Client, key string, maxLen int64) *NotificationStore {
	return &NotificationStore{client: client, key: key, maxLen: maxLen}
}

// Save 实现 notification.Store
func (s *NotificationStore) Save(ctx context.Context, rec *notification.Record) error {
	ctx, span := tracer.Start(ctx, "redis.NotificationStore.Save")
	span.SetAttributes(
		attribute.String("redis.key", s.key),
		attribute.String("notification.id", rec.ID),
	)
	defer span.End()

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	pipe := s.client.rdb.TxPipeline()
	pipe.LPush(ctx, s.key, payload)
	if s.maxLen > 0 {
		pipe.LTrim(ctx, s.key, 0, s.maxLen-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}

// Name 存储名称，用于指标标签
func (s *NotificationStore) Name() string {
	return "redis"
}
