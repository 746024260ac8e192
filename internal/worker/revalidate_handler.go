package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"phPortfolio/internal/errcode"
	"phPortfolio/internal/portfolio"
	"phPortfolio/internal/tasks"
)

// snapshotRedis 是重建任务用到的那一小片 Redis 能力。
type snapshotRedis interface {
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RevalidateHandler 消费快照重建任务：丢弃旧缓存、重建、写回，
// 并把结果事件广播给在线的后台会话。
type RevalidateHandler struct {
	builder     *portfolio.Builder
	redisClient snapshotRedis
	logger      *slog.Logger
	snapshotTTL time.Duration
}

// NewRevalidateHandler 构造处理器。
func NewRevalidateHandler(db *gorm.DB, stores *portfolio.Stores, redisClient snapshotRedis, logger *slog.Logger, snapshotTTL time.Duration) *RevalidateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RevalidateHandler{
		builder:     portfolio.NewBuilder(db, stores, logger),
		redisClient: redisClient,
		logger:      logger,
		snapshotTTL: snapshotTTL,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *RevalidateHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload tasks.RevalidatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// 载荷损坏时重试没有意义。
		return fmt.Errorf("decode revalidate payload: %v: %w", err, asynq.SkipRetry)
	}

	logger := h.logger.With(
		slog.String("collection", payload.Collection),
		slog.String("correlation_id", payload.CorrelationID),
	)

	if err := h.redisClient.Del(ctx, portfolio.SnapshotCacheKey).Err(); err != nil {
		logger.Error("drop stale snapshot failed", slog.Any("error", err))
		h.publish(ctx, payload, errcode.SystemError, "failed to drop stale snapshot")
		return fmt.Errorf("drop stale snapshot: %w", err)
	}

	snapshot, complete := h.builder.Build(ctx)
	if !complete {
		// 旧缓存已删除，下一次公开请求会现场重建；只告警不中断。
		logger.Warn("snapshot rebuilt with missing sections")
		h.publish(ctx, payload, errcode.ResourceMissing, "snapshot rebuilt with missing sections")
		return nil
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("encode snapshot failed", slog.Any("error", err))
		h.publish(ctx, payload, errcode.SystemError, "failed to encode snapshot")
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := h.redisClient.Set(ctx, portfolio.SnapshotCacheKey, data, h.snapshotTTL).Err(); err != nil {
		logger.Error("cache snapshot failed", slog.Any("error", err))
		h.publish(ctx, payload, errcode.SystemError, "failed to cache snapshot")
		return fmt.Errorf("cache snapshot: %w", err)
	}

	logger.Info("portfolio snapshot revalidated")
	h.publish(ctx, payload, errcode.OK, "")
	return nil
}

func (h *RevalidateHandler) publish(ctx context.Context, payload tasks.RevalidatePayload, code int, message string) {
	status := "revalidated"
	if code != errcode.OK {
		status = "failed"
	}
	event := ContentUpdateMessage{
		Status:        status,
		Collection:    payload.Collection,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     code,
		ErrorMessage:  message,
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("encode content update event failed", slog.Any("error", err))
		return
	}
	if err := h.redisClient.Publish(ctx, portfolio.EventsChannel, data).Err(); err != nil {
		h.logger.Error("publish content update event failed", slog.Any("error", err))
	}
}
