package api

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"phPortfolio/internal/tasks"
)

// RevalidateNotifier 在内容写入成功后触发门户快照重建。
// Fire-and-forget：入队失败只记日志，不回滚写入，也不打断响应。
type RevalidateNotifier interface {
	ContentChanged(ctx context.Context, collection, correlationID string)
}

type asynqRevalidateNotifier struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewRevalidateNotifier 用 asynq 客户端构造通知器。
func NewRevalidateNotifier(client *asynq.Client, logger *slog.Logger) RevalidateNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &asynqRevalidateNotifier{client: client, logger: logger}
}

func (n *asynqRevalidateNotifier) ContentChanged(_ context.Context, collection, correlationID string) {
	task, err := tasks.NewRevalidateTask(collection, correlationID)
	if err != nil {
		n.logger.Error("create revalidate task failed",
			slog.String("collection", collection),
			slog.Any("error", err),
		)
		return
	}
	if _, err := n.client.Enqueue(task, asynq.MaxRetry(3)); err != nil {
		n.logger.Error("enqueue revalidate task failed",
			slog.String("collection", collection),
			slog.Any("error", err),
		)
	}
}
