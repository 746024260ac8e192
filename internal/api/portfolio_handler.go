package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"phPortfolio/internal/api/middleware"
	"phPortfolio/internal/portfolio"
)

// snapshotCache 是公开路径用到的那一小片 Redis 能力。
type snapshotCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// PortfolioHandler 服务公开站点的读取路径。
// 读取走 cache-aside：命中 Redis 快照直接返回；未命中现场构建，
// 仅当所有节段都成功时写回缓存，避免把降级结果钉住。
type PortfolioHandler struct {
	builder     *portfolio.Builder
	cache       snapshotCache
	snapshotTTL time.Duration
}

// NewPortfolioHandler 构造公开读取处理器。
func NewPortfolioHandler(builder *portfolio.Builder, cache snapshotCache, snapshotTTL time.Duration) *PortfolioHandler {
	return &PortfolioHandler{
		builder:     builder,
		cache:       cache,
		snapshotTTL: snapshotTTL,
	}
}

// GetPortfolio 返回整站快照：六个节段并行加载、按类别分组。
// 单个节段失败渲染为空节段，不阻塞其余节段。
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	if h.cache != nil {
		cached, err := h.cache.Get(ctx, portfolio.SnapshotCacheKey).Bytes()
		switch {
		case err == nil:
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		case !errors.Is(err, redis.Nil):
			// 缓存不可用不阻塞公开页面，直接落库构建。
			logger.Warn("snapshot cache read failed", slog.Any("error", err))
		}
	}

	snapshot, complete := h.builder.Build(ctx)
	data, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("encode snapshot failed", slog.Any("error", err))
		Internal(c, "failed to render portfolio")
		return
	}

	if complete && h.cache != nil {
		if err := h.cache.Set(ctx, portfolio.SnapshotCacheKey, data, h.snapshotTTL).Err(); err != nil {
			logger.Warn("snapshot cache write failed", slog.Any("error", err))
		}
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}
