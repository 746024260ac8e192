package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"phPortfolio/internal/api/middleware"
	"phPortfolio/internal/database"
)

// HomeHandler 管理首页单例内容。
// home 表只有一行，由启动流程预置；这里没有创建与删除路径，只有读与整行覆盖。
type HomeHandler struct {
	db       *gorm.DB
	notifier RevalidateNotifier
}

// NewHomeHandler 构造 HomeHandler。
func NewHomeHandler(db *gorm.DB, notifier RevalidateNotifier) *HomeHandler {
	return &HomeHandler{db: db, notifier: notifier}
}

type homeRequest struct {
	Name             string `json:"name"`
	Role             string `json:"role"`
	ValueProposition string `json:"value_proposition"`
	PhotoURL         string `json:"photo_url"`
	Email            string `json:"email"`
}

func (r homeRequest) validate() error {
	return requireFields(
		"name", r.Name,
		"role", r.Role,
		"value_proposition", r.ValueProposition,
		"email", r.Email,
	)
}

// GetHome 返回单例首页内容。
func (h *HomeHandler) GetHome(c *gin.Context) {
	var rows []database.Home
	if err := h.db.WithContext(c.Request.Context()).Limit(1).Find(&rows).Error; err != nil {
		middleware.LoggerFromContext(c).Error("load home failed", slog.Any("error", err))
		Unavailable(c, "store unavailable")
		return
	}
	if len(rows) == 0 {
		NotFound(c, "home content not seeded")
		return
	}
	c.JSON(http.StatusOK, rows[0])
}

// UpdateHome 整行覆盖首页内容，成功后触发门户快照重建。
// 重建通知是 fire-and-forget：失败只记日志，既不回滚写入也不影响响应。
func (h *HomeHandler) UpdateHome(c *gin.Context) {
	var req homeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	var home database.Home
	if err := h.db.WithContext(ctx).First(&home).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "home content not seeded")
			return
		}
		logger.Error("load home failed", slog.Any("error", err))
		Unavailable(c, "store unavailable")
		return
	}

	updates := map[string]any{
		"name":              req.Name,
		"role":              req.Role,
		"value_proposition": req.ValueProposition,
		"photo_url":         req.PhotoURL,
		"email":             req.Email,
	}
	if err := h.db.WithContext(ctx).Model(&home).Updates(updates).Error; err != nil {
		logger.Error("update home failed", slog.Any("error", err))
		Unavailable(c, "store unavailable")
		return
	}

	if err := h.db.WithContext(ctx).First(&home, home.ID).Error; err != nil {
		logger.Error("reload home failed", slog.Any("error", err))
		Unavailable(c, "store unavailable")
		return
	}

	h.notifier.ContentChanged(ctx, "home", middleware.GetCorrelationID(c))
	c.JSON(http.StatusOK, home)
}
