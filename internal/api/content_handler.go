package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"phPortfolio/internal/api/middleware"
	"phPortfolio/internal/store"
)

var errInvalidRecordID = errors.New("invalid record id")

// ContentRequest 描述一种内容类型的表单契约：必填校验、类别约束、
// 可选字段归一化，以及整行覆盖所需的字段表。
type ContentRequest[T any] interface {
	// Validate 检查必填字段与类别枚举；存储层不做这层约束。
	Validate() error
	// Record 产出用于 Create 的新行（可选字段已归一化为 NULL）。
	Record() *T
	// Fields 产出用于 Update 的整行覆盖字段表，不包含 sort_order。
	Fields() map[string]any
}

// ContentHandler 是六个后台管理页共用的通用 CRUD 处理器。
// 每种内容类型只提供字段契约（R）与集合句柄，其余行为完全一致：
// 列表按 sort_order 返回，保存后由前端重新拉取列表，删除前由前端确认。
type ContentHandler[T any, PT interface {
	*T
	store.Record
}, R ContentRequest[T]] struct {
	collection string
	store      *store.Collection[T, PT]
	notifier   RevalidateNotifier
}

// NewContentHandler 绑定一种内容类型。
func NewContentHandler[T any, PT interface {
	*T
	store.Record
}, R ContentRequest[T]](collection string, col *store.Collection[T, PT], notifier RevalidateNotifier) *ContentHandler[T, PT, R] {
	return &ContentHandler[T, PT, R]{
		collection: collection,
		store:      col,
		notifier:   notifier,
	}
}

// List 返回集合全部行，按 sort_order 升序。
// 失败返回 503 而非空列表，让前端能区分“没有内容”和“加载失败”。
func (h *ContentHandler[T, PT, R]) List(c *gin.Context) {
	rows, err := h.store.List(c.Request.Context())
	if err != nil {
		h.storeError(c, err, "list")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Create 追加一条新记录到显示顺序末尾。
func (h *ContentHandler[T, PT, R]) Create(c *gin.Context) {
	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	row := req.Record()
	id, err := h.store.Create(c.Request.Context(), PT(row))
	if err != nil {
		h.storeError(c, err, "create")
		return
	}

	h.notifier.ContentChanged(c.Request.Context(), h.collection, middleware.GetCorrelationID(c))
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Update 整行覆盖指定记录的可变字段；sort_order 保持不变。
func (h *ContentHandler[T, PT, R]) Update(c *gin.Context) {
	id, err := recordIDFromParam(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid record id")
		return
	}

	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	if err := h.store.Update(ctx, id, req.Fields()); err != nil {
		h.storeError(c, err, "update")
		return
	}

	// 写入已提交，立即触发快照重建；后面的回读只服务响应体。
	h.notifier.ContentChanged(ctx, h.collection, middleware.GetCorrelationID(c))

	row, err := h.store.Get(ctx, id)
	if err != nil {
		h.storeError(c, err, "reload")
		return
	}

	c.JSON(http.StatusOK, row)
}

// Delete 删除指定记录。删除动作不可撤销，确认步骤由前端承担。
func (h *ContentHandler[T, PT, R]) Delete(c *gin.Context) {
	id, err := recordIDFromParam(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid record id")
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "delete")
		return
	}

	h.notifier.ContentChanged(c.Request.Context(), h.collection, middleware.GetCorrelationID(c))
	c.Status(http.StatusNoContent)
}

func (h *ContentHandler[T, PT, R]) storeError(c *gin.Context, err error, action string) {
	logger := middleware.LoggerFromContext(c).With(
		slog.String("collection", h.collection),
		slog.String("action", action),
	)
	switch {
	case errors.Is(err, store.ErrNotFound):
		NotFound(c, "record not found")
	case errors.Is(err, store.ErrWriteRejected):
		logger.Info("write rejected", slog.Any("error", err))
		Unprocessable(c, "write rejected by store")
	default:
		logger.Error("store operation failed", slog.Any("error", err))
		Unavailable(c, "store unavailable")
	}
}

func recordIDFromParam(param string) (uint, error) {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, errInvalidRecordID
	}
	return uint(id), nil
}
