// Package store provides ordered CRUD over a content collection.
//
// Every admin screen and the public render path go through the same four
// operations: List returns rows ascending by sort_order, Create appends at the
// end of the order, Update overwrites the mutable columns of one row, Delete
// removes exactly one row. Category grouping is deliberately not done here;
// it is a pure transform over an already-fetched list (internal/content).
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 存储层错误分类。调用方通过 errors.Is 区分，不依赖底层驱动错误。
var (
	// ErrStoreUnavailable 表示连接或传输层失败，空结果与查询失败必须可区分。
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrWriteRejected 表示约束冲突等被存储拒绝的写入。
	ErrWriteRejected = errors.New("write rejected")
	// ErrNotFound 表示目标行不存在。
	ErrNotFound = errors.New("record not found")
)

// Record 是内容行在存储层需要暴露的最小接口。
type Record interface {
	RecordID() uint
	PutSortOrder(int)
}

type recordOf[T any] interface {
	*T
	Record
}

// Collection 将一张内容表绑定为带稳定显示顺序的集合。
type Collection[T any, PT recordOf[T]] struct {
	db *gorm.DB
}

// NewCollection 绑定数据库连接。连接在进程启动时构造一次并显式传入。
func NewCollection[T any, PT recordOf[T]](db *gorm.DB) *Collection[T, PT] {
	return &Collection[T, PT]{db: db}
}

// List 返回按 sort_order 升序排列的全部行。
// 失败时返回空切片与可区分的错误，调用方不会把失败误读成空集合。
func (c *Collection[T, PT]) List(ctx context.Context) ([]T, error) {
	var rows []T
	if err := c.db.WithContext(ctx).
		Order("sort_order ASC").
		Find(&rows).Error; err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// Get 按主键取单行。
func (c *Collection[T, PT]) Get(ctx context.Context, id uint) (*T, error) {
	var row T
	if err := c.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, classify(err)
	}
	return &row, nil
}

// Create 在事务内取 max(sort_order)+1 作为新行的排序键并插入。
// 原实现用“当前行数”作排序键，删除留下的空洞会让并发创建撞键；
// max+1 保持追加语义，同时让空洞无害。
func (c *Collection[T, PT]) Create(ctx context.Context, row PT) (uint, error) {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(new(T)).
			Select("COALESCE(MAX(sort_order)+1, 0)").
			Scan(&next).Error; err != nil {
			return err
		}
		row.PutSortOrder(next)
		return tx.Create(row).Error
	})
	if err != nil {
		return 0, classify(err)
	}
	return row.RecordID(), nil
}

// Update 用字段表整行覆盖指定记录。sort_order 在写入前被剔除，永远不被触碰；
// updated_at 由 GORM 在写入时盖章。调用方传入的字段表不会被修改。
func (c *Collection[T, PT]) Update(ctx context.Context, id uint, fields map[string]any) error {
	updates := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "sort_order" {
			continue
		}
		updates[k] = v
	}
	if len(updates) == 0 {
		return fmt.Errorf("%w: empty field set", ErrWriteRejected)
	}

	res := c.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 物理删除一行。不存在时返回 ErrNotFound，其余行不受影响。
func (c *Collection[T, PT]) Delete(ctx context.Context, id uint) error {
	res := c.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count 返回集合行数。
func (c *Collection[T, PT]) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(new(T)).Count(&count).Error; err != nil {
		return 0, classify(err)
	}
	return count, nil
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated),
		errors.Is(err, gorm.ErrInvalidValue),
		errors.Is(err, gorm.ErrInvalidData):
		return fmt.Errorf("%w: %v", ErrWriteRejected, err)
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
