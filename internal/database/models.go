package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 表示后台账号信息。
type User struct {
	gorm.Model
	Username           string `gorm:"uniqueIndex;size:64"`
	PasswordHash       string `gorm:"size:255"`
	IsAdmin            bool   `gorm:"default:false"`
	MustChangePassword bool   `gorm:"default:false"`
}

// OrderedRow 是所有可排序内容表共享的列。
// 内容表不做软删除（Delete 即物理删除），因此不内嵌 gorm.Model。
type OrderedRow struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	SortOrder int       `gorm:"index;not null" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordID 返回行主键。
func (r *OrderedRow) RecordID() uint { return r.ID }

// PutSortOrder 写入排序键，仅在 Create 时由存储层调用。
func (r *OrderedRow) PutSortOrder(n int) { r.SortOrder = n }

// Home 是门户首页的单例内容，仅存在一行，由启动流程预置。
type Home struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	Name             string    `gorm:"size:128" json:"name"`
	Role             string    `gorm:"size:128" json:"role"`
	ValueProposition string    `gorm:"type:text" json:"value_proposition"`
	PhotoURL         string    `gorm:"size:512" json:"photo_url"`
	Email            string    `gorm:"size:255" json:"email"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Home) TableName() string { return "home" }

// Skill 表示技能卡片。
type Skill struct {
	OrderedRow
	Name     string `gorm:"size:128" json:"name"`
	Category string `gorm:"size:64;index" json:"category"`
	LogoURL  string `gorm:"size:512" json:"logo_url"`
}

// Project 表示作品集里的一个项目。
type Project struct {
	OrderedRow
	Title        string         `gorm:"size:255" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Category     string         `gorm:"size:64;index" json:"category"`
	ThumbnailURL string         `gorm:"size:512" json:"thumbnail_url"`
	DemoURL      *string        `gorm:"size:512" json:"demo_url"`
	ViewURL      *string        `gorm:"size:512" json:"view_url"`
	Technologies datatypes.JSON `gorm:"type:jsonb" json:"technologies"`
}

// Experience 表示一段经历，时间字段保持表单的 YYYY-MM-DD 文本格式。
type Experience struct {
	OrderedRow
	Title        string         `gorm:"size:255" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Category     string         `gorm:"size:64;index" json:"category"`
	ThumbnailURL string         `gorm:"size:512" json:"thumbnail_url"`
	DemoURL      *string        `gorm:"size:512" json:"demo_url"`
	ViewURL      *string        `gorm:"size:512" json:"view_url"`
	Technologies datatypes.JSON `gorm:"type:jsonb" json:"technologies"`
	DateStart    *string        `gorm:"size:32" json:"date_start"`
	DateEnd      *string        `gorm:"size:32" json:"date_end"`
}

func (Experience) TableName() string { return "experience" }

// BlogPost 表示一篇博客摘要卡片，正文可选。
type BlogPost struct {
	OrderedRow
	Title        string  `gorm:"size:255" json:"title"`
	Description  string  `gorm:"type:text" json:"description"`
	Category     string  `gorm:"size:64;index" json:"category"`
	ThumbnailURL string  `gorm:"size:512" json:"thumbnail_url"`
	Content      *string `gorm:"type:text" json:"content"`
	ViewURL      *string `gorm:"size:512" json:"view_url"`
	ReadTime     *int    `json:"read_time"`
}

func (BlogPost) TableName() string { return "blog" }

// Contact 表示一条联系渠道。
type Contact struct {
	OrderedRow
	Platform string `gorm:"size:64;index" json:"platform"`
	URL      string `gorm:"size:512" json:"url"`
}

func (Contact) TableName() string { return "contact" }
