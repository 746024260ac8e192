package api

import (
	"errors"
	"fmt"
	"strings"

	"phPortfolio/internal/content"
	"phPortfolio/internal/database"
)

// 六种内容类型的表单契约。这是每个管理页之间唯一的差异：
// 字段集合、类别枚举、哪些字段是可选的、哪个字段走逗号拼接。

func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%s is required", pairs[i])
		}
	}
	return nil
}

func requireCategory(allowed []string, value string) error {
	if !content.ValidCategory(allowed, value) {
		return fmt.Errorf("category must be one of: %s", strings.Join(allowed, ", "))
	}
	return nil
}

type skillRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	LogoURL  string `json:"logo_url"`
}

func (r skillRequest) Validate() error {
	if err := requireFields("name", r.Name); err != nil {
		return err
	}
	return requireCategory(content.SkillCategories, r.Category)
}

func (r skillRequest) Record() *database.Skill {
	return &database.Skill{
		Name:     r.Name,
		Category: r.Category,
		LogoURL:  r.LogoURL,
	}
}

func (r skillRequest) Fields() map[string]any {
	return map[string]any{
		"name":     r.Name,
		"category": r.Category,
		"logo_url": r.LogoURL,
	}
}

type projectRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	ThumbnailURL string `json:"thumbnail_url"`
	DemoURL      string `json:"demo_url"`
	ViewURL      string `json:"view_url"`
	Technologies string `json:"technologies"`
}

func (r projectRequest) Validate() error {
	if err := requireFields("title", r.Title, "description", r.Description); err != nil {
		return err
	}
	return requireCategory(content.ProjectCategories, r.Category)
}

func (r projectRequest) Record() *database.Project {
	return &database.Project{
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		ThumbnailURL: r.ThumbnailURL,
		DemoURL:      content.OptionalString(r.DemoURL),
		ViewURL:      content.OptionalString(r.ViewURL),
		Technologies: content.TechListJSON(content.ParseTechList(r.Technologies)),
	}
}

func (r projectRequest) Fields() map[string]any {
	return map[string]any{
		"title":         r.Title,
		"description":   r.Description,
		"category":      r.Category,
		"thumbnail_url": r.ThumbnailURL,
		"demo_url":      content.OptionalString(r.DemoURL),
		"view_url":      content.OptionalString(r.ViewURL),
		"technologies":  content.TechListJSON(content.ParseTechList(r.Technologies)),
	}
}

type experienceRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	ThumbnailURL string `json:"thumbnail_url"`
	DemoURL      string `json:"demo_url"`
	ViewURL      string `json:"view_url"`
	Technologies string `json:"technologies"`
	DateStart    string `json:"date_start"`
	DateEnd      string `json:"date_end"`
}

func (r experienceRequest) Validate() error {
	if err := requireFields("title", r.Title, "description", r.Description); err != nil {
		return err
	}
	return requireCategory(content.ExperienceCategories, r.Category)
}

func (r experienceRequest) Record() *database.Experience {
	return &database.Experience{
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		ThumbnailURL: r.ThumbnailURL,
		DemoURL:      content.OptionalString(r.DemoURL),
		ViewURL:      content.OptionalString(r.ViewURL),
		Technologies: content.TechListJSON(content.ParseTechList(r.Technologies)),
		DateStart:    content.OptionalString(r.DateStart),
		DateEnd:      content.OptionalString(r.DateEnd),
	}
}

func (r experienceRequest) Fields() map[string]any {
	return map[string]any{
		"title":         r.Title,
		"description":   r.Description,
		"category":      r.Category,
		"thumbnail_url": r.ThumbnailURL,
		"demo_url":      content.OptionalString(r.DemoURL),
		"view_url":      content.OptionalString(r.ViewURL),
		"technologies":  content.TechListJSON(content.ParseTechList(r.Technologies)),
		"date_start":    content.OptionalString(r.DateStart),
		"date_end":      content.OptionalString(r.DateEnd),
	}
}

type blogPostRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	ThumbnailURL string `json:"thumbnail_url"`
	Content      string `json:"content"`
	ViewURL      string `json:"view_url"`
	ReadTime     *int   `json:"read_time"`
}

func (r blogPostRequest) Validate() error {
	if err := requireFields("title", r.Title, "description", r.Description); err != nil {
		return err
	}
	if err := requireCategory(content.BlogCategories, r.Category); err != nil {
		return err
	}
	if r.ReadTime != nil && *r.ReadTime <= 0 {
		return errors.New("read_time must be positive")
	}
	return nil
}

func (r blogPostRequest) Record() *database.BlogPost {
	return &database.BlogPost{
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		ThumbnailURL: r.ThumbnailURL,
		Content:      content.OptionalString(r.Content),
		ViewURL:      content.OptionalString(r.ViewURL),
		ReadTime:     r.ReadTime,
	}
}

func (r blogPostRequest) Fields() map[string]any {
	return map[string]any{
		"title":         r.Title,
		"description":   r.Description,
		"category":      r.Category,
		"thumbnail_url": r.ThumbnailURL,
		"content":       content.OptionalString(r.Content),
		"view_url":      content.OptionalString(r.ViewURL),
		"read_time":     r.ReadTime,
	}
}

type contactRequest struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

func (r contactRequest) Validate() error {
	if err := requireFields("url", r.URL); err != nil {
		return err
	}
	if !content.ValidCategory(content.ContactPlatforms, r.Platform) {
		return fmt.Errorf("platform must be one of: %s", strings.Join(content.ContactPlatforms, ", "))
	}
	return nil
}

func (r contactRequest) Record() *database.Contact {
	return &database.Contact{
		Platform: r.Platform,
		URL:      r.URL,
	}
}

func (r contactRequest) Fields() map[string]any {
	return map[string]any{
		"platform": r.Platform,
		"url":      r.URL,
	}
}
