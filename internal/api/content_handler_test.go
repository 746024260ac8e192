package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"phPortfolio/internal/database"
	"phPortfolio/internal/store"
)

type fakeNotifier struct {
	changed []string
}

func (n *fakeNotifier) ContentChanged(_ context.Context, collection, _ string) {
	n.changed = append(n.changed, collection)
}

func newContentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.Skill{}, &database.BlogPost{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newSkillRouter(t *testing.T) (*gin.Engine, *fakeNotifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newContentTestDB(t)
	notifier := &fakeNotifier{}
	handler := NewContentHandler[database.Skill, *database.Skill, skillRequest](
		"skills", store.NewCollection[database.Skill](db), notifier)

	router := gin.New()
	registerContentRoutes(&router.RouterGroup, "/skills", handler)
	return router, notifier
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestContentHandlerCreateThenList(t *testing.T) {
	router, notifier := newSkillRouter(t)

	for _, name := range []string{"Go", "Postgres"} {
		w := doJSON(t, router, http.MethodPost, "/skills", gin.H{
			"name": name, "category": "Backend",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create %q: expected 201 got %d body=%s", name, w.Code, w.Body.String())
		}
	}

	w := doJSON(t, router, http.MethodGet, "/skills", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", w.Code)
	}

	var rows []database.Skill
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "Go" || rows[1].Name != "Postgres" {
		t.Fatalf("unexpected list: %+v", rows)
	}
	if rows[0].SortOrder != 0 || rows[1].SortOrder != 1 {
		t.Fatalf("unexpected sort orders: %d %d", rows[0].SortOrder, rows[1].SortOrder)
	}

	if len(notifier.changed) != 2 {
		t.Fatalf("expected 2 revalidate notifications got %d", len(notifier.changed))
	}
}

func TestContentHandlerRejectsBadCategory(t *testing.T) {
	router, notifier := newSkillRouter(t)

	w := doJSON(t, router, http.MethodPost, "/skills", gin.H{
		"name": "Go", "category": "Nonsense",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	if len(notifier.changed) != 0 {
		t.Fatal("rejected create must not notify")
	}
}

func TestContentHandlerRejectsMissingRequiredField(t *testing.T) {
	router, _ := newSkillRouter(t)

	w := doJSON(t, router, http.MethodPost, "/skills", gin.H{
		"name": "   ", "category": "Backend",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestContentHandlerUpdateReplacesRow(t *testing.T) {
	router, _ := newSkillRouter(t)

	w := doJSON(t, router, http.MethodPost, "/skills", gin.H{
		"name": "Go", "category": "Backend", "logo_url": "https://example.com/go.png",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d", w.Code)
	}
	var created struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}

	// 省略 logo_url：整行覆盖语义下旧值必须被清掉，而不是保留。
	w = doJSON(t, router, http.MethodPut, "/skills/1", gin.H{
		"name": "Golang", "category": "Tools",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var updated database.Skill
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if updated.Name != "Golang" || updated.Category != "Tools" {
		t.Fatalf("fields not replaced: %+v", updated)
	}
	if updated.LogoURL != "" {
		t.Fatalf("omitted field must be overwritten, got %q", updated.LogoURL)
	}
	if updated.SortOrder != 0 {
		t.Fatalf("update must not move the row, got sort_order %d", updated.SortOrder)
	}
}

func TestContentHandlerUpdateNotifiesEvenIfReloadFails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := newContentTestDB(t)
	notifier := &fakeNotifier{}
	col := store.NewCollection[database.Skill](db)
	handler := NewContentHandler[database.Skill, *database.Skill, skillRequest]("skills", col, notifier)

	router := gin.New()
	registerContentRoutes(&router.RouterGroup, "/skills", handler)

	if _, err := col.Create(context.Background(), &database.Skill{Name: "Go", Category: "Backend"}); err != nil {
		t.Fatalf("seed skill: %v", err)
	}

	// 写入路径完好，读取路径故障：响应体回读失败，但写入已提交。
	if err := db.Callback().Query().Before("gorm:query").Register("fail_reads", func(tx *gorm.DB) {
		tx.AddError(errors.New("read path down"))
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}

	w := doJSON(t, router, http.MethodPut, "/skills/1", gin.H{
		"name": "Golang", "category": "Backend",
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d body=%s", w.Code, w.Body.String())
	}

	// 快照重建跟随已提交的写入，不跟随回读结果。
	if len(notifier.changed) != 1 || notifier.changed[0] != "skills" {
		t.Fatalf("committed update must still notify, got %v", notifier.changed)
	}
}

func TestContentHandlerUpdateMissingRowIs404(t *testing.T) {
	router, notifier := newSkillRouter(t)

	w := doJSON(t, router, http.MethodPut, "/skills/999", gin.H{
		"name": "Ghost", "category": "Backend",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}
	if len(notifier.changed) != 0 {
		t.Fatal("failed update must not notify")
	}
}

func TestContentHandlerDelete(t *testing.T) {
	router, _ := newSkillRouter(t)

	w := doJSON(t, router, http.MethodPost, "/skills", gin.H{
		"name": "Go", "category": "Backend",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, "/skills/1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204 got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, "/skills/1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("repeat delete: expected 404 got %d", w.Code)
	}
}

func TestContentHandlerInvalidIDIs400(t *testing.T) {
	router, _ := newSkillRouter(t)

	w := doJSON(t, router, http.MethodDelete, "/skills/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestBlogPostRequestValidation(t *testing.T) {
	negative := -1
	req := blogPostRequest{
		Title:       "Post",
		Description: "Body",
		Category:    "What You Learned",
		ReadTime:    &negative,
	}
	if err := req.Validate(); err == nil {
		t.Fatal("negative read_time must be rejected")
	}

	req.ReadTime = nil
	if err := req.Validate(); err != nil {
		t.Fatalf("nil read_time must be allowed: %v", err)
	}
}
