package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"phPortfolio/internal/database"
	"phPortfolio/internal/portfolio"
)

type fakeSnapshotCache struct {
	entries map[string]string
	sets    int
}

func newFakeSnapshotCache() *fakeSnapshotCache {
	return &fakeSnapshotCache{entries: map[string]string{}}
}

func (f *fakeSnapshotCache) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if v, ok := f.entries[key]; ok {
		cmd.SetVal(v)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (f *fakeSnapshotCache) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.sets++
	switch v := value.(type) {
	case []byte:
		f.entries[key] = string(v)
	case string:
		f.entries[key] = v
	}
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func newPortfolioRouter(t *testing.T, cache snapshotCache) (*gin.Engine, *gorm.DB, *portfolio.Stores) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.ContentModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	stores := portfolio.NewStores(db)
	builder := portfolio.NewBuilder(db, stores, nil)
	handler := NewPortfolioHandler(builder, cache, time.Minute)

	router := gin.New()
	router.GET("/v1/portfolio", handler.GetPortfolio)
	return router, db, stores
}

func getPortfolio(t *testing.T, router *gin.Engine) (*httptest.ResponseRecorder, portfolio.Snapshot) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/portfolio", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var snapshot portfolio.Snapshot
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &snapshot); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
	}
	return w, snapshot
}

func TestGetPortfolioRendersGroupedSections(t *testing.T) {
	router, db, stores := newPortfolioRouter(t, nil)

	home := database.Home{ID: 1, Name: "Jane", Role: "Engineer", ValueProposition: "Builds things", Email: "jane@example.com"}
	if err := db.Create(&home).Error; err != nil {
		t.Fatalf("seed home: %v", err)
	}
	if _, err := stores.Skills.Create(context.Background(), &database.Skill{Name: "Go", Category: "Backend"}); err != nil {
		t.Fatalf("seed skill: %v", err)
	}

	w, snapshot := getPortfolio(t, router)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	if snapshot.Home == nil || snapshot.Home.Name != "Jane" {
		t.Fatalf("home section missing: %+v", snapshot.Home)
	}
	if len(snapshot.Skills) == 0 {
		t.Fatal("skills section missing")
	}
	found := false
	for _, g := range snapshot.Skills {
		if g.Category == "Backend" && len(g.Items) == 1 && g.Items[0].Name == "Go" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Backend group not rendered: %+v", snapshot.Skills)
	}
}

func TestGetPortfolioDegradedSectionStillServes(t *testing.T) {
	router, db, stores := newPortfolioRouter(t, nil)

	if _, err := stores.Contact.Create(context.Background(), &database.Contact{Platform: "GitHub", URL: "https://github.com/jane"}); err != nil {
		t.Fatalf("seed contact: %v", err)
	}
	if err := db.Migrator().DropTable(&database.Project{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	w, snapshot := getPortfolio(t, router)
	if w.Code != http.StatusOK {
		t.Fatalf("degraded snapshot must still serve, got %d", w.Code)
	}
	if snapshot.Projects != nil {
		t.Fatalf("failed section must be absent, got %+v", snapshot.Projects)
	}
	if len(snapshot.Contact) == 0 {
		t.Fatal("healthy sections must still be present")
	}
}

func TestGetPortfolioCachesOnlyCompleteSnapshots(t *testing.T) {
	cache := newFakeSnapshotCache()
	router, _, stores := newPortfolioRouter(t, cache)

	if _, err := stores.Skills.Create(context.Background(), &database.Skill{Name: "Go", Category: "Backend"}); err != nil {
		t.Fatalf("seed skill: %v", err)
	}

	w, _ := getPortfolio(t, router)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if cache.sets != 1 {
		t.Fatalf("complete snapshot must be cached once, got %d writes", cache.sets)
	}
	if _, ok := cache.entries[portfolio.SnapshotCacheKey]; !ok {
		t.Fatal("snapshot missing from cache")
	}

	// 后续写入不应穿透缓存：命中直接返回旧快照。
	if _, err := stores.Skills.Create(context.Background(), &database.Skill{Name: "Postgres", Category: "Backend"}); err != nil {
		t.Fatalf("seed second skill: %v", err)
	}
	_, snapshot := getPortfolio(t, router)
	for _, g := range snapshot.Skills {
		if g.Category == "Backend" && len(g.Items) != 1 {
			t.Fatalf("expected cached snapshot with 1 backend item, got %d", len(g.Items))
		}
	}
	if cache.sets != 1 {
		t.Fatalf("cache hit must not rewrite the snapshot, got %d writes", cache.sets)
	}
}

func TestGetPortfolioDegradedSnapshotNeverCached(t *testing.T) {
	cache := newFakeSnapshotCache()
	router, db, _ := newPortfolioRouter(t, cache)

	if err := db.Migrator().DropTable(&database.Project{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	w, snapshot := getPortfolio(t, router)
	if w.Code != http.StatusOK {
		t.Fatalf("degraded snapshot must still serve, got %d", w.Code)
	}
	if snapshot.Projects != nil {
		t.Fatalf("failed section must be absent, got %+v", snapshot.Projects)
	}

	if cache.sets != 0 {
		t.Fatalf("degraded snapshot must never be cached, got %d writes", cache.sets)
	}
	if _, ok := cache.entries[portfolio.SnapshotCacheKey]; ok {
		t.Fatal("degraded snapshot pinned in cache")
	}
}
