package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"phPortfolio/internal/database"
	"phPortfolio/internal/errcode"
	"phPortfolio/internal/portfolio"
	"phPortfolio/internal/tasks"
)

type fakeSnapshotRedis struct {
	entries   map[string]string
	deleted   []string
	sets      int
	published []string
}

func newFakeSnapshotRedis() *fakeSnapshotRedis {
	return &fakeSnapshotRedis{entries: map[string]string{}}
}

func (f *fakeSnapshotRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		f.deleted = append(f.deleted, key)
		delete(f.entries, key)
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func (f *fakeSnapshotRedis) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.sets++
	if b, ok := value.([]byte); ok {
		f.entries[key] = string(b)
	}
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeSnapshotRedis) Publish(ctx context.Context, _ string, message any) *redis.IntCmd {
	if b, ok := message.([]byte); ok {
		f.published = append(f.published, string(b))
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(1)
	return cmd
}

func newWorkerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.ContentModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newRevalidateTask(t *testing.T, collection, correlationID string) *asynq.Task {
	t.Helper()
	task, err := tasks.NewRevalidateTask(collection, correlationID)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	return task
}

func lastEvent(t *testing.T, fake *fakeSnapshotRedis) ContentUpdateMessage {
	t.Helper()
	if len(fake.published) == 0 {
		t.Fatal("expected a published event")
	}
	var event ContentUpdateMessage
	if err := json.Unmarshal([]byte(fake.published[len(fake.published)-1]), &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	return event
}

func TestProcessTaskRecachesCompleteSnapshot(t *testing.T) {
	db := newWorkerTestDB(t)
	stores := portfolio.NewStores(db)
	ctx := context.Background()

	if _, err := stores.Skills.Create(ctx, &database.Skill{Name: "Go", Category: "Backend"}); err != nil {
		t.Fatalf("seed skill: %v", err)
	}

	fake := newFakeSnapshotRedis()
	fake.entries[portfolio.SnapshotCacheKey] = "stale"

	handler := NewRevalidateHandler(db, stores, fake, nil, time.Minute)
	if err := handler.ProcessTask(ctx, newRevalidateTask(t, "skills", "cid-1")); err != nil {
		t.Fatalf("process task: %v", err)
	}

	if len(fake.deleted) != 1 || fake.deleted[0] != portfolio.SnapshotCacheKey {
		t.Fatalf("stale snapshot not dropped: %v", fake.deleted)
	}
	if fake.sets != 1 {
		t.Fatalf("expected one cache write got %d", fake.sets)
	}
	cached, ok := fake.entries[portfolio.SnapshotCacheKey]
	if !ok {
		t.Fatal("rebuilt snapshot missing from cache")
	}
	var snapshot portfolio.Snapshot
	if err := json.Unmarshal([]byte(cached), &snapshot); err != nil {
		t.Fatalf("decode cached snapshot: %v", err)
	}
	if len(snapshot.Skills) == 0 {
		t.Fatal("cached snapshot lost its sections")
	}

	event := lastEvent(t, fake)
	if event.Status != "revalidated" || event.ErrorCode != errcode.OK {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Collection != "skills" || event.CorrelationID != "cid-1" {
		t.Fatalf("event lost task context: %+v", event)
	}
}

func TestProcessTaskDoesNotCacheDegradedRebuild(t *testing.T) {
	db := newWorkerTestDB(t)
	stores := portfolio.NewStores(db)

	if err := db.Migrator().DropTable(&database.BlogPost{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	fake := newFakeSnapshotRedis()
	fake.entries[portfolio.SnapshotCacheKey] = "stale"

	handler := NewRevalidateHandler(db, stores, fake, nil, time.Minute)
	// 降级重建不重试：旧缓存已删，公开路径会现场构建。
	if err := handler.ProcessTask(context.Background(), newRevalidateTask(t, "blog", "cid-2")); err != nil {
		t.Fatalf("degraded rebuild must not be retried: %v", err)
	}

	if fake.sets != 0 {
		t.Fatalf("degraded snapshot must never be cached, got %d writes", fake.sets)
	}
	if _, ok := fake.entries[portfolio.SnapshotCacheKey]; ok {
		t.Fatal("degraded snapshot pinned in cache")
	}

	event := lastEvent(t, fake)
	if event.Status != "failed" || event.ErrorCode != errcode.ResourceMissing {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestProcessTaskCorruptPayloadSkipsRetry(t *testing.T) {
	db := newWorkerTestDB(t)
	handler := NewRevalidateHandler(db, portfolio.NewStores(db), newFakeSnapshotRedis(), nil, time.Minute)

	task := asynq.NewTask(tasks.TypeRevalidate, []byte("{not json"))
	err := handler.ProcessTask(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("corrupt payload must skip retry, got %v", err)
	}
}
