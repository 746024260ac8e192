package portfolio

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"phPortfolio/internal/content"
	"phPortfolio/internal/database"
)

// Redis keys shared by the API and the revalidation worker.
const (
	SnapshotCacheKey = "portfolio:snapshot"
	EventsChannel    = "portfolio:events"
)

// Snapshot 是公开站点一次渲染所需的全部内容，
// 每个节段独立加载：某一节失败时置空，不影响其余节段。
type Snapshot struct {
	Home        *database.Home                        `json:"home"`
	Skills      []content.Group[database.Skill]       `json:"skills"`
	Projects    []content.Group[database.Project]     `json:"projects"`
	Experience  []content.Group[database.Experience]  `json:"experience"`
	Blog        []content.Group[database.BlogPost]    `json:"blog"`
	Contact     []content.Group[database.Contact]     `json:"contact"`
	GeneratedAt time.Time                             `json:"generated_at"`
}

// Builder 负责并行拉取六个集合并按类别分组。
type Builder struct {
	db     *gorm.DB
	stores *Stores
	logger *slog.Logger
}

// NewBuilder 构造快照构建器。
func NewBuilder(db *gorm.DB, stores *Stores, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{db: db, stores: stores, logger: logger}
}

// Build 构建一份快照。六个读取并行发出，互不阻塞；
// 返回的 complete 表示是否所有节段都成功，调用方据此决定要不要缓存。
func (b *Builder) Build(ctx context.Context) (*Snapshot, bool) {
	snapshot := &Snapshot{GeneratedAt: time.Now().UTC()}
	complete := true

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	fail := func(section string, err error) {
		b.logger.Error("snapshot section failed",
			slog.String("section", section),
			slog.Any("error", err),
		)
		mu.Lock()
		complete = false
		mu.Unlock()
	}

	wg.Add(6)
	go func() {
		defer wg.Done()
		// 单例读取：取第一行；不存在视为节段缺失而非错误。
		var rows []database.Home
		if err := b.db.WithContext(ctx).Limit(1).Find(&rows).Error; err != nil {
			fail("home", err)
			return
		}
		if len(rows) > 0 {
			home := rows[0]
			snapshot.Home = &home
		}
	}()
	go func() {
		defer wg.Done()
		rows, err := b.stores.Skills.List(ctx)
		if err != nil {
			fail("skills", err)
			return
		}
		snapshot.Skills = content.GroupByCategory(rows, content.SkillCategories,
			func(s database.Skill) string { return s.Category })
	}()
	go func() {
		defer wg.Done()
		rows, err := b.stores.Projects.List(ctx)
		if err != nil {
			fail("projects", err)
			return
		}
		snapshot.Projects = content.GroupByCategory(rows, content.ProjectCategories,
			func(p database.Project) string { return p.Category })
	}()
	go func() {
		defer wg.Done()
		rows, err := b.stores.Experience.List(ctx)
		if err != nil {
			fail("experience", err)
			return
		}
		snapshot.Experience = content.GroupByCategory(rows, content.ExperienceCategories,
			func(e database.Experience) string { return e.Category })
	}()
	go func() {
		defer wg.Done()
		rows, err := b.stores.Blog.List(ctx)
		if err != nil {
			fail("blog", err)
			return
		}
		snapshot.Blog = content.GroupByCategory(rows, content.BlogCategories,
			func(p database.BlogPost) string { return p.Category })
	}()
	go func() {
		defer wg.Done()
		rows, err := b.stores.Contact.List(ctx)
		if err != nil {
			fail("contact", err)
			return
		}
		snapshot.Contact = content.GroupByCategory(rows, content.ContactPlatforms,
			func(c database.Contact) string { return c.Platform })
	}()

	wg.Wait()
	return snapshot, complete
}
