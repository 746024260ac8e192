package portfolio

import (
	"gorm.io/gorm"

	"phPortfolio/internal/database"
	"phPortfolio/internal/store"
)

// Stores 汇集六个内容集合的存储句柄。
// 连接在进程启动时构造一次，随后显式传入需要它的组件。
type Stores struct {
	Skills     *store.Collection[database.Skill, *database.Skill]
	Projects   *store.Collection[database.Project, *database.Project]
	Experience *store.Collection[database.Experience, *database.Experience]
	Blog       *store.Collection[database.BlogPost, *database.BlogPost]
	Contact    *store.Collection[database.Contact, *database.Contact]
}

// NewStores 绑定全部内容集合。
func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		Skills:     store.NewCollection[database.Skill](db),
		Projects:   store.NewCollection[database.Project](db),
		Experience: store.NewCollection[database.Experience](db),
		Blog:       store.NewCollection[database.BlogPost](db),
		Contact:    store.NewCollection[database.Contact](db),
	}
}
