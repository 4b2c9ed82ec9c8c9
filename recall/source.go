package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Source 表示一个可复用的召回源（共现/热门/...）。
// 可以把它理解为“可并发 fan-out 的策略单元”。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// Catalog 是召回源所需的只读数据视图，由 dataset.Dataset 实现。
// 加载完成后视图不可变，可被并发读取。
type Catalog interface {
	// Interested 返回用户的兴趣集合（任一信号 > 0 的商品）
	Interested(uid int64) map[int64]struct{}

	// BrandOf 返回商品品牌，未收录时返回 "unknown"
	BrandOf(pid int64) string

	// Ranked 返回按热度分降序排列的全站热门榜
	Ranked() []core.ProductPopularity
}
