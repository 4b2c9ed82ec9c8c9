package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Popular 是热门召回源：按全站热度榜顺序产出候选，
// 跳过用户兴趣集合内的商品（已接触过的商品不再兜底推荐）。
// 对未知用户兴趣集合为空，产出即完整热门榜。
//
// Popular 同时实现 Source 和 Node 接口，可直接在 Pipeline 中使用。
type Popular struct {
	Data Catalog
}

func (r *Popular) Name() string        { return "recall.popular" }
func (r *Popular) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Popular) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Popular) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Data == nil {
		return nil, nil
	}

	var interested map[int64]struct{}
	if rctx != nil {
		interested = r.Data.Interested(rctx.UserID)
	}

	ranked := r.Data.Ranked()
	out := make([]*core.Item, 0, len(ranked))
	for _, row := range ranked {
		if _, ok := interested[row.PID]; ok {
			continue
		}
		it := core.NewItem(row.PID)
		it.Score = row.Score
		it.Brand = row.Brand
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*Popular)(nil)
var _ pipeline.Node = (*Popular)(nil)
