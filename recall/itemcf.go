package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// ItemCF 是基于商品共现的召回源（Item-based CF 的共现简化形态）。
//
// 核心思想：“被同一批用户强互动过的商品互相关联”。
// 用户兴趣集合内的每个商品作为种子，其共现列表为候选投票；
// 候选 Score = 票数。未知用户（无兴趣种子）产出为空，由热门源兜底。
//
// ItemCF 同时实现 Source 和 Node 接口，可直接在 Pipeline 中使用。
type ItemCF struct {
	Table Table
	Data  Catalog
}

func (r *ItemCF) Name() string        { return "recall.itemcf" }
func (r *ItemCF) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *ItemCF) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *ItemCF) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Data == nil || rctx == nil {
		return nil, nil
	}

	interested := r.Data.Interested(rctx.UserID)
	if len(interested) == 0 {
		return nil, nil
	}

	cands := r.Table.Candidates(interested)
	out := make([]*core.Item, 0, len(cands))
	for _, c := range cands {
		it := core.NewItem(c.PID)
		it.Score = float64(c.Votes)
		it.Brand = r.Data.BrandOf(c.PID)
		it.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*ItemCF)(nil)
var _ pipeline.Node = (*ItemCF)(nil)
