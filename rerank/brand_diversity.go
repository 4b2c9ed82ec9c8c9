package rerank

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// BrandDiversity 是品牌多样性重排节点。
//
// 始终以 (pid, brand) 对为键去重——同一商品同一品牌只出现一次；
// 在此之上可选品牌限额：
//   - Cap: 每个品牌在结果中的全局上限，0 表示不设限（默认策略）
//   - CapBySource: 按召回来源细分的品牌上限，key 为 recall_source 标签值。
//     历史上出现过的策略变体（共现候选每品牌 2 个、热门补位每品牌 1 个）
//     通过该配置表达，而不是写死在代码里。
type BrandDiversity struct {
	Cap         int
	CapBySource map[string]int
}

func (n *BrandDiversity) Name() string {
	return "rerank.brand_diversity"
}

func (n *BrandDiversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

type pairKey struct {
	pid   int64
	brand string
}

func (n *BrandDiversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	seen := make(map[pairKey]struct{}, len(items))
	brandTotal := make(map[string]int)
	brandBySource := make(map[string]map[string]int)

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}

		brand := it.Brand
		if brand == "" {
			brand = "unknown"
		}

		key := pairKey{pid: it.ID, brand: brand}
		if _, ok := seen[key]; ok {
			continue
		}

		if n.Cap > 0 && brandTotal[brand] >= n.Cap {
			continue
		}

		src := ""
		if lbl, ok := it.GetLabel("recall_source"); ok {
			src = lbl.Value
		}
		if cap, ok := n.CapBySource[src]; ok && cap > 0 {
			if brandBySource[src] == nil {
				brandBySource[src] = make(map[string]int)
			}
			if brandBySource[src][brand] >= cap {
				continue
			}
			brandBySource[src][brand]++
		}

		seen[key] = struct{}{}
		brandTotal[brand]++
		out = append(out, it)
	}

	return out, nil
}

var _ pipeline.Node = (*BrandDiversity)(nil)
