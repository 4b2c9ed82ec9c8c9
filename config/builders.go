package config

import (
	"fmt"

	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/conv"
	"github.com/rushteam/shoprec/rerank"
)

// 内置 Node 的构建器注册。配置示例见各 builder 注释。
func init() {
	Register("filter.rule", buildRuleFilterNode)
	Register("rerank.brand_diversity", buildBrandDiversityNode)
	Register("rerank.topn", buildTopNNode)
}

// buildRuleFilterNode 构建规则过滤节点。
//
//	type: filter.rule
//	config:
//	  exprs:
//	    - item.brand == "acme"
//	    - item.id in [101, 102]
func buildRuleFilterNode(config map[string]any) (pipeline.Node, error) {
	exprs := conv.SliceAnyToString(config["exprs"])
	if len(exprs) == 0 {
		return nil, fmt.Errorf("filter.rule: exprs not found or empty")
	}

	filters := make([]filter.Filter, 0, len(exprs))
	for _, expr := range exprs {
		f, err := filter.NewRule(expr)
		if err != nil {
			return nil, fmt.Errorf("filter.rule: %w", err)
		}
		filters = append(filters, f)
	}

	return &filter.FilterNode{Filters: filters}, nil
}

// buildBrandDiversityNode 构建品牌多样性节点。
//
//	type: rerank.brand_diversity
//	config:
//	  cap: 2
//	  cap_by_source:
//	    recall.itemcf: 2
//	    recall.popular: 1
func buildBrandDiversityNode(config map[string]any) (pipeline.Node, error) {
	node := &rerank.BrandDiversity{
		Cap: int(conv.ConfigGetInt64(config, "cap", 0)),
	}

	if raw, ok := config["cap_by_source"].(map[string]any); ok {
		caps := make(map[string]int, len(raw))
		for src, v := range raw {
			if n, ok := conv.ToInt64(v); ok {
				caps[src] = int(n)
			}
		}
		node.CapBySource = caps
	}

	return node, nil
}

// buildTopNNode 构建 Top-N 截断节点。
//
//	type: rerank.topn
//	config:
//	  n: 5
func buildTopNNode(config map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(config, "n", 0))}, nil
}
