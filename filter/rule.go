package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/dsl"
)

// Rule 是基于 CEL 表达式的规则过滤器：表达式命中的候选被剔除。
// 典型用途是配置驱动的品牌/商品排除，例如：
//
//	item.brand == "acme"
//	item.id in [101, 102]
//	label.recall_source == "recall.popular" && item.score < 0.1
//
// 表达式在构造时编译一次，之后可被任意请求并发复用。
type Rule struct {
	rule *dsl.Rule
}

// NewRule 编译表达式并返回规则过滤器；表达式非法时返回错误。
func NewRule(expr string) (*Rule, error) {
	r, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Rule{rule: r}, nil
}

func (f *Rule) Name() string {
	return "filter.rule(" + f.rule.String() + ")"
}

// ShouldFilter 表达式求值为 true 时剔除该候选。
// 求值错误（例如访问不存在的标签）由 FilterNode 按跳过处理。
func (f *Rule) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	return f.rule.Match(item, rctx)
}

var _ Filter = (*Rule)(nil)
