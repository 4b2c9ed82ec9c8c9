// Package dsl 提供基于 CEL (Common Expression Language) 的规则表达式求值，
// 用于配置驱动的候选过滤（例如按品牌/商品排除）。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/shoprec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Rule 是一条编译后的布尔规则表达式，线程安全，可跨请求复用。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：item.brand == "acme" / item.id == 42
//   - 数值：item.score > 0.7
//   - 逻辑：item.brand == "acme" && item.score < 1.0
//   - 标签：label.recall_source == "popular"
//   - 包含：item.brand in ["acme", "noname"]
//
// 访问不存在的 key 时 CEL 会报错，应使用 label.key != null 检查存在性。
type Rule struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。表达式必须为布尔类型；编译仅做一次，
// 之后可以在任意多个请求中并发调用 Match。
func Compile(expr string) (*Rule, error) {
	if expr == "" {
		return nil, fmt.Errorf("dsl: empty expression")
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("dsl: env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("dsl: compile %q: %w", expr, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program %q: %w", expr, err)
	}

	return &Rule{expr: expr, prg: prg}, nil
}

// String 返回原始表达式文本。
func (r *Rule) String() string { return r.expr }

// Match 对单个候选求值，返回布尔结果。
func (r *Rule) Match(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := r.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("dsl: eval %q: %w", r.expr, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: expression %q must return boolean, got %T", r.expr, out.Value())
	}
	return result, nil
}

func buildInput(it *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(it.Labels))
	labelAccessor := make(map[string]any, len(it.Labels))
	for k, v := range it.Labels {
		labels[k] = map[string]any{"value": v.Value, "source": v.Source}
		// label.recall_source 直接返回 value，便于书写短规则
		labelAccessor[k] = v.Value
	}

	item := map[string]any{
		"id":     it.ID,
		"brand":  it.Brand,
		"score":  it.Score,
		"labels": labels,
	}

	rc := map[string]any{}
	if rctx != nil {
		rc["user_id"] = rctx.UserID
		rc["params"] = rctx.Params
	}

	return map[string]any{
		"item":  item,
		"label": labelAccessor,
		"rctx":  rc,
	}
}
