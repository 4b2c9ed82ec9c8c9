// Package engine 把聚合、热度排名、共现构建与候选选择装配为一个推荐引擎：
// 一次性阻塞加载，之后对任意并发的 Recommend 请求只读服务。
package engine

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/dataset"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/rank"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/rerank"
)

// DefaultTopN 是推荐结果的默认长度上限。
const DefaultTopN = 5

// Option 配置引擎构建。
type Option func(*options)

type options struct {
	topN             int
	brandCap         int
	brandCapBySource map[string]int
	nodes            []pipeline.Node
	store            core.Store
	log              zerolog.Logger
	rng              *rand.Rand
}

// WithTopN 设置结果长度上限（默认 5）。
func WithTopN(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.topN = n
		}
	}
}

// WithBrandCap 设置每品牌全局限额；0 表示只做 (pid, brand) 对级去重（默认策略）。
func WithBrandCap(n int) Option {
	return func(o *options) { o.brandCap = n }
}

// WithBrandCapBySource 按召回来源设置品牌限额，key 为召回源名称。
// 历史策略变体（recall.itemcf 每品牌 2 个、recall.popular 每品牌 1 个）由此表达。
func WithBrandCapBySource(caps map[string]int) Option {
	return func(o *options) { o.brandCapBySource = caps }
}

// WithNodes 在召回与品牌去重之间追加策略节点（例如 filter.FilterNode）。
func WithNodes(nodes ...pipeline.Node) Option {
	return func(o *options) { o.nodes = append(o.nodes, nodes...) }
}

// WithCache 启用聚合产物缓存。缓存是可选的软依赖：
// 读写失败只降级为本地重算，引擎行为与无缓存时完全一致。
func WithCache(s core.Store) Option {
	return func(o *options) { o.store = s }
}

// WithLogger 注入日志器（默认 Nop）。
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithRand 注入共现层内洗牌使用的随机源，测试中用于取得可复现构建。
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// Engine 是一份已加载数据集上的推荐引擎。
// 全部表在 New 内一次性构建完成，之后只读；
// Recommend 可被任意数量的并发请求调用，无需加锁。
type Engine struct {
	data    *dataset.Dataset
	cooccur recall.Table
	weights rank.Weights
	pipe    *pipeline.Pipeline
	topN    int
	log     zerolog.Logger
}

// New 从原始交互行构建引擎。
// 构建是原子的：返回的 Engine 要么完整可用，要么为 nil 并伴随错误；
// 部分构建的表不会暴露给任何调用方。
//
// 启用缓存时按产物做 read-through：三个产物全部命中且与本次聚合一致
// 则跳过共现重建与热门排序，否则本地重算并尽力写回。
func New(ctx context.Context, rows []core.Interaction, opts ...Option) (*Engine, error) {
	o := &options{
		topN: DefaultTopN,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	d := dataset.Aggregate(rows)
	cache := NewCache(o.store, o.log)

	e := &Engine{
		data: d,
		topN: o.topN,
		log:  o.log,
	}

	// 权重恒为本地计算：代价是 O(商品数)，而缓存的意义在共现表
	e.weights = rank.ComputeWeights(d.Popularity)
	for i := range d.Popularity {
		d.Popularity[i].Score = e.weights.Score(d.Popularity[i])
	}
	o.log.Debug().
		Float64("click", e.weights.Click).
		Float64("cart", e.weights.Cart).
		Float64("purchase", e.weights.Purchase).
		Msg("popularity weights")

	e.restoreOrCompute(ctx, cache, o.rng)

	if brands, ok := cache.LoadBrands(ctx); ok && len(brands) > 0 {
		d.Brands = brands
	} else {
		cache.SaveBrands(ctx, d.Brands)
	}

	sources := []recall.Source{
		&recall.ItemCF{Table: e.cooccur, Data: d},
		&recall.Popular{Data: d},
	}
	nodes := make([]pipeline.Node, 0, len(o.nodes)+3)
	nodes = append(nodes, &recall.Fanout{Sources: sources})
	nodes = append(nodes, o.nodes...)
	nodes = append(nodes, &rerank.BrandDiversity{Cap: o.brandCap, CapBySource: o.brandCapBySource})
	nodes = append(nodes, &rerank.TopNNode{N: o.topN})
	e.pipe = &pipeline.Pipeline{Nodes: nodes}

	o.log.Info().
		Int("users", len(d.Users)).
		Int("products", len(d.Popularity)).
		Int("cooccurrence_seeds", len(e.cooccur)).
		Msg("recommendation engine loaded")

	return e, nil
}

// restoreOrCompute 完成热门榜排序与共现表的取得：优先缓存，失效则本地计算。
func (e *Engine) restoreOrCompute(ctx context.Context, cache *Cache, rng *rand.Rand) {
	d := e.data

	if order, ok := cache.LoadPopular(ctx); ok && reorderPopularity(d.Popularity, order) {
		e.log.Info().Int("products", len(order)).Msg("popularity order restored from cache")
	} else {
		rank.Sort(d.Popularity)
		pids := make([]int64, len(d.Popularity))
		for i, row := range d.Popularity {
			pids[i] = row.PID
		}
		cache.SavePopular(ctx, pids)
	}

	if table, ok := cache.LoadCooccurrence(ctx); ok {
		e.cooccur = table
		e.log.Info().Int("seeds", len(table)).Msg("cooccurrence table restored from cache")
		return
	}
	e.cooccur = recall.BuildCooccurrence(d.Users, rng)
	cache.SaveCooccurrence(ctx, e.cooccur)
}

// reorderPopularity 按缓存的 pid 顺序原地重排热度表。
// 顺序必须与本次聚合的商品集合完全一致，否则放弃缓存（返回 false）。
func reorderPopularity(rows []core.ProductPopularity, order []int64) bool {
	if len(order) != len(rows) {
		return false
	}
	byPID := make(map[int64]core.ProductPopularity, len(rows))
	for _, row := range rows {
		byPID[row.PID] = row
	}
	reordered := make([]core.ProductPopularity, len(order))
	for i, pid := range order {
		row, ok := byPID[pid]
		if !ok {
			return false
		}
		reordered[i] = row
		delete(byPID, pid)
	}
	copy(rows, reordered)
	return true
}

// Recommend 为用户计算最多 TopN 个推荐商品。
//
// 已知用户：兴趣集合内的商品作为种子做共现投票，票数降序取候选，
// (pid, brand) 对级去重；不足时按热门榜补位（跳过兴趣集合与已选对）。
// 未知用户：结果即全站热门榜前 TopN。未知用户不是错误。
//
// 本方法是已加载表上的纯函数，不修改任何共享状态；结果要么完整要么错误，
// 不存在部分结果。
func (e *Engine) Recommend(ctx context.Context, uid int64) (core.Recommendation, error) {
	rctx := &core.RecommendContext{UserID: uid}

	items, err := e.pipe.Run(ctx, rctx, nil)
	if err != nil {
		return core.Recommendation{}, err
	}

	products := make([]int64, 0, len(items))
	for _, it := range items {
		products = append(products, it.ID)
	}

	e.log.Debug().
		Int64("uid", uid).
		Bool("known_user", e.data.HasUser(uid)).
		Ints64("products", products).
		Msg("recommendation served")

	return core.Recommendation{UID: uid, Products: products}, nil
}

// Cooccurrence 返回只读共现表（用于诊断输出），调用方不得修改。
func (e *Engine) Cooccurrence() recall.Table {
	return e.cooccur
}

// Weights 返回本次加载使用的热度权重。
func (e *Engine) Weights() rank.Weights {
	return e.weights
}

// TopN 返回结果长度上限。
func (e *Engine) TopN() int {
	return e.topN
}
