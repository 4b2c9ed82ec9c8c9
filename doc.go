// Package shoprec 是一个商品推荐引擎：由历史交互数据（点击/加购/购买）
// 构建共现关联与加权热度排名，为用户产出 TopN 推荐列表。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → ReRank）
// - 一次性加载: 聚合表/共现表/热门榜在加载期构建完成，之后只读、免锁并发查询
// - 缓存即软依赖: 聚合产物可经 core.Store 缓存，失败一律降级为本地重算
package shoprec

import "github.com/rushteam/shoprec/pipeline"

// 轻量 facade：便于用户直接 import "shoprec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)
