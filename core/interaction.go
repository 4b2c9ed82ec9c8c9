package core

// Interaction 是一条原始交互记录：某用户对某商品的点击/加购/购买计数。
// 数据加载完成后视为不可变，是所有聚合统计的唯一事实来源。
type Interaction struct {
	UID       int64
	PID       int64
	Brand     string
	Clicks    int64
	AddToCart int64
	Purchases int64
}

// UserProductStat 是按 (uid, pid, brand) 聚合后的交互统计。
// 计数由 Interaction 逐行累加得到，恒为非负。
type UserProductStat struct {
	UID       int64
	PID       int64
	Brand     string
	Clicks    int64
	AddToCart int64
	Purchases int64
}

// Interested 判断该行是否体现用户兴趣：任一信号 > 0。
// 兴趣集合用于候选排除（用户已接触过的商品不再推荐）。
func (s UserProductStat) Interested() bool {
	return s.Clicks > 0 || s.AddToCart > 0 || s.Purchases > 0
}

// Engaged 判断该行是否为强互动：加购或购买 > 0，仅点击不算。
// 共现矩阵只统计强互动商品对。
func (s UserProductStat) Engaged() bool {
	return s.AddToCart > 0 || s.Purchases > 0
}

// ProductPopularity 是按 (pid, brand) 跨用户聚合后的商品统计。
// Score 由 rank 包按全局权重计算；按 Score 降序排列后即为全站兜底热门榜。
type ProductPopularity struct {
	PID       int64
	Brand     string
	Clicks    int64
	AddToCart int64
	Purchases int64
	Score     float64
}

// Recommendation 是一次推荐请求的最终结果：最多 TopN 个商品 ID，按推荐强度排列。
// 仅在请求期间存在，不落任何存储。
type Recommendation struct {
	UID      int64   `json:"uid"`
	Products []int64 `json:"products"`
}
