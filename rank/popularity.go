// Package rank 实现全站热度排名：把点击/加购/购买三种信号折算为单一热度分。
package rank

import (
	"sort"

	"github.com/rushteam/shoprec/core"
)

// Weights 是三种交互信号的全局权重。
// 点击与加购的权重把高频低意图信号归一到购买（稀疏高意图信号）的量级上，
// 使一次购买不会被海量的随手点击淹没。购买权重恒为 1。
type Weights struct {
	Click    float64
	Cart     float64
	Purchase float64
}

// ComputeWeights 由全量热度表计算权重：
//
//	click 权重 = Σpurchase / max(Σclick, 1)
//	cart  权重 = Σpurchase / max(Σadd_to_cart, 1)
//
// 分母兜底为 1，整表点击或加购为零时不会除零。
func ComputeWeights(rows []core.ProductPopularity) Weights {
	var totalClicks, totalCarts, totalPurchases int64
	for _, r := range rows {
		totalClicks += r.Clicks
		totalCarts += r.AddToCart
		totalPurchases += r.Purchases
	}

	w := Weights{Purchase: 1}
	w.Click = float64(totalPurchases) / float64(max64(totalClicks, 1))
	w.Cart = float64(totalPurchases) / float64(max64(totalCarts, 1))
	return w
}

// Score 计算单行的热度分。
func (w Weights) Score(r core.ProductPopularity) float64 {
	return float64(r.Clicks)*w.Click + float64(r.AddToCart)*w.Cart + float64(r.Purchases)*w.Purchase
}

// Popularity 为热度表打分并按分数降序原地排序，返回使用的权重。
// 排序结果是全系统的兜底排名与补位来源。
func Popularity(rows []core.ProductPopularity) Weights {
	w := ComputeWeights(rows)
	for i := range rows {
		rows[i].Score = w.Score(rows[i])
	}
	Sort(rows)
	return w
}

// Sort 按已计算的热度分降序原地稳定排序。
// 分数并列时保持聚合顺序——这是对并列准绳的文档化约定。
func Sort(rows []core.ProductPopularity) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
