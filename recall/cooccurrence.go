package recall

import (
	"math/rand"
	"sort"
	"time"

	"github.com/rushteam/shoprec/core"
)

// Table 是共现表：pid -> 关联商品序列，按两两关联次数降序排列。
// 每次数据加载整表重建（或从缓存原样恢复），之后只读。
type Table map[int64][]int64

// BuildCooccurrence 由各用户的聚合行构建共现表。
//
// 算法：
//  1. 取强互动行（purchase > 0 或 add_to_cart > 0，仅点击不算）
//     构成每个用户的强互动商品集合；
//  2. 集合内每个无序商品对使对称关联计数双向 +1；
//  3. 每个商品的关联列表按计数分层，层内用 rng 洗牌，层间按计数从高到低拼接。
//
// 层内洗牌是有意为之：等关联强度的商品之间不引入固定偏序，
// 代价是跨次构建的层内顺序不确定。洗牌发生在构建期而非请求期，
// 同一进程生命周期内结果稳定。rng 为 nil 时按当前时间播种。
//
// 复杂度为 Σ(用户强互动数²)，对稀疏互动的目标规模可接受；
// 没有增量更新路径，数据重载时整表重建。
func BuildCooccurrence(users map[int64][]core.UserProductStat, rng *rand.Rand) Table {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	counts := make(map[int64]map[int64]int64)
	bump := func(a, b int64) {
		if counts[a] == nil {
			counts[a] = make(map[int64]int64)
		}
		counts[a][b]++
	}

	for _, stats := range users {
		engaged := engagedSet(stats)
		for i, a := range engaged {
			for _, b := range engaged[i+1:] {
				bump(a, b)
				bump(b, a)
			}
		}
	}

	table := make(Table, len(counts))
	for pid, assoc := range counts {
		table[pid] = tieredOrder(assoc, rng)
	}
	return table
}

// engagedSet 返回用户强互动商品的去重序列（顺序与最终结果无关）。
func engagedSet(stats []core.UserProductStat) []int64 {
	seen := make(map[int64]struct{}, len(stats))
	out := make([]int64, 0, len(stats))
	for _, s := range stats {
		if !s.Engaged() {
			continue
		}
		if _, ok := seen[s.PID]; ok {
			continue
		}
		seen[s.PID] = struct{}{}
		out = append(out, s.PID)
	}
	return out
}

// tieredOrder 把关联计数表转成排序列表：按计数分层，层内洗牌，层间从高到低。
func tieredOrder(assoc map[int64]int64, rng *rand.Rand) []int64 {
	tiers := make(map[int64][]int64)
	for pid, cnt := range assoc {
		tiers[cnt] = append(tiers[cnt], pid)
	}

	freqs := make([]int64, 0, len(tiers))
	for f := range tiers {
		freqs = append(freqs, f)
	}
	sort.Slice(freqs, func(i, j int) bool { return freqs[i] > freqs[j] })

	out := make([]int64, 0, len(assoc))
	for _, f := range freqs {
		members := tiers[f]
		rng.Shuffle(len(members), func(i, j int) {
			members[i], members[j] = members[j], members[i]
		})
		out = append(out, members...)
	}
	return out
}

// Candidate 是共现候选：票数 = 兴趣种子中共现列表包含该商品的种子数量
// （不是原始的两两关联计数）。
type Candidate struct {
	PID   int64
	Votes int64
}

// Candidates 针对兴趣种子集合聚合候选并按票数降序返回。
// 已在兴趣集合内的商品不参与候选。票数并列时按 pid 升序，
// 保证同一张表上的候选序可复现。
func (t Table) Candidates(interested map[int64]struct{}) []Candidate {
	votes := make(map[int64]int64)
	for seed := range interested {
		for _, pid := range t[seed] {
			if _, ok := interested[pid]; ok {
				continue
			}
			votes[pid]++
		}
	}

	out := make([]Candidate, 0, len(votes))
	for pid, v := range votes {
		out = append(out, Candidate{PID: pid, Votes: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Votes != out[j].Votes {
			return out[i].Votes > out[j].Votes
		}
		return out[i].PID < out[j].PID
	})
	return out
}
