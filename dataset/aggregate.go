package dataset

import "github.com/rushteam/shoprec/core"

// Dataset 持有一次数据加载产出的全部聚合表。
// 构建完成后整体只读，可被任意数量的并发推荐请求共享，无需加锁。
type Dataset struct {
	// Users uid -> 该用户的聚合行，按 (uid, pid, brand) 精确分组，保持聚合顺序。
	Users map[int64][]core.UserProductStat

	// Popularity 每个 pid 恰好一行的跨用户聚合，保持聚合顺序；
	// 经 rank.Popularity 排序后即为全站热门榜。
	Popularity []core.ProductPopularity

	// Brands pid -> brand 映射，O(1) 品牌查询。
	Brands map[int64]string
}

type statKey struct {
	uid   int64
	pid   int64
	brand string
}

// Aggregate 将原始交互行折叠为聚合表。
// 累加是精确的：不丢行、不重复计数。同一 pid 出现多个 brand 时，
// 首次出现的 brand 胜出，后续行的计数并入该行（pid 在热度表中恰好一行）。
func Aggregate(rows []core.Interaction) *Dataset {
	d := &Dataset{
		Users:  make(map[int64][]core.UserProductStat),
		Brands: make(map[int64]string),
	}

	userIdx := make(map[statKey]int)
	popIdx := make(map[int64]int)

	for _, row := range rows {
		uk := statKey{uid: row.UID, pid: row.PID, brand: row.Brand}
		stats := d.Users[row.UID]
		if i, ok := userIdx[uk]; ok {
			stats[i].Clicks += row.Clicks
			stats[i].AddToCart += row.AddToCart
			stats[i].Purchases += row.Purchases
		} else {
			userIdx[uk] = len(stats)
			stats = append(stats, core.UserProductStat{
				UID:       row.UID,
				PID:       row.PID,
				Brand:     row.Brand,
				Clicks:    row.Clicks,
				AddToCart: row.AddToCart,
				Purchases: row.Purchases,
			})
		}
		d.Users[row.UID] = stats

		if i, ok := popIdx[row.PID]; ok {
			d.Popularity[i].Clicks += row.Clicks
			d.Popularity[i].AddToCart += row.AddToCart
			d.Popularity[i].Purchases += row.Purchases
		} else {
			popIdx[row.PID] = len(d.Popularity)
			d.Popularity = append(d.Popularity, core.ProductPopularity{
				PID:       row.PID,
				Brand:     row.Brand,
				Clicks:    row.Clicks,
				AddToCart: row.AddToCart,
				Purchases: row.Purchases,
			})
		}

		if _, ok := d.Brands[row.PID]; !ok {
			d.Brands[row.PID] = row.Brand
		}
	}

	return d
}

// HasUser 判断用户是否出现在历史数据中。
// 即便该用户只有全零计数行也视为已知用户（有行即已知）。
func (d *Dataset) HasUser(uid int64) bool {
	_, ok := d.Users[uid]
	return ok
}

// Interested 返回用户的兴趣集合：任一信号 > 0 的商品。
// 未知用户返回空集合。
func (d *Dataset) Interested(uid int64) map[int64]struct{} {
	stats := d.Users[uid]
	out := make(map[int64]struct{}, len(stats))
	for _, s := range stats {
		if s.Interested() {
			out[s.PID] = struct{}{}
		}
	}
	return out
}

// Ranked 返回热度表。经 rank.Popularity 排序后即为全站热门榜。
func (d *Dataset) Ranked() []core.ProductPopularity {
	return d.Popularity
}

// BrandOf 返回商品品牌；未收录的 pid 返回 "unknown"。
func (d *Dataset) BrandOf(pid int64) string {
	if brand, ok := d.Brands[pid]; ok {
		return brand
	}
	return "unknown"
}
