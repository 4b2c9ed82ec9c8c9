package engine

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/recall"
)

// 缓存 key 与线上既有数据保持一致：每个产物一个 JSON 整体快照。
const (
	keyCooccurrence = "cooccurrence_full"
	keyPopular      = "popular_products"
	keyBrands       = "product_brands"
)

// Cache 是聚合产物的缓存门面：共现表、热门榜顺序、品牌映射。
// 所有读写都是尽力而为：任何失败只记日志并降级为本地重算，
// 绝不向上传播、绝不阻塞数据加载。缓存完全缺席时引擎行为不变（只是更慢）。
type Cache struct {
	store core.Store
	log   zerolog.Logger
}

// NewCache 包装一个 core.Store 为缓存门面。store 为 nil 时返回 nil，
// 所有方法对 nil 接收者安全（读取视为未命中，写入为 no-op）。
func NewCache(s core.Store, log zerolog.Logger) *Cache {
	if s == nil {
		return nil
	}
	return &Cache{store: s, log: log}
}

// LoadCooccurrence 读取共现表快照；未命中或数据损坏时返回 (nil, false)。
func (c *Cache) LoadCooccurrence(ctx context.Context) (recall.Table, bool) {
	var table recall.Table
	if !c.load(ctx, keyCooccurrence, &table) {
		return nil, false
	}
	return table, true
}

// SaveCooccurrence 写回共现表快照。
func (c *Cache) SaveCooccurrence(ctx context.Context, table recall.Table) {
	c.save(ctx, keyCooccurrence, table, len(table))
}

// LoadPopular 读取热门榜的 pid 顺序；未命中或数据损坏时返回 (nil, false)。
func (c *Cache) LoadPopular(ctx context.Context) ([]int64, bool) {
	var pids []int64
	if !c.load(ctx, keyPopular, &pids) {
		return nil, false
	}
	return pids, true
}

// SavePopular 写回热门榜顺序。
func (c *Cache) SavePopular(ctx context.Context, pids []int64) {
	c.save(ctx, keyPopular, pids, len(pids))
}

// LoadBrands 读取品牌映射；未命中或数据损坏时返回 (nil, false)。
func (c *Cache) LoadBrands(ctx context.Context) (map[int64]string, bool) {
	var brands map[int64]string
	if !c.load(ctx, keyBrands, &brands) {
		return nil, false
	}
	return brands, true
}

// SaveBrands 写回品牌映射。
func (c *Cache) SaveBrands(ctx context.Context, brands map[int64]string) {
	c.save(ctx, keyBrands, brands, len(brands))
}

func (c *Cache) load(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			c.log.Debug().Str("key", key).Msg("cache miss")
		} else {
			c.log.Warn().Err(err).Str("key", key).Msg("cache read failed, falling back to local compute")
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache payload malformed, falling back to local compute")
		return false
	}
	return true
}

func (c *Cache) save(ctx context.Context, key string, v any, size int) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := c.store.Set(ctx, key, data); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		return
	}
	c.log.Info().Str("key", key).Int("entries", size).Msg("cache saved")
}
