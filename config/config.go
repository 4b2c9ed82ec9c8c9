// Package config 提供服务配置的加载，以及配置驱动的策略 Node 注册与构建。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/shoprec/engine"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/store"
)

// Config 是服务级配置：监听地址、数据源、可选缓存、引擎参数与策略节点链。
type Config struct {
	// Listen HTTP 监听地址
	Listen string `yaml:"listen"`

	// Data 交互数据 CSV 路径
	Data string `yaml:"data"`

	// Redis 缓存后端配置；缺省时不启用缓存，引擎行为不变
	Redis *store.RedisConfig `yaml:"redis"`

	// Engine 推荐引擎参数
	Engine EngineConfig `yaml:"engine"`

	// Nodes 追加在召回与品牌去重之间的策略节点（filter.rule 等）
	Nodes []pipeline.NodeConfig `yaml:"nodes"`
}

// EngineConfig 是推荐引擎的可调参数。
type EngineConfig struct {
	// TopN 结果长度上限，缺省 5
	TopN int `yaml:"top_n"`

	// BrandCap 每品牌全局限额，0 表示只做对级去重（默认策略）
	BrandCap int `yaml:"brand_cap"`

	// BrandCapBySource 按召回来源的品牌限额
	BrandCapBySource map[string]int `yaml:"brand_cap_by_source"`
}

// Default 返回带文档化默认值的配置。
func Default() *Config {
	return &Config{
		Listen: ":8000",
		Data:   "data.csv",
	}
}

// Load 从 YAML 文件加载配置（在默认值之上覆盖）。
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := ValidateNodeConfigs(cfg.Nodes); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// EngineOptions 把配置翻译为引擎构建选项（不含缓存与日志，由调用方注入）。
func (c *Config) EngineOptions() ([]engine.Option, error) {
	var opts []engine.Option

	if c.Engine.TopN > 0 {
		opts = append(opts, engine.WithTopN(c.Engine.TopN))
	}
	if c.Engine.BrandCap > 0 {
		opts = append(opts, engine.WithBrandCap(c.Engine.BrandCap))
	}
	if len(c.Engine.BrandCapBySource) > 0 {
		opts = append(opts, engine.WithBrandCapBySource(c.Engine.BrandCapBySource))
	}

	if len(c.Nodes) > 0 {
		factory := DefaultFactory()
		for _, nc := range c.Nodes {
			node, err := factory.Build(nc.Type, nc.Config)
			if err != nil {
				return nil, fmt.Errorf("config: build node %s: %w", nc.Type, err)
			}
			opts = append(opts, engine.WithNodes(node))
		}
	}

	return opts, nil
}
