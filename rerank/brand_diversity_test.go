package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

func brandItem(id int64, brand, source string) *core.Item {
	it := core.NewItem(id)
	it.Brand = brand
	if source != "" {
		it.PutLabel("recall_source", utils.Label{Value: source, Source: "recall"})
	}
	return it
}

func ids(items []*core.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestBrandDiversity_PairDedup(t *testing.T) {
	node := &BrandDiversity{}

	items := []*core.Item{
		brandItem(1, "a", ""),
		brandItem(1, "a", ""), // 重复 (pid, brand) 对
		brandItem(2, "a", ""), // 同品牌不同商品：默认策略保留
		brandItem(1, "b", ""), // 同商品不同品牌：对不同，保留
	}

	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	want := []int64{1, 2, 1}
	got := ids(out)
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

func TestBrandDiversity_GlobalCap(t *testing.T) {
	node := &BrandDiversity{Cap: 1}

	items := []*core.Item{
		brandItem(1, "a", ""),
		brandItem(2, "a", ""),
		brandItem(3, "b", ""),
	}

	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	got := ids(out)
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("ids = %v, want [1 3] (one per brand)", got)
	}
}

func TestBrandDiversity_CapBySource(t *testing.T) {
	// 历史策略变体：共现候选每品牌 2 个，热门补位每品牌 1 个
	node := &BrandDiversity{CapBySource: map[string]int{
		"recall.itemcf":  2,
		"recall.popular": 1,
	}}

	items := []*core.Item{
		brandItem(1, "a", "recall.itemcf"),
		brandItem(2, "a", "recall.itemcf"),
		brandItem(3, "a", "recall.itemcf"), // 超出 itemcf 的品牌限额
		brandItem(4, "a", "recall.popular"),
		brandItem(5, "a", "recall.popular"), // 超出 popular 的品牌限额
		brandItem(6, "b", "recall.popular"),
	}

	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	want := []int64{1, 2, 4, 6}
	got := ids(out)
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

func TestBrandDiversity_EmptyBrandFallsBackToUnknown(t *testing.T) {
	node := &BrandDiversity{Cap: 1}

	items := []*core.Item{
		brandItem(1, "", ""),
		brandItem(2, "", ""), // 与 1 共享 "unknown" 品牌
	}

	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 1 || out[0].ID != 1 {
		t.Errorf("ids = %v, want [1]", ids(out))
	}
}

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		in    int
		want  int
	}{
		{name: "truncates", n: 5, in: 8, want: 5},
		{name: "fewer than n untouched", n: 5, in: 3, want: 3},
		{name: "zero keeps all", n: 0, in: 4, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]*core.Item, tt.in)
			for i := range items {
				items[i] = core.NewItem(int64(i))
			}

			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), nil, items)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("len = %d, want %d", len(out), tt.want)
			}
		})
	}
}
