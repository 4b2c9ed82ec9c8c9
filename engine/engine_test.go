package engine

import (
	"context"
	"math/rand"
	"testing"

	"github.com/rushteam/shoprec/core"
)

// voteRows 构造一个小型投票场景：
//
//	uA 购买 {1, 5}，uB 购买 {2, 5}，uC 购买 {1, 6}，
//	目标用户 100 点击过 {1, 2}。
//
// 共现视角下商品 5 被两个种子提名、商品 6 被一个种子提名。
func voteRows() []core.Interaction {
	return []core.Interaction{
		{UID: 1, PID: 1, Brand: "b1", Purchases: 1},
		{UID: 1, PID: 5, Brand: "b5", Purchases: 1},
		{UID: 2, PID: 2, Brand: "b2", Purchases: 1},
		{UID: 2, PID: 5, Brand: "b5", Purchases: 1},
		{UID: 3, PID: 1, Brand: "b1", Purchases: 1},
		{UID: 3, PID: 6, Brand: "b6", Purchases: 1},
		{UID: 100, PID: 1, Brand: "b1", Clicks: 1},
		{UID: 100, PID: 2, Brand: "b2", Clicks: 1},
	}
}

// fillRows 构造需要热门榜补位的场景：协同候选只有商品 2，
// 其余位置由独立买家撑起的热门商品补齐。
func fillRows() []core.Interaction {
	return []core.Interaction{
		{UID: 1, PID: 1, Brand: "b1", Purchases: 1},
		{UID: 1, PID: 2, Brand: "b2", Purchases: 1},
		{UID: 11, PID: 3, Brand: "b3", Purchases: 5},
		{UID: 12, PID: 4, Brand: "b4", Purchases: 4},
		{UID: 13, PID: 5, Brand: "b5", Purchases: 3},
		{UID: 14, PID: 6, Brand: "b6", Purchases: 2},
		{UID: 15, PID: 7, Brand: "b7", Purchases: 6},
		{UID: 100, PID: 1, Brand: "b1", Clicks: 1},
	}
}

func newTestEngine(t *testing.T, rows []core.Interaction, opts ...Option) *Engine {
	t.Helper()
	opts = append(opts, WithRand(rand.New(rand.NewSource(1))))
	e, err := New(context.Background(), rows, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func recommend(t *testing.T, e *Engine, uid int64) []int64 {
	t.Helper()
	rec, err := e.Recommend(context.Background(), uid)
	if err != nil {
		t.Fatalf("Recommend(%d) error = %v", uid, err)
	}
	if rec.UID != uid {
		t.Errorf("rec.UID = %d, want %d", rec.UID, uid)
	}
	if len(rec.Products) > e.TopN() {
		t.Errorf("len(products) = %d, exceeds top-n %d", len(rec.Products), e.TopN())
	}
	seen := make(map[int64]struct{}, len(rec.Products))
	for _, pid := range rec.Products {
		if _, dup := seen[pid]; dup {
			t.Errorf("duplicate product %d in %v", pid, rec.Products)
		}
		seen[pid] = struct{}{}
	}
	return rec.Products
}

func equalInt64(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEngine_VoteOrdering(t *testing.T) {
	e := newTestEngine(t, voteRows())

	// 商品 5 得两票排首位，商品 6 得一票次之；
	// 兴趣集合 {1, 2} 被排除，热门榜无可补位商品。
	got := recommend(t, e, 100)
	want := []int64{5, 6}
	if !equalInt64(got, want) {
		t.Errorf("Recommend(100) = %v, want %v", got, want)
	}
	for _, pid := range got {
		if pid == 1 || pid == 2 {
			t.Errorf("result contains interested product %d", pid)
		}
	}
}

func TestEngine_UnknownUserGetsPopularity(t *testing.T) {
	e := newTestEngine(t, voteRows())

	// 总购买 6、总点击 2：coef_click = 3，热度得分
	// pid1 = 5, pid2 = 4, pid5 = 2, pid6 = 1。
	// 目录仅 4 个商品，未知用户拿到完整热门榜，不足 5 也不补位。
	got := recommend(t, e, 999)
	want := []int64{1, 2, 5, 6}
	if !equalInt64(got, want) {
		t.Errorf("Recommend(999) = %v, want %v", got, want)
	}
}

func TestEngine_ZeroSignalKnownUser(t *testing.T) {
	rows := append(voteRows(), core.Interaction{UID: 200, PID: 1, Brand: "b1"})
	e := newTestEngine(t, rows)

	// 全零计数的用户是已知用户，但兴趣集合为空：结果等同热门榜
	got := recommend(t, e, 200)
	want := []int64{1, 2, 5, 6}
	if !equalInt64(got, want) {
		t.Errorf("Recommend(200) = %v, want %v", got, want)
	}
}

func TestEngine_FillsFromPopularity(t *testing.T) {
	e := newTestEngine(t, fillRows())

	// 协同候选只有商品 2；热门榜 [1 7 3 4 5 6 2] 跳过兴趣商品 1
	// 与已选商品 2，依次补足到 5 个。
	got := recommend(t, e, 100)
	want := []int64{2, 7, 3, 4, 5}
	if !equalInt64(got, want) {
		t.Errorf("Recommend(100) = %v, want %v", got, want)
	}
}

func TestEngine_WithTopN(t *testing.T) {
	e := newTestEngine(t, fillRows(), WithTopN(3))

	got := recommend(t, e, 100)
	want := []int64{2, 7, 3}
	if !equalInt64(got, want) {
		t.Errorf("Recommend(100) = %v, want %v", got, want)
	}
}

func TestEngine_WithBrandCap(t *testing.T) {
	rows := fillRows()
	// 把补位商品 3、4、5 归到同一品牌
	for i := range rows {
		switch rows[i].PID {
		case 3, 4, 5:
			rows[i].Brand = "mega"
		}
	}
	e := newTestEngine(t, rows, WithBrandCap(1))

	// 合并候选 [2 7 3 4 5 6]，mega 品牌限 1 个后 4、5 出局，6 递补
	got := recommend(t, e, 100)
	want := []int64{2, 7, 3, 6}
	if !equalInt64(got, want) {
		t.Errorf("Recommend(100) = %v, want %v", got, want)
	}
}

func TestEngine_Accessors(t *testing.T) {
	e := newTestEngine(t, voteRows())

	if e.TopN() != DefaultTopN {
		t.Errorf("TopN() = %d, want %d", e.TopN(), DefaultTopN)
	}
	if w := e.Weights(); w.Purchase != 1 {
		t.Errorf("Weights().Purchase = %v, want 1", w.Purchase)
	}
	// 强互动用户 1、2、3 各贡献一个种子对，表中应含 4 个种子商品
	if got := len(e.Cooccurrence()); got != 4 {
		t.Errorf("len(Cooccurrence()) = %d, want 4", got)
	}
}
