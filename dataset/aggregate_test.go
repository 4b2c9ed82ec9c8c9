package dataset

import (
	"testing"

	"github.com/rushteam/shoprec/core"
)

func TestAggregate_SumsExactly(t *testing.T) {
	rows := []core.Interaction{
		{UID: 1, PID: 10, Brand: "acme", Clicks: 2, AddToCart: 1, Purchases: 0},
		{UID: 1, PID: 10, Brand: "acme", Clicks: 3, AddToCart: 0, Purchases: 1},
		{UID: 2, PID: 10, Brand: "acme", Clicks: 1, AddToCart: 0, Purchases: 0},
	}

	d := Aggregate(rows)

	stats := d.Users[1]
	if len(stats) != 1 {
		t.Fatalf("user 1 stats = %d rows, want 1", len(stats))
	}
	got := stats[0]
	if got.Clicks != 5 || got.AddToCart != 1 || got.Purchases != 1 {
		t.Errorf("user 1 stat = %+v, want clicks=5 carts=1 purchases=1", got)
	}

	if len(d.Popularity) != 1 {
		t.Fatalf("popularity = %d rows, want 1", len(d.Popularity))
	}
	pop := d.Popularity[0]
	if pop.Clicks != 6 || pop.AddToCart != 1 || pop.Purchases != 1 {
		t.Errorf("popularity = %+v, want clicks=6 carts=1 purchases=1", pop)
	}
}

func TestAggregate_FirstSeenBrandWins(t *testing.T) {
	rows := []core.Interaction{
		{UID: 1, PID: 10, Brand: "first", Clicks: 1},
		{UID: 2, PID: 10, Brand: "second", Clicks: 2},
	}

	d := Aggregate(rows)

	if len(d.Popularity) != 1 {
		t.Fatalf("popularity = %d rows, want 1 (one row per pid)", len(d.Popularity))
	}
	if d.Popularity[0].Brand != "first" {
		t.Errorf("popularity brand = %q, want %q", d.Popularity[0].Brand, "first")
	}
	if d.Popularity[0].Clicks != 3 {
		t.Errorf("popularity clicks = %d, want 3 (counts folded into first row)", d.Popularity[0].Clicks)
	}
	if d.BrandOf(10) != "first" {
		t.Errorf("BrandOf(10) = %q, want %q", d.BrandOf(10), "first")
	}
}

func TestDataset_HasUserAndInterested(t *testing.T) {
	rows := []core.Interaction{
		{UID: 1, PID: 10, Brand: "a", Clicks: 1},
		{UID: 1, PID: 20, Brand: "b", Purchases: 1},
		{UID: 1, PID: 30, Brand: "c"}, // 全零行：已知但无兴趣
		{UID: 2, PID: 40, Brand: "d"},
	}

	d := Aggregate(rows)

	if !d.HasUser(1) || !d.HasUser(2) {
		t.Error("HasUser should be true for users with any row")
	}
	if d.HasUser(99) {
		t.Error("HasUser(99) = true, want false")
	}

	interested := d.Interested(1)
	if len(interested) != 2 {
		t.Fatalf("interested(1) = %v, want {10, 20}", interested)
	}
	for _, pid := range []int64{10, 20} {
		if _, ok := interested[pid]; !ok {
			t.Errorf("interested(1) missing %d", pid)
		}
	}

	if got := d.Interested(2); len(got) != 0 {
		t.Errorf("interested(2) = %v, want empty (zero counts only)", got)
	}
	if got := d.Interested(99); len(got) != 0 {
		t.Errorf("interested(99) = %v, want empty", got)
	}
}

func TestDataset_BrandOfUnknown(t *testing.T) {
	d := Aggregate(nil)
	if got := d.BrandOf(123); got != "unknown" {
		t.Errorf("BrandOf(123) = %q, want %q", got, "unknown")
	}
}
