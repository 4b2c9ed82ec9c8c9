package service

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/engine"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	rows := []core.Interaction{
		{UID: 1, PID: 10, Brand: "acme", Purchases: 1},
		{UID: 1, PID: 20, Brand: "noname", Purchases: 1},
		{UID: 2, PID: 10, Brand: "acme", Clicks: 3},
		{UID: 2, PID: 30, Brand: "mega", Purchases: 2},
	}
	eng, err := engine.New(context.Background(), rows,
		engine.WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	return NewServer(eng, zerolog.Nop()).Handler()
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoot(t *testing.T) {
	rec := doGet(t, testHandler(t), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if _, ok := body["endpoints"]; !ok {
		t.Error("root response missing endpoints")
	}
}

func TestHealth(t *testing.T) {
	rec := doGet(t, testHandler(t), "/health")
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want 200", rec.Code)
	}
}

func TestHealth_EngineNotReady(t *testing.T) {
	h := NewServer(nil, zerolog.Nop()).Handler()
	rec := doGet(t, h, "/health")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /health status = %d, want 503", rec.Code)
	}
}

func TestRecommendations(t *testing.T) {
	h := testHandler(t)
	rec := doGet(t, h, "/recommendations?user_id=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body core.Recommendation
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body.UID != 2 {
		t.Errorf("uid = %d, want 2", body.UID)
	}
	if len(body.Products) == 0 || len(body.Products) > engine.DefaultTopN {
		t.Errorf("products = %v, want 1..%d items", body.Products, engine.DefaultTopN)
	}
	for _, pid := range body.Products {
		if pid == 10 || pid == 30 {
			t.Errorf("products %v contain an already-interacted product", body.Products)
		}
	}
}

func TestRecommendations_UnknownUserOK(t *testing.T) {
	rec := doGet(t, testHandler(t), "/recommendations?user_id=777")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body core.Recommendation
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if len(body.Products) == 0 {
		t.Error("unknown user should still receive popular products")
	}
}

func TestRecommendations_BadUserID(t *testing.T) {
	h := testHandler(t)
	for _, target := range []string{
		"/recommendations",
		"/recommendations?user_id=",
		"/recommendations?user_id=abc",
		"/recommendations?user_id=1.5",
	} {
		if rec := doGet(t, h, target); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, rec.Code)
		}
	}
}

func TestRecommendations_EngineNotReady(t *testing.T) {
	h := NewServer(nil, zerolog.Nop()).Handler()
	rec := doGet(t, h, "/recommendations?user_id=1")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
