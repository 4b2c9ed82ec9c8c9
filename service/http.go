// Package service 提供推荐引擎的 HTTP 查询边界。
// 推荐核心不感知 HTTP：本包只做路由、参数解析与状态码映射。
package service

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/engine"
)

// Server 把推荐引擎暴露为 HTTP API。
// eng 为 nil 表示数据加载失败，服务以“未就绪”（503）应答查询，
// 这是唯一允许对外表现为服务不可用的条件。
type Server struct {
	eng *engine.Engine
	log zerolog.Logger
}

func NewServer(eng *engine.Engine, log zerolog.Logger) *Server {
	return &Server{eng: eng, log: log}
}

// Handler 构建路由。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLog)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/recommendations", s.handleRecommendations)

	return r
}

// requestLog 为每个请求生成 request_id 并记录结构化访问日志。
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Product Recommendation API",
		"endpoints": map[string]string{
			"/recommendations": "GET /recommendations?user_id=<uid>",
			"/health":          "GET /health",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if s.eng == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"message": "recommendation engine is not initialized",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if s.eng == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "service not ready: dataset failed to load",
		})
		return
	}

	raw := r.URL.Query().Get("user_id")
	uid, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "user_id must be an integer",
		})
		return
	}

	rec, err := s.eng.Recommend(r.Context(), uid)
	if err != nil {
		s.log.Error().Err(err).Int64("uid", uid).Msg("recommendation failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to generate recommendations",
		})
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
