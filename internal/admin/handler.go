// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/messhall/internal/core"
	"github.com/carterperez-dev/messhall/internal/notify"
)

const pingTimeout = 2 * time.Second

// Handler reports the operational state of the process to mess committee
// members. Every source is optional.
type Handler struct {
	cfg     HandlerConfig
	started time.Time
}

type HandlerConfig struct {
	DBStats     func() sql.DBStats
	RedisStats  func() *redis.PoolStats
	DBPing      func(ctx context.Context) error
	RedisPing   func(ctx context.Context) error
	NotifyStats func() notify.Stats
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg, started: time.Now()}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, committeeOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(committeeOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
		r.Get("/stats/notify", h.GetNotifyStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	core.OK(w, SystemStatsResponse{
		Uptime: time.Since(h.started).Round(time.Second).String(),
		Database: DependencyStatus[DBPoolStats]{
			Healthy: healthy(ctx, h.cfg.DBPing),
			Stats:   h.dbStats(),
		},
		Redis: DependencyStatus[RedisPoolStats]{
			Healthy: healthy(ctx, h.cfg.RedisPing),
			Stats:   h.redisStats(),
		},
		Notify:  h.notifyStats(),
		Runtime: runtimeStats(),
	})
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.dbStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.redisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, runtimeStats())
}

func (h *Handler) GetNotifyStats(w http.ResponseWriter, _ *http.Request) {
	stats := h.notifyStats()
	if stats == nil {
		core.NotFound(w, "notification dispatcher")
		return
	}
	core.OK(w, stats)
}

func healthy(ctx context.Context, ping func(context.Context) error) bool {
	if ping == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return ping(ctx) == nil
}

func (h *Handler) dbStats() *DBPoolStats {
	if h.cfg.DBStats == nil {
		return nil
	}

	s := h.cfg.DBStats()
	return &DBPoolStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration.String(),
		MaxIdleClosed:      s.MaxIdleClosed,
		MaxLifetimeClosed:  s.MaxLifetimeClosed,
	}
}

func (h *Handler) redisStats() *RedisPoolStats {
	if h.cfg.RedisStats == nil {
		return nil
	}

	s := h.cfg.RedisStats()
	if s == nil {
		return nil
	}
	return &RedisPoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
		StaleConns: s.StaleConns,
	}
}

func (h *Handler) notifyStats() *notify.Stats {
	if h.cfg.NotifyStats == nil {
		return nil
	}
	s := h.cfg.NotifyStats()
	return &s
}

func runtimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     mem.Alloc,
		MemSys:       mem.Sys,
		NumGC:        mem.NumGC,
	}
}
