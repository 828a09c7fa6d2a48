package health

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Result is the health report for /health.
type Result struct {
	Status       string               `json:"status"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

// DepStatus reports one dependency's connectivity and ping latency.
type DepStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
}

// Service pings the database and Redis. Either may be nil (reported as
// "not configured" without failing the overall status).
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

func (s *Service) Collect(ctx context.Context) Result {
	deps := map[string]DepStatus{
		"database": s.pingDB(),
		"redis":    s.pingRedis(ctx),
	}

	status := "ok"
	for _, dep := range deps {
		if dep.Status == "disconnected" {
			status = "degraded"
		}
	}
	return Result{Status: status, Dependencies: deps}
}

func (s *Service) pingDB() DepStatus {
	if s.DB == nil {
		return DepStatus{Status: "not configured", PingMs: nil}
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return DepStatus{Status: "disconnected", PingMs: nil}
	}
	start := time.Now()
	if err := sqlDB.Ping(); err != nil {
		return DepStatus{Status: "disconnected", PingMs: nil}
	}
	return DepStatus{Status: "connected", PingMs: time.Since(start).Milliseconds()}
}

func (s *Service) pingRedis(ctx context.Context) DepStatus {
	if s.Rdb == nil {
		return DepStatus{Status: "not configured", PingMs: nil}
	}
	start := time.Now()
	if err := s.Rdb.Ping(ctx).Err(); err != nil {
		return DepStatus{Status: "disconnected", PingMs: nil}
	}
	return DepStatus{Status: "connected", PingMs: time.Since(start).Milliseconds()}
}
