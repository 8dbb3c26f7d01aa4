package health

import (
	"context"
	"net/http"
	"time"

	"solecare-backend/internal/cache"
	"solecare-backend/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Checker answers liveness and readiness probes
type Checker struct {
	DB *pgxpool.Pool
}

func NewChecker(db *pgxpool.Pool) *Checker {
	return &Checker{DB: db}
}

// Basic is the load-balancer probe: database reachability decides the
// status code, Redis is reported but never fails the probe since the
// service degrades gracefully without it.
func (c *Checker) Basic(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	dbStatus := "ok"
	if err := c.DB.Ping(ctx); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
		code = http.StatusServiceUnavailable
	}

	redisStatus := "ok"
	if !cache.IsHealthy() {
		redisStatus = "unavailable"
	}

	utils.JSON(w, code, map[string]string{
		"status":   status,
		"database": dbStatus,
		"redis":    redisStatus,
	})
}

// Ready reports whether the service can take traffic. Only the database
// matters here; migrations have already run by the time the server listens.
func (c *Checker) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := c.DB.Ping(ctx); err != nil {
		utils.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Detailed adds host resource usage for the admin system panel
func (c *Checker) Detailed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	dbOK := c.DB.Ping(ctx) == nil

	cpuPercents, _ := cpu.Percent(time.Second, false)
	cpuUsage := 0.0
	if len(cpuPercents) > 0 {
		cpuUsage = cpuPercents[0]
	}
	memStats, _ := mem.VirtualMemory()
	diskStats, _ := disk.Usage("/")

	resp := map[string]interface{}{
		"database":    dbOK,
		"redis":       cache.IsHealthy(),
		"cpu_percent": cpuUsage,
	}
	if memStats != nil {
		resp["memory_percent"] = memStats.UsedPercent
		resp["memory_used_mb"] = memStats.Used / 1024 / 1024
	}
	if diskStats != nil {
		resp["disk_percent"] = diskStats.UsedPercent
		resp["disk_free_gb"] = diskStats.Free / 1024 / 1024 / 1024
	}

	code := http.StatusOK
	if !dbOK {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, resp)
}
