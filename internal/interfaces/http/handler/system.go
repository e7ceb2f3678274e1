package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JakfarS/invoice-request-mceasy/internal/infrastructure/persistence"
	"github.com/JakfarS/invoice-request-mceasy/internal/interfaces/http/dto"
)

// SystemHandler serves health and system information endpoints
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	appName   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, appName string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		appName:   appName,
		startTime: time.Now(),
	}
}

// HealthResponse reports service and database health
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// Health reports liveness including database connectivity
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "ok",
		Service:  h.appName,
		Database: "up",
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}

	if err := h.db.PingContext(c.Request.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "down"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string                 `json:"name"`
	GoVersion string                 `json:"go_version"`
	Uptime    string                 `json:"uptime"`
	DBPool    *persistence.PoolStats `json:"db_pool,omitempty"`
}

// GetSystemInfo returns basic runtime information
// GET /api/v1/system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      h.appName,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	if stats, err := h.db.Stats(); err == nil {
		info.DBPool = &stats
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}
