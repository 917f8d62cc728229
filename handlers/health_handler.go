package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SystemInfo contains basic system metrics and information
type SystemInfo struct {
	Status       string    `json:"status"`
	Version      string    `json:"version"`
	Uptime       string    `json:"uptime"`
	StartTime    time.Time `json:"start_time"`
	CurrentTime  time.Time `json:"current_time"`
	GoVersion    string    `json:"go_version"`
	NumGoroutine int       `json:"num_goroutine"`
	NumCPU       int       `json:"num_cpu"`
	DBStatus     string    `json:"db_status"`
}

var (
	startTime = time.Now()
	version   = "1.0.0" // overridden with -ldflags "-X"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) dbStatus(c *gin.Context) string {
	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		return "error"
	}
	return "ok"
}

// HealthCheck reports that the API is up, for the authenticated caller.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	username := "anonymous"
	if user := CurrentUser(c); user != nil {
		username = user.Username
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Campus Election API is running",
		"user":    username,
		"db":      h.dbStatus(c),
	})
}

// SystemStatus returns runtime details for staff.
func (h *HealthHandler) SystemStatus(c *gin.Context) {
	info := SystemInfo{
		Status:       "ok",
		Version:      version,
		Uptime:       time.Since(startTime).String(),
		StartTime:    startTime,
		CurrentTime:  time.Now(),
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		DBStatus:     h.dbStatus(c),
	}

	c.JSON(http.StatusOK, info)
}
