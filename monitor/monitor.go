package monitor

import (
	"os"
	"runtime"
	"time"

	"report-workflow-api/config"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// RegisterMonitorRoutes exposes a lightweight ops status endpoint.
func RegisterMonitorRoutes(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		c.JSON(200, gin.H{
			"status":         "ok",
			"uptime_seconds": int(time.Since(startedAt).Seconds()),
			"goroutines":     runtime.NumGoroutine(),
			"heap_alloc_mb":  float64(mem.HeapAlloc) / (1024 * 1024),
			"go_version":     runtime.Version(),
		})
	})
}

// RegisterLogsRoute serves the backend log file behind a token check.
func RegisterLogsRoute(router *gin.Engine) {
	router.GET("/logs", func(c *gin.Context) {
		token := os.Getenv("LOGS_ACCESS_TOKEN")
		if token == "" || c.Query("token") != token {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			return
		}
		logData, err := os.ReadFile(config.LogFilePath())
		if err != nil {
			c.JSON(500, gin.H{"error": "Unable to read log"})
			return
		}
		c.Data(200, "text/plain; charset=utf-8", logData)
	})
}
