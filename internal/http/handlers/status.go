package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lerwix/taler-site/internal/app"
	"github.com/Lerwix/taler-site/internal/domain/application"
)

type StatusHandler struct {
	db        *sql.DB
	queries   *app.QueryService
	botActive bool
}

func NewStatusHandler(db *sql.DB, queries *app.QueryService, botActive bool) *StatusHandler {
	return &StatusHandler{db: db, queries: queries, botActive: botActive}
}

// Status handles GET /api/status: readiness with store connectivity and the
// stored-application counter.
func (h *StatusHandler) Status(c *gin.Context) {
	count, err := h.queries.Count(c.Request.Context(), application.Filter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		return
	}

	bot := "inactive"
	if h.botActive {
		bot = "active"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"server":             "online",
		"database":           "connected",
		"telegram_bot":       bot,
		"applications_count": count,
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
	})
}

// Health handles GET /api/health: liveness plus a store ping.
func (h *StatusHandler) Health(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "connected"})
}

// TestDB handles GET /api/test-db: connectivity probe with server version.
func (h *StatusHandler) TestDB(c *gin.Context) {
	var version string
	if err := h.db.QueryRowContext(c.Request.Context(), "SELECT version()").Scan(&version); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "❌ Ошибка БД"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "✅ База данных подключена",
		"version": version,
	})
}

// Info handles GET /api/info: service banner with the endpoint directory.
func (h *StatusHandler) Info(c *gin.Context) {
	bot := "Не настроен"
	if h.botActive {
		bot = "Активен"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "🚀 Сервер TALER работает!",
		"telegram_bot": bot,
		"endpoints": gin.H{
			"submit_application": "POST /api/application",
			"get_applications":   "GET /api/applications",
			"count":              "GET /api/count",
			"get_status":         "GET /api/status",
			"health":             "GET /api/health",
			"test_db":            "GET /api/test-db",
			"info":               "GET /api/info",
		},
	})
}
