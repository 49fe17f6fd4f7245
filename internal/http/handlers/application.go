package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Lerwix/taler-site/internal/app"
	"github.com/Lerwix/taler-site/internal/common"
	"github.com/Lerwix/taler-site/internal/domain/application"
	"github.com/Lerwix/taler-site/internal/http/response"
)

type ApplicationHandler struct {
	submissions *app.SubmissionService
	queries     *app.QueryService
	botActive   bool
}

func NewApplicationHandler(submissions *app.SubmissionService, queries *app.QueryService, botActive bool) *ApplicationHandler {
	return &ApplicationHandler{submissions: submissions, queries: queries, botActive: botActive}
}

type submitRequest struct {
	Nickname      string `json:"nickname"`
	Age           int    `json:"age"`
	Timezone      string `json:"timezone"`
	Telegram      string `json:"telegram"`
	Discord       string `json:"discord"`
	Role          string `json:"role"`
	Experience    string `json:"experience"`
	MinecraftExp  string `json:"minecraft_exp"`
	Motivation    string `json:"motivation"`
	Portfolio     string `json:"portfolio"`
	TimeAvailable string `json:"time_available"`
}

// Submit handles POST /api/application.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, common.NewError(common.CodeValidation, "Некорректный JSON", err))
		return
	}

	created, err := h.submissions.Submit(c.Request.Context(), application.Application{
		Nickname:      req.Nickname,
		Age:           req.Age,
		Timezone:      req.Timezone,
		Telegram:      req.Telegram,
		Discord:       req.Discord,
		Role:          application.Role(req.Role),
		Experience:    req.Experience,
		MinecraftExp:  req.MinecraftExp,
		Motivation:    req.Motivation,
		Portfolio:     req.Portfolio,
		TimeAvailable: req.TimeAvailable,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "✅ Заявка успешно сохранена",
		"data": gin.H{
			"id":                created.ID,
			"nickname":          created.Nickname,
			"telegram":          created.Telegram,
			"role":              created.Role,
			"timestamp":         created.CreatedAt,
			"telegram_notified": h.botActive,
		},
	})
}

// List handles GET /api/applications.
func (h *ApplicationHandler) List(c *gin.Context) {
	filter := filterFromQuery(c)
	page := application.Page{
		Limit:  intQuery(c, "limit", application.DefaultLimit),
		Offset: intQuery(c, "offset", 0),
		Sort:   c.Query("sort"),
		Order:  c.Query("order"),
	}.Normalize()

	result, err := h.queries.List(c.Request.Context(), filter, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Items,
		"cached":  result.Cached,
		"pagination": gin.H{
			"total":   result.Total,
			"limit":   page.Limit,
			"offset":  page.Offset,
			"hasMore": page.Offset+len(result.Items) < result.Total,
		},
	})
}

// Count handles GET /api/count.
func (h *ApplicationHandler) Count(c *gin.Context) {
	count, err := h.queries.Count(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

func filterFromQuery(c *gin.Context) application.Filter {
	return application.Filter{
		Role:   application.Role(c.Query("role")),
		Status: c.Query("status"),
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
