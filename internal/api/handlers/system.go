package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vtuber_wiki/internal/logger"
)

// APIVersion 顯示在根路徑的 API 說明中
const APIVersion = "1.0.0"

const healthCheckTimeout = 2 * time.Second

// Pinger 是健康檢查需要的最小介面
type Pinger interface {
	Ping(ctx context.Context) error
}

type SystemHandler struct {
	store Pinger
}

func NewSystemHandler(store Pinger) *SystemHandler {
	return &SystemHandler{store: store}
}

// Root 回傳 API 說明與端點列表
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "VTuber Wiki API",
		"version": APIVersion,
		"endpoints": gin.H{
			"public": []string{
				"GET /health",
				"GET /vtubers",
				"GET /vtubers/{id}",
				"GET /vtubers/events",
				"GET /search?q=",
				"GET /agencies",
			},
			"protected": []string{
				"POST /vtubers",
				"POST /vtubers/bulk",
				"POST /vtubers/batch",
				"PUT /vtubers/{id}",
				"DELETE /vtubers/{id}",
			},
		},
	})
}

// Health 永遠回傳 200；資料庫狀態放在 database 欄位
func (h *SystemHandler) Health(c *gin.Context) {
	database := "ok"

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		logger.FromContext(c.Request.Context()).Warn("health check: database unavailable", "error", err)
		database = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "VTuber Wiki API",
		"database": database,
	})
}
