package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"vtuber_wiki/internal/logger"
	"vtuber_wiki/internal/middleware"
	"vtuber_wiki/internal/models"
	"vtuber_wiki/internal/service"
)

// VTuberHandler 處理 /vtubers、/search 與 /agencies 的請求
type VTuberHandler struct {
	vtuberService *service.VTuberService
}

// NewVTuberHandler 創建一個新的 VTuberHandler 實例
func NewVTuberHandler(vtuberService *service.VTuberService) *VTuberHandler {
	return &VTuberHandler{vtuberService: vtuberService}
}

// ListVTubers 回傳分頁列表，可用 agency 篩選、sort_by 排序
func (h *VTuberHandler) ListVTubers(c *gin.Context) {
	limit, err := queryInt(c, "limit", service.DefaultListLimit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	result, err := h.vtuberService.List(c.Request.Context(), models.ListParams{
		Limit:  limit,
		Offset: offset,
		Agency: c.Query("agency"),
		SortBy: c.Query("sort_by"),
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetVTuber 以 id 取得單筆紀錄
func (h *VTuberHandler) GetVTuber(c *gin.Context) {
	vtuber, err := h.vtuberService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, vtuber)
}

// SearchVTubers 以 q 搜尋 name 與 description
func (h *VTuberHandler) SearchVTubers(c *gin.Context) {
	limit, err := queryInt(c, "limit", service.DefaultSearchLimit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	query := c.Query("q")
	vtubers, err := h.vtuberService.Search(c.Request.Context(), query, limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vtubers": vtubers,
		"count":   len(vtubers),
		"query":   query,
	})
}

// ListAgencies 回傳不重複的經紀公司名稱
func (h *VTuberHandler) ListAgencies(c *gin.Context) {
	agencies, err := h.vtuberService.ListAgencies(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agencies": agencies})
}

// CreateVTuber 新增單筆紀錄
func (h *VTuberHandler) CreateVTuber(c *gin.Context) {
	var input models.VTuberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	vtuber, err := h.vtuberService.Create(c.Request.Context(), input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	logMutation(c, "vtuber created", 1)
	c.JSON(http.StatusCreated, vtuber)
}

// CreateVTubersBulk 接受 {"vtubers": [...]} 格式的批次新增
func (h *VTuberHandler) CreateVTubersBulk(c *gin.Context) {
	var input models.BulkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	h.createMany(c, input.VTubers)
}

// CreateVTubersBatch 接受直接以陣列傳入的批次新增，語意與 bulk 相同
func (h *VTuberHandler) CreateVTubersBatch(c *gin.Context) {
	var inputs []models.VTuberInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		respondError(c, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	h.createMany(c, inputs)
}

func (h *VTuberHandler) createMany(c *gin.Context, inputs []models.VTuberInput) {
	vtubers, err := h.vtuberService.CreateMany(c.Request.Context(), inputs)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	logMutation(c, "vtubers created", len(vtubers))
	c.JSON(http.StatusCreated, gin.H{
		"vtubers": vtubers,
		"count":   len(vtubers),
	})
}

// UpdateVTuber 部分更新；空的 body 視為空的 patch
func (h *VTuberHandler) UpdateVTuber(c *gin.Context) {
	var patch models.VTuberPatch
	if err := c.ShouldBindJSON(&patch); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	vtuber, err := h.vtuberService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	logMutation(c, "vtuber updated", 1)
	c.JSON(http.StatusOK, vtuber)
}

// DeleteVTuber 刪除紀錄，成功時回傳 204
func (h *VTuberHandler) DeleteVTuber(c *gin.Context) {
	if err := h.vtuberService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	logMutation(c, "vtuber deleted", 1)
	c.Status(http.StatusNoContent)
}

func logMutation(c *gin.Context, msg string, count int) {
	userID, _ := c.Get(middleware.ContextUserID)
	logger.FromContext(c.Request.Context()).Info(msg,
		"user_id", userID, "count", count, "id", c.Param("id"))
}
