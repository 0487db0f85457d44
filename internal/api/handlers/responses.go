package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vtuber_wiki/internal/logger"
	"vtuber_wiki/internal/service"
)

// 回應給使用者的錯誤訊息，不包含內部錯誤細節
const (
	ErrMsgInvalidRequest  = "Invalid request body"
	ErrMsgVTuberNotFound  = "VTuber not found"
	ErrMsgInternal        = "Something went wrong"
	ErrMsgInvalidQuery    = "Invalid query parameter"
	ErrMsgInvalidBulkData = "One or more VTubers are invalid; nothing was created"
)

// ErrorResponse 是所有失敗回應的格式
type ErrorResponse struct {
	Status int                 `json:"status"`
	Error  string              `json:"error"`
	Fields map[string]string   `json:"fields,omitempty"`
	Items  []service.ItemError `json:"items,omitempty"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Status: status, Error: message})
}

// handleServiceError 把 service 錯誤轉成對應的狀態碼；
// 未知錯誤只記錄在日誌，回應使用一般訊息
func handleServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var batchErr *service.BatchValidationError

	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, ErrMsgVTuberNotFound)
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status: http.StatusBadRequest,
			Error:  validationErr.Message,
			Fields: validationErr.Fields,
		})
	case errors.As(err, &batchErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status: http.StatusBadRequest,
			Error:  ErrMsgInvalidBulkData,
			Items:  batchErr.Items,
		})
	default:
		logger.FromContext(c.Request.Context()).Error("request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, ErrMsgInternal)
	}
}

// queryInt 讀取整數查詢參數，未提供時回傳預設值
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &service.ValidationError{
			Message: ErrMsgInvalidQuery,
			Fields:  map[string]string{key: "Must be an integer"},
		}
	}
	return v, nil
}
