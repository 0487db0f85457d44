package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"vtuber_wiki/internal/logger"
	"vtuber_wiki/internal/service"
)

// 變更通知是公開資料，接受任何 origin
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChangeFeedHandler 讓客戶端以 WebSocket 訂閱 VTuber 的新增、更新與刪除事件
type ChangeFeedHandler struct {
	feed *service.ChangeFeed
}

func NewChangeFeedHandler(feed *service.ChangeFeed) *ChangeFeedHandler {
	return &ChangeFeedHandler{feed: feed}
}

// Subscribe 升級連線後阻塞直到客戶端離線
func (h *ChangeFeedHandler) Subscribe(c *gin.Context) {
	if !websocket.IsWebSocketUpgrade(c.Request) {
		respondError(c, http.StatusBadRequest, "WebSocket upgrade required")
		return
	}

	// 升級失敗時 upgrader 已回應錯誤
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn("websocket upgrade failed", "error", err)
		return
	}

	h.feed.HandleConnection(conn)
}
