package service

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vtuber_wiki/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
	sendBufferSize = 64
)

// FeedClient 代表一個訂閱變更事件的 WebSocket 連線
type FeedClient struct {
	conn     *websocket.Conn
	sendChan chan []byte
	once     sync.Once
}

// ChangeFeed 把變更事件廣播給所有連線中的客戶端
type ChangeFeed struct {
	clients    map[*FeedClient]bool
	clientsMux sync.RWMutex
}

func NewChangeFeed() *ChangeFeed {
	return &ChangeFeed{clients: make(map[*FeedClient]bool)}
}

// HandleConnection 註冊連線並阻塞直到連線關閉
func (f *ChangeFeed) HandleConnection(conn *websocket.Conn) {
	client := &FeedClient{
		conn:     conn,
		sendChan: make(chan []byte, sendBufferSize),
	}
	f.addClient(client)

	go f.writePump(client)
	f.readPump(client)

	f.removeClient(client)
}

// readPump 只處理控制訊息；客戶端送來的資料一律忽略
func (f *ChangeFeed) readPump(client *FeedClient) {
	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("change feed unexpected close", "error", err)
			}
			return
		}
	}
}

func (f *ChangeFeed) writePump(client *FeedClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.sendChan:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Publish 實作 Notifier；佇列已滿的客戶端會被斷線
func (f *ChangeFeed) Publish(event ChangeEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		slog.Error("change feed encode failed", "error", err)
		return
	}

	f.clientsMux.RLock()
	var slow []*FeedClient
	for client := range f.clients {
		select {
		case client.sendChan <- message:
		default:
			slow = append(slow, client)
		}
	}
	f.clientsMux.RUnlock()

	for _, client := range slow {
		f.removeClient(client)
	}
}

func (f *ChangeFeed) addClient(client *FeedClient) {
	f.clientsMux.Lock()
	defer f.clientsMux.Unlock()

	f.clients[client] = true
	metrics.ChangeFeedClients.Inc()
}

// removeClient 可重複呼叫，只有第一次會關閉 sendChan
func (f *ChangeFeed) removeClient(client *FeedClient) {
	f.clientsMux.Lock()
	defer f.clientsMux.Unlock()

	if _, ok := f.clients[client]; !ok {
		return
	}
	delete(f.clients, client)
	metrics.ChangeFeedClients.Dec()
	client.once.Do(func() { close(client.sendChan) })
}

// ClientCount 回傳目前的連線數
func (f *ChangeFeed) ClientCount() int {
	f.clientsMux.RLock()
	defer f.clientsMux.RUnlock()
	return len(f.clients)
}
