package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"match_chat/internal/models"
)

// Session 代表一條 WebSocket 連接的會話狀態
//
// User 在 authorize 成功前為 nil；RoomID 為 0 表示尚未訂閱任何房間。
// 出站事件先進入緩衝通道，由 writePump 非同步送出。
type Session struct {
	ID   string
	conn *websocket.Conn

	mu     sync.RWMutex
	user   *models.User
	roomID uint

	send      chan interface{}
	done      chan struct{}
	closeOnce sync.Once

	// 連接關閉的清理只能執行一次，由 ChatService.Disconnect 使用
	disconnectOnce sync.Once
}

// NewSession 建立一個尚未認證的會話，conn 在測試中可為 nil
func NewSession(conn *websocket.Conn) *Session {
	return &Session{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan interface{}, 256),
		done: make(chan struct{}),
	}
}

// User 回傳綁定的用戶，未認證時為 nil
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) SetUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// Room 回傳目前訂閱的房間 ID，0 表示沒有
func (s *Session) Room() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomID
}

func (s *Session) SetRoom(roomID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roomID = roomID
}

// Send 將事件排入發送隊列，隊列已滿或會話已關閉時回傳 false
func (s *Session) Send(event interface{}) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.send <- event:
		return true
	default:
		return false
	}
}

// Outbound 供 writePump 與測試讀取出站事件
func (s *Session) Outbound() <-chan interface{} {
	return s.send
}

// Done 在會話關閉後被 close
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close 關閉會話，帶上 WebSocket 關閉碼，重複呼叫只會生效一次
func (s *Session) Close(code int, reason string) {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.conn != nil {
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(code, reason))
			s.conn.Close()
		}
	})
}

// Closed 回報會話是否已關閉
func (s *Session) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
