package service

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub 是進程內的連接註冊表，負責房間廣播與指定用戶的事件投遞
//
// 只有認證成功的會話才會被註冊。同一個用戶允許同時持有多條會話
// （多個裝置），註冊表不做單一會話限制。Hub 以依賴注入的方式建立，
// 不是套件層級的單例，測試可以自行替換。
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Register 將認證後的會話加入註冊表
func (h *Hub) Register(sess *Session) {
	h.mu.Lock()
	h.sessions[sess.ID] = sess
	h.mu.Unlock()

	if user := sess.User(); user != nil {
		h.logger.Info("會話已註冊", "session_id", sess.ID, "user_id", user.ID)
	}
}

// Get 依連接 ID 查詢會話
func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sess, ok := h.sessions[id]
	return sess, ok
}

// SetRoom 更新會話目前訂閱的房間
func (h *Hub) SetRoom(id string, roomID uint) {
	h.mu.RLock()
	sess, ok := h.sessions[id]
	h.mu.RUnlock()
	if ok {
		sess.SetRoom(roomID)
	}
}

// Remove 將會話移出註冊表
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()
}

// Len 回傳目前的會話數量
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// ForEach 對所有符合條件的會話執行動作，迭代順序不保證
func (h *Hub) ForEach(pred func(*Session) bool, fn func(*Session)) {
	h.mu.RLock()
	matched := make([]*Session, 0, len(h.sessions))
	for _, sess := range h.sessions {
		if pred(sess) {
			matched = append(matched, sess)
		}
	}
	h.mu.RUnlock()

	for _, sess := range matched {
		fn(sess)
	}
}

// Publish 將事件送給訂閱該房間的所有會話
func (h *Hub) Publish(roomID uint, event interface{}) {
	h.ForEach(
		func(s *Session) bool { return s.Room() == roomID },
		func(s *Session) { h.deliver(s, event) },
	)
}

// PublishExcept 房間廣播，但略過指定的會話（通常是事件的發起者）
func (h *Hub) PublishExcept(roomID uint, exceptID string, event interface{}) {
	h.ForEach(
		func(s *Session) bool { return s.Room() == roomID && s.ID != exceptID },
		func(s *Session) { h.deliver(s, event) },
	)
}

// PublishToUser 將事件送給該用戶的所有會話，不論是否在房間內。
// 配對排程器靠它通知 matched 事件，因為雙方都還沒訂閱新房間。
func (h *Hub) PublishToUser(userID uint, event interface{}) {
	h.ForEach(
		func(s *Session) bool {
			u := s.User()
			return u != nil && u.ID == userID
		},
		func(s *Session) { h.deliver(s, event) },
	)
}

// InRoomUsers 回傳目前實際在房間內的用戶 ID（即時視圖，非持久化成員）
func (h *Hub) InRoomUsers(roomID uint) []uint {
	seen := make(map[uint]bool)
	ids := make([]uint, 0)
	h.ForEach(
		func(s *Session) bool { return s.Room() == roomID && s.User() != nil },
		func(s *Session) {
			id := s.User().ID
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		},
	)
	return ids
}

// Close 關閉所有會話並清空註冊表，在進程收攤時呼叫
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, sess := range h.sessions {
		sessions = append(sessions, sess)
	}
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()

	for _, sess := range sessions {
		sess.Close(websocket.CloseGoingAway, "server shutting down")
	}
}

// deliver 嘗試投遞事件，發送隊列已滿代表客戶端消費太慢，直接斷線
func (h *Hub) deliver(sess *Session, event interface{}) {
	if !sess.Send(event) {
		h.logger.Warn("會話發送隊列已滿，關閉連接", "session_id", sess.ID)
		sess.Close(websocket.CloseTryAgainLater, "send buffer full")
	}
}
