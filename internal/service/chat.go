package service

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"match_chat/internal/models"
	"match_chat/internal/repository"
	"match_chat/internal/utils"
)

// ChatService 是每條連接的協議處理器
//
// 狀態機：未認證 → 已認證 → (配對中 | 房間內)。所有入站事件先經過
// ParseClientEvent 的封閉聯集驗證，再依 type 分派；認證之前除了
// authorize 以外的事件一律拒絕。事件處理只依賴 repository 介面與
// Hub，不需要真實的 WebSocket 連接，方便單獨測試。
type ChatService struct {
	hub      *Hub
	users    repository.UserRepository
	channels repository.ChannelRepository
	messages repository.MessageRepository
	logger   *slog.Logger
}

func NewChatService(
	hub *Hub,
	users repository.UserRepository,
	channels repository.ChannelRepository,
	messages repository.MessageRepository,
	logger *slog.Logger,
) *ChatService {
	return &ChatService{
		hub:      hub,
		users:    users,
		channels: channels,
		messages: messages,
		logger:   logger,
	}
}

// HandleConnection 接手一條升級完成的 WebSocket 連接，直到連接關閉才返回
func (s *ChatService) HandleConnection(conn *websocket.Conn) {
	sess := NewSession(conn)

	// 連接關閉時的清理必須且只會執行一次
	defer s.Disconnect(sess)

	go s.writePump(sess, conn)
	s.readPump(sess, conn)
}

// readPump 持續讀取並分派入站事件
func (s *ChatService) readPump(sess *Session, conn *websocket.Conn) {
	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Debug("websocket 連接異常關閉", "session_id", sess.ID, "error", err)
			}
			return
		}
		s.HandleRaw(sess, raw)
		if sess.Closed() {
			return
		}
	}
}

// writePump 將會話的出站事件編碼送出，並定期發送心跳
func (s *ChatService) writePump(sess *Session, conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event := <-sess.Outbound():
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			payload, err := json.Marshal(event)
			if err != nil {
				s.logger.Error("出站事件編碼失敗", "error", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-sess.Done():
			return
		}
	}
}

// HandleRaw 驗證並分派一則入站事件
func (s *ChatService) HandleRaw(sess *Session, raw []byte) {
	event, err := ParseClientEvent(raw)
	if err != nil {
		sess.Send(NewErrorEvent(ErrBadMessage, err.Error()))
		return
	}

	// authorize 之外的事件必須等認證成功
	if _, ok := event.(AuthorizeEvent); !ok && sess.User() == nil {
		sess.Send(NewErrorEvent(ErrInvalidSet, "尚未完成認證"))
		return
	}

	switch ev := event.(type) {
	case AuthorizeEvent:
		s.handleAuthorize(sess, ev)
	case MatchEvent:
		s.handleMatch(sess)
	case CancelMatchEvent:
		s.handleCancelMatch(sess)
	case JoinRoomEvent:
		s.handleJoinRoom(sess, ev)
	case MessageEvent:
		s.handleMessage(sess, ev)
	case TypingEvent:
		s.handleTyping(sess, ev)
	}
}

// handleAuthorize 驗證 token 並將會話綁定到用戶。
// 驗證失敗以 1008 關閉連接；已認證的會話重送 authorize 會被拒絕。
func (s *ChatService) handleAuthorize(sess *Session, ev AuthorizeEvent) {
	if sess.User() != nil {
		sess.Send(NewErrorEvent(ErrInvalidSet, "會話已經完成認證"))
		return
	}

	claims, err := utils.ParseToken(ev.Token)
	if err != nil {
		sess.Close(websocket.ClosePolicyViolation, "Unauthorized")
		return
	}

	if err := s.users.UpdateStatus(claims.UserID, models.StatusOnline); err != nil {
		sess.Close(websocket.ClosePolicyViolation, "Unauthorized")
		return
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		sess.Close(websocket.ClosePolicyViolation, "Unauthorized")
		return
	}

	sess.SetUser(user)
	s.hub.Register(sess)
	sess.Send(NewAuthorizedReply())
}

// handleMatch 將用戶標記為等待配對，並刷新會話上的用戶快照
func (s *ChatService) handleMatch(sess *Session) {
	user := sess.User()
	if err := s.users.UpdateStatus(user.ID, models.StatusPending); err != nil {
		sess.Send(NewErrorEvent(ErrInvalidSet, "Invalid set"))
		return
	}

	refreshed, err := s.users.FindByID(user.ID)
	if err != nil {
		sess.Send(NewErrorEvent(ErrInvalidSet, "Invalid set"))
		return
	}
	sess.SetUser(refreshed)
}

// handleCancelMatch 取消等待配對，狀態回到 online
func (s *ChatService) handleCancelMatch(sess *Session) {
	user := sess.User()
	if err := s.users.UpdateStatus(user.ID, models.StatusOnline); err != nil {
		sess.Send(NewErrorEvent(ErrInvalidSet, "Invalid set"))
		return
	}

	refreshed, err := s.users.FindByID(user.ID)
	if err != nil {
		sess.Send(NewErrorEvent(ErrInvalidSet, "Invalid set"))
		return
	}
	sess.SetUser(refreshed)
	sess.Send(NewCancelMatchReply())
}

// handleJoinRoom 訂閱房間並在需要時附加持久化成員。
// 重複加入同一個房間只更新即時訂閱，不會重複寫入成員陣列。
func (s *ChatService) handleJoinRoom(sess *Session, ev JoinRoomEvent) {
	user := sess.User()

	roomID, err := strconv.ParseUint(ev.RoomID, 10, 32)
	if err != nil {
		sess.Send(NewErrorEvent(ErrInvalidSet, "Invalid set"))
		return
	}

	channel, err := s.channels.FindByID(uint(roomID))
	if err != nil {
		sess.Send(NewErrorEvent(ErrInvalidSet, "Invalid set"))
		return
	}

	s.hub.SetRoom(sess.ID, channel.ID)

	if !channel.HasMember(user.ID) {
		if _, err := s.channels.AddMember(channel.ID, user.ID); err != nil {
			sess.Send(NewErrorEvent(ErrInvalidSet, "Invalid set"))
			return
		}
		// 重新讀取，讓回覆帶上最新的成員名單
		channel, err = s.channels.FindByID(channel.ID)
		if err != nil {
			sess.Send(NewErrorEvent(ErrInvalidSet, "Invalid set"))
			return
		}
	}

	s.hub.PublishExcept(channel.ID, sess.ID, NewUserJoinedEvent(user, channel))
	sess.Send(NewJoinRoomReply(ev.RoomID, channel))
}

// handleMessage 建立訊息、附加到房間的訊息序列並廣播。
// 房間查找失敗時不會建立任何訊息，也不會廣播。
func (s *ChatService) handleMessage(sess *Session, ev MessageEvent) {
	user := sess.User()

	roomID := sess.Room()
	if roomID == 0 {
		sess.Send(NewErrorEvent(ErrInvalidSet, "Invalid set"))
		return
	}

	channel, err := s.channels.FindByID(roomID)
	if err != nil {
		sess.Send(NewErrorEvent(ErrInvalidSet, "Invalid set"))
		return
	}

	message := &models.Message{
		ChatID:  channel.ID,
		Author:  user.ID,
		Content: ev.Content,
	}
	if err := s.messages.Create(message); err != nil {
		s.logger.Error("訊息寫入失敗", "user_id", user.ID, "room_id", roomID, "error", err)
		sess.Send(NewErrorEvent(ErrInvalidSet, "Invalid set"))
		return
	}
	if err := s.channels.AppendMessage(channel.ID, message.ID); err != nil {
		s.logger.Error("訊息序列更新失敗", "message_id", message.ID, "room_id", roomID, "error", err)
		sess.Send(NewErrorEvent(ErrInvalidSet, "Invalid set"))
		return
	}

	broadcast := NewMessageBroadcast(message)
	sess.Send(broadcast)
	s.hub.PublishExcept(channel.ID, sess.ID, broadcast)
}

// handleTyping 廣播輸入狀態，不做持久化
func (s *ChatService) handleTyping(sess *Session, ev TypingEvent) {
	user := sess.User()

	roomID := sess.Room()
	if roomID == 0 {
		sess.Send(NewErrorEvent(ErrInvalidSet, "Invalid set"))
		return
	}

	if _, err := s.channels.FindByID(roomID); err != nil {
		sess.Send(NewErrorEvent(ErrInvalidSet, "Invalid set"))
		return
	}

	s.hub.PublishExcept(roomID, sess.ID, NewTypingBroadcast(ev.IsTyping, user.ID))
}

// Disconnect 執行連接關閉時的清理：通知同房間的其他會話、
// 將用戶標記為離線、從註冊表移除。對同一個會話只會生效一次。
func (s *ChatService) Disconnect(sess *Session) {
	sess.disconnectOnce.Do(func() {
		user := sess.User()
		if user != nil {
			if roomID := sess.Room(); roomID != 0 {
				left := NewUserLeftEvent(user.ID, strconv.FormatUint(uint64(roomID), 10))
				s.hub.PublishExcept(roomID, sess.ID, left)
			}

			if err := s.users.UpdateStatus(user.ID, models.StatusOffline); err != nil {
				s.logger.Error("離線狀態更新失敗", "user_id", user.ID, "error", err)
			}
			s.hub.Remove(sess.ID)
		}

		sess.Close(websocket.CloseNormalClosure, "")
	})
}
