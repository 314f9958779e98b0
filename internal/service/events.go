package service

import (
	"encoding/json"
	"fmt"

	"match_chat/internal/models"
)

// 錯誤代碼，隨 error 事件回傳給客戶端
const (
	ErrBadMessage = "bad_message" // 訊息不符合協議格式
	ErrInvalidSet = "invalid_set" // 格式正確但前置條件不滿足
)

// 入站事件，封閉集合，以 type 欄位區分

type ClientEvent interface {
	clientEvent()
}

type AuthorizeEvent struct {
	Token string `json:"token"`
}

type MatchEvent struct{}

type CancelMatchEvent struct{}

type JoinRoomEvent struct {
	RoomID string `json:"roomId"`
}

type MessageEvent struct {
	Content string `json:"content"`
}

type TypingEvent struct {
	IsTyping bool `json:"isTyping"`
}

func (AuthorizeEvent) clientEvent()   {}
func (MatchEvent) clientEvent()       {}
func (CancelMatchEvent) clientEvent() {}
func (JoinRoomEvent) clientEvent()    {}
func (MessageEvent) clientEvent()     {}
func (TypingEvent) clientEvent()      {}

// ParseClientEvent 依 type 欄位將原始 JSON 解析為對應的入站事件。
// 未知的 type 或缺少必要欄位都視為格式錯誤，呼叫端應回覆 bad_message。
func ParseClientEvent(raw []byte) (ClientEvent, error) {
	var probe struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("無法解析訊息: %w", err)
	}
	if probe.Type == nil {
		return nil, fmt.Errorf("訊息缺少 type 欄位")
	}

	switch *probe.Type {
	case "authorize":
		var payload struct {
			Token *string `json:"token"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil || payload.Token == nil {
			return nil, fmt.Errorf("authorize 缺少 token 欄位")
		}
		return AuthorizeEvent{Token: *payload.Token}, nil
	case "match":
		return MatchEvent{}, nil
	case "cancelMatch":
		return CancelMatchEvent{}, nil
	case "joinRoom":
		var payload struct {
			RoomID *string `json:"roomId"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil || payload.RoomID == nil {
			return nil, fmt.Errorf("joinRoom 缺少 roomId 欄位")
		}
		return JoinRoomEvent{RoomID: *payload.RoomID}, nil
	case "message":
		var payload struct {
			Content *string `json:"content"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil || payload.Content == nil {
			return nil, fmt.Errorf("message 缺少 content 欄位")
		}
		return MessageEvent{Content: *payload.Content}, nil
	case "typing":
		var payload struct {
			IsTyping *bool `json:"isTyping"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil || payload.IsTyping == nil {
			return nil, fmt.Errorf("typing 缺少 isTyping 欄位")
		}
		return TypingEvent{IsTyping: *payload.IsTyping}, nil
	default:
		return nil, fmt.Errorf("未知的事件類型: %s", *probe.Type)
	}
}

// 出站事件，直接做 JSON 編碼送出

type ServerErrorEvent struct {
	Type string          `json:"type"`
	Data ServerErrorData `json:"data"`
}

type ServerErrorData struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewErrorEvent(code, message string) ServerErrorEvent {
	return ServerErrorEvent{Type: "error", Data: ServerErrorData{Error: code, Message: message}}
}

type AuthorizedReply struct {
	Type string `json:"type"`
}

func NewAuthorizedReply() AuthorizedReply {
	return AuthorizedReply{Type: "authorized"}
}

type MatchedEvent struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

func NewMatchedEvent(roomID string) MatchedEvent {
	return MatchedEvent{Type: "matched", RoomID: roomID}
}

type CancelMatchReply struct {
	Type string `json:"type"`
}

func NewCancelMatchReply() CancelMatchReply {
	return CancelMatchReply{Type: "cancelMatch"}
}

type JoinRoomReply struct {
	Type   string          `json:"type"`
	RoomID string          `json:"roomId"`
	Room   *models.Channel `json:"room"`
}

func NewJoinRoomReply(roomID string, room *models.Channel) JoinRoomReply {
	return JoinRoomReply{Type: "joinRoom", RoomID: roomID, Room: room}
}

type UserJoinedEvent struct {
	Type string          `json:"type"`
	User *models.User    `json:"user"`
	Room *models.Channel `json:"room"`
}

func NewUserJoinedEvent(user *models.User, room *models.Channel) UserJoinedEvent {
	return UserJoinedEvent{Type: "userJoined", User: user, Room: room}
}

type MessageBroadcast struct {
	Type    string          `json:"type"`
	Message *models.Message `json:"message"`
}

func NewMessageBroadcast(message *models.Message) MessageBroadcast {
	return MessageBroadcast{Type: "message", Message: message}
}

type TypingBroadcast struct {
	Type     string `json:"type"`
	IsTyping bool   `json:"isTyping"`
	UserID   uint   `json:"userId"`
}

func NewTypingBroadcast(isTyping bool, userID uint) TypingBroadcast {
	return TypingBroadcast{Type: "typing", IsTyping: isTyping, UserID: userID}
}

type UserLeftEvent struct {
	Type   string `json:"type"`
	UserID uint   `json:"userId"`
	RoomID string `json:"roomId"`
}

func NewUserLeftEvent(userID uint, roomID string) UserLeftEvent {
	return UserLeftEvent{Type: "userLeft", UserID: userID, RoomID: roomID}
}
