package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"match_chat/internal/models"
	"match_chat/internal/service"
)

// newHubSession 建立一條已綁定用戶並訂閱房間的測試會話
func newHubSession(hub *service.Hub, userID, roomID uint) *service.Session {
	sess := service.NewSession(nil)
	sess.SetUser(&models.User{ID: userID, Username: "user", Status: models.StatusOnline})
	hub.Register(sess)
	hub.SetRoom(sess.ID, roomID)
	return sess
}

// drain 非阻塞地讀出會話目前累積的所有出站事件
func drain(sess *service.Session) []interface{} {
	var events []interface{}
	for {
		select {
		case ev := <-sess.Outbound():
			events = append(events, ev)
		default:
			return events
		}
	}
}

// TestHub_RegisterGetRemove 測試註冊表的基本操作
func TestHub_RegisterGetRemove(t *testing.T) {
	hub := service.NewHub(testLogger())

	sess := newHubSession(hub, 1, 0)
	require.Equal(t, 1, hub.Len())

	got, ok := hub.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	hub.Remove(sess.ID)
	assert.Equal(t, 0, hub.Len())

	_, ok = hub.Get(sess.ID)
	assert.False(t, ok)
}

// TestHub_Publish 測試房間廣播只送達訂閱該房間的會話
func TestHub_Publish(t *testing.T) {
	hub := service.NewHub(testLogger())

	inRoom1 := newHubSession(hub, 1, 5)
	inRoom2 := newHubSession(hub, 2, 5)
	otherRoom := newHubSession(hub, 3, 7)
	noRoom := newHubSession(hub, 4, 0)

	hub.Publish(5, "hello")

	assert.Len(t, drain(inRoom1), 1)
	assert.Len(t, drain(inRoom2), 1)
	assert.Empty(t, drain(otherRoom))
	assert.Empty(t, drain(noRoom))
}

// TestHub_PublishExcept 測試廣播略過指定的會話
func TestHub_PublishExcept(t *testing.T) {
	hub := service.NewHub(testLogger())

	sender := newHubSession(hub, 1, 5)
	receiver := newHubSession(hub, 2, 5)

	hub.PublishExcept(5, sender.ID, "hello")

	assert.Empty(t, drain(sender))
	assert.Len(t, drain(receiver), 1)
}

// TestHub_PublishToUser 測試同一個用戶的多條會話都會收到事件
func TestHub_PublishToUser(t *testing.T) {
	hub := service.NewHub(testLogger())

	// 用戶 1 開了兩個裝置，一個在房間內一個不在
	device1 := newHubSession(hub, 1, 5)
	device2 := newHubSession(hub, 1, 0)
	other := newHubSession(hub, 2, 5)

	hub.PublishToUser(1, "matched")

	assert.Len(t, drain(device1), 1)
	assert.Len(t, drain(device2), 1)
	assert.Empty(t, drain(other))
}

// TestHub_InRoomUsers 測試即時房間成員視圖會去重
func TestHub_InRoomUsers(t *testing.T) {
	hub := service.NewHub(testLogger())

	newHubSession(hub, 1, 5)
	newHubSession(hub, 1, 5) // 同一個用戶的第二條會話
	newHubSession(hub, 2, 5)
	newHubSession(hub, 3, 7)

	ids := hub.InRoomUsers(5)
	assert.ElementsMatch(t, []uint{1, 2}, ids)
}

// TestHub_Close 測試關閉註冊表會中斷所有會話
func TestHub_Close(t *testing.T) {
	hub := service.NewHub(testLogger())
	a := newHubSession(hub, 1, 5)
	b := newHubSession(hub, 2, 0)

	hub.Close()

	assert.Equal(t, 0, hub.Len())
	assert.True(t, a.Closed())
	assert.True(t, b.Closed())
}

// TestHub_SlowConsumerIsDropped 測試發送隊列滿了之後會話會被關閉
func TestHub_SlowConsumerIsDropped(t *testing.T) {
	hub := service.NewHub(testLogger())

	sess := newHubSession(hub, 1, 5)

	// 填滿發送緩衝
	for sess.Send("filler") {
	}
	require.False(t, sess.Closed())

	hub.Publish(5, "overflow")
	assert.True(t, sess.Closed())
}
