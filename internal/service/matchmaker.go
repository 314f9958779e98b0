package service

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"match_chat/internal/models"
	"match_chat/internal/repository"
)

// Matchmaker 是週期性的隨機配對排程器
//
// 每次掃描把狀態為 pending 的用戶兩兩隨機配對，為每一對建立新房間，
// 並透過 Hub 直接通知雙方的所有會話。掃描由單一 goroutine 執行，
// 不會有重疊的輪次。配對只做均勻隨機選擇，不考慮等待時間公平性。
type Matchmaker struct {
	users    repository.UserRepository
	channels repository.ChannelRepository
	hub      *Hub
	interval time.Duration
	logger   *slog.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewMatchmaker(
	users repository.UserRepository,
	channels repository.ChannelRepository,
	hub *Hub,
	interval time.Duration,
	logger *slog.Logger,
) *Matchmaker {
	return &Matchmaker{
		users:    users,
		channels: channels,
		hub:      hub,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start 啟動排程迴圈
func (m *Matchmaker) Start() {
	m.wg.Add(1)
	go m.loop()
	m.logger.Info("配對排程器已啟動", "interval", m.interval)
}

// Stop 停止排程迴圈並等待當前輪次結束
func (m *Matchmaker) Stop() {
	close(m.stopCh)
	m.wg.Wait()
}

func (m *Matchmaker) loop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Tick()
		case <-m.stopCh:
			return
		}
	}
}

// Tick 執行一輪配對掃描。
// 同一輪內已配對的用戶不會再被選為候選人，也不可能與自己配對。
// 單一配對失敗只會略過該對，不影響同輪的其他配對。
func (m *Matchmaker) Tick() {
	pending, err := m.users.FindByStatus(models.StatusPending)
	if err != nil {
		m.logger.Error("查詢等待配對用戶失敗", "error", err)
		return
	}

	consumed := make(map[uint]bool)
	for i := range pending {
		user := &pending[i]
		if consumed[user.ID] {
			continue
		}

		// 從本輪尚未配對的其他用戶中均勻隨機挑選對象
		candidates := make([]*models.User, 0, len(pending))
		for j := range pending {
			other := &pending[j]
			if other.ID != user.ID && !consumed[other.ID] {
				candidates = append(candidates, other)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		partner := candidates[rand.Intn(len(candidates))]

		if err := m.pair(user, partner); err != nil {
			m.logger.Error("配對失敗",
				"user_id", user.ID,
				"partner_id", partner.ID,
				"error", err)
			continue
		}
		consumed[user.ID] = true
		consumed[partner.ID] = true
	}
}

// pair 認領兩個用戶、建立房間並通知雙方。
// 先用 compare-and-set 把兩人從 pending 轉成 joined：
// 有人在掃描後取消配對時認領會不足兩筆，此時把已認領的一方放回
// pending 並略過這一對，避免單邊收到 matched。
func (m *Matchmaker) pair(user, partner *models.User) error {
	ids := []uint{user.ID, partner.ID}

	claimed, err := m.users.CompareAndSetStatus(ids, models.StatusPending, models.StatusJoined)
	if err != nil {
		return fmt.Errorf("認領配對用戶: %w", err)
	}
	if claimed != int64(len(ids)) {
		m.release(ids)
		return fmt.Errorf("配對對象已離開等待狀態")
	}

	channel := &models.Channel{
		Name:     "random " + uuid.NewString(),
		OwnerID:  user.ID,
		Members:  models.UintArray{user.ID, partner.ID},
		Messages: models.UintArray{},
	}
	if err := m.channels.Create(channel); err != nil {
		m.release(ids)
		return fmt.Errorf("建立配對房間: %w", err)
	}

	roomID := strconv.FormatUint(uint64(channel.ID), 10)
	matched := NewMatchedEvent(roomID)
	m.hub.PublishToUser(user.ID, matched)
	m.hub.PublishToUser(partner.ID, matched)

	m.logger.Info("配對成功",
		"room_id", channel.ID,
		"user_id", user.ID,
		"partner_id", partner.ID)
	return nil
}

// release 把認領到一半的用戶放回等待狀態
func (m *Matchmaker) release(ids []uint) {
	if _, err := m.users.CompareAndSetStatus(ids, models.StatusJoined, models.StatusPending); err != nil {
		m.logger.Error("回復等待狀態失敗", "ids", ids, "error", err)
	}
}
