package service_test

import (
	"errors"
	"log/slog"
	"os"
	"sort"
	"sync"

	"match_chat/internal/models"
)

// 創建測試用的 logger
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // 測試時只顯示錯誤
	}))
}

// fakeUserRepo 是 UserRepository 的記憶體實作，狀態更新模擬
// 單一語句的原子行為
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]*models.User

	failUpdate bool // 模擬持久化失敗
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) add(user *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.ID] = &clone
}

func (r *fakeUserRepo) status(id uint) models.UserStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u.Status
	}
	return ""
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		user.ID = uint(len(r.users) + 1)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *fakeUserRepo) FindByStatus(status models.UserStatus) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.User
	for _, user := range r.users {
		if user.Status == status {
			result = append(result, *user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeUserRepo) UpdateStatus(id uint, status models.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate {
		return errors.New("database is down")
	}
	user, ok := r.users[id]
	if !ok {
		return errors.New("用戶不存在")
	}
	user.Status = status
	return nil
}

func (r *fakeUserRepo) CompareAndSetStatus(ids []uint, from, to models.UserStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate {
		return 0, errors.New("database is down")
	}
	var affected int64
	for _, id := range ids {
		if user, ok := r.users[id]; ok && user.Status == from {
			user.Status = to
			affected++
		}
	}
	return affected, nil
}

// fakeChannelRepo 是 ChannelRepository 的記憶體實作
type fakeChannelRepo struct {
	mu       sync.Mutex
	channels map[uint]*models.Channel
	nextID   uint

	failCreate bool // 模擬建立房間失敗
}

func newFakeChannelRepo() *fakeChannelRepo {
	return &fakeChannelRepo{channels: make(map[uint]*models.Channel), nextID: 1}
}

func (r *fakeChannelRepo) get(id uint) *models.Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.channels[id]; ok {
		clone := *ch
		clone.Members = append([]uint(nil), ch.Members...)
		clone.Messages = append([]uint(nil), ch.Messages...)
		return &clone
	}
	return nil
}

func (r *fakeChannelRepo) Create(channel *models.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("database is down")
	}
	channel.ID = r.nextID
	r.nextID++
	clone := *channel
	clone.Members = append([]uint(nil), channel.Members...)
	clone.Messages = append([]uint(nil), channel.Messages...)
	r.channels[channel.ID] = &clone
	return nil
}

func (r *fakeChannelRepo) FindByID(id uint) (*models.Channel, error) {
	ch := r.get(id)
	if ch == nil {
		return nil, errors.New("record not found")
	}
	return ch, nil
}

func (r *fakeChannelRepo) FindByMember(userID uint) ([]models.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Channel
	for _, ch := range r.channels {
		for _, id := range ch.Members {
			if id == userID {
				result = append(result, *ch)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeChannelRepo) AddMember(channelID, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[channelID]
	if !ok {
		return false, errors.New("record not found")
	}
	for _, id := range ch.Members {
		if id == userID {
			return false, nil
		}
	}
	ch.Members = append(ch.Members, userID)
	return true, nil
}

func (r *fakeChannelRepo) AppendMessage(channelID, messageID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[channelID]
	if !ok {
		return errors.New("房間不存在")
	}
	ch.Messages = append(ch.Messages, messageID)
	return nil
}

// fakeMessageRepo 是 MessageRepository 的記憶體實作
type fakeMessageRepo struct {
	mu       sync.Mutex
	messages map[uint]*models.Message
	nextID   uint
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[uint]*models.Message), nextID: 1}
}

func (r *fakeMessageRepo) Create(message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message.ID = r.nextID
	r.nextID++
	clone := *message
	r.messages[message.ID] = &clone
	return nil
}

func (r *fakeMessageRepo) FindByIDs(ids []uint) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Message
	for _, id := range ids {
		if m, ok := r.messages[id]; ok {
			result = append(result, *m)
		}
	}
	return result, nil
}
