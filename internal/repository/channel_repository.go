package repository

import (
	"errors"

	"gorm.io/gorm"

	"match_chat/internal/models"
	"match_chat/internal/storage"
)

var ErrChannelNotFound = errors.New("房間不存在")

type ChannelRepository interface {
	Create(channel *models.Channel) error
	FindByID(id uint) (*models.Channel, error)
	FindByMember(userID uint) ([]models.Channel, error)
	// AddMember 以單一語句將用戶附加到成員陣列，已是成員時不重複加入。
	// 回傳 true 表示本次確實新增了成員。
	AddMember(channelID, userID uint) (bool, error)
	// AppendMessage 以單一語句將訊息 ID 附加到房間的訊息序列
	AppendMessage(channelID, messageID uint) error
}

type channelRepository struct {
	db *storage.PostgresDB
}

func NewChannelRepository(db *storage.PostgresDB) ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) Create(channel *models.Channel) error {
	return r.db.Create(channel).Error
}

func (r *channelRepository) FindByID(id uint) (*models.Channel, error) {
	var channel models.Channel
	err := r.db.First(&channel, id).Error
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *channelRepository) FindByMember(userID uint) ([]models.Channel, error) {
	var channels []models.Channel
	err := r.db.Where("? = ANY(members)", userID).Order("id asc").Find(&channels).Error
	return channels, err
}

func (r *channelRepository) AddMember(channelID, userID uint) (bool, error) {
	// 去重條件放在 SQL 裡，兩個同時加入的請求不會產生重複成員
	res := r.db.Model(&models.Channel{}).
		Where("id = ? AND NOT (? = ANY(members))", channelID, userID).
		Update("members", gorm.Expr("array_append(members, ?)", userID))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *channelRepository) AppendMessage(channelID, messageID uint) error {
	res := r.db.Model(&models.Channel{}).
		Where("id = ?", channelID).
		Update("messages", gorm.Expr("array_append(messages, ?)", messageID))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrChannelNotFound
	}
	return nil
}
