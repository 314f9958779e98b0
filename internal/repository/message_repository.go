package repository

import (
	"match_chat/internal/models"
	"match_chat/internal/storage"
)

type MessageRepository interface {
	Create(message *models.Message) error
	FindByIDs(ids []uint) ([]models.Message, error)
}

type messageRepository struct {
	db *storage.PostgresDB
}

func NewMessageRepository(db *storage.PostgresDB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *messageRepository) FindByIDs(ids []uint) ([]models.Message, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var messages []models.Message
	err := r.db.Where("id IN ?", ids).Find(&messages).Error
	return messages, err
}
