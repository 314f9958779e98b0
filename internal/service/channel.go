package service

import (
	"match_chat/internal/models"
	"match_chat/internal/repository"
)

// ChannelService 提供房間的查詢與建立，給 HTTP 層使用
type ChannelService struct {
	channelRepo repository.ChannelRepository
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	hub         *Hub
}

func NewChannelService(
	channelRepo repository.ChannelRepository,
	userRepo repository.UserRepository,
	messageRepo repository.MessageRepository,
	hub *Hub,
) *ChannelService {
	return &ChannelService{
		channelRepo: channelRepo,
		userRepo:    userRepo,
		messageRepo: messageRepo,
		hub:         hub,
	}
}

func (s *ChannelService) CreateChannel(name string, owner uint) (*models.Channel, error) {
	channel := &models.Channel{
		Name:     name,
		OwnerID:  owner,
		Members:  models.UintArray{},
		Messages: models.UintArray{},
	}
	if err := s.channelRepo.Create(channel); err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *ChannelService) GetChannel(id uint) (*models.Channel, error) {
	return s.channelRepo.FindByID(id)
}

// GetChannelsForUser 回傳用戶所屬的所有房間
func (s *ChannelService) GetChannelsForUser(userID uint) ([]models.Channel, error) {
	return s.channelRepo.FindByMember(userID)
}

// GetChannelUsers 回傳房間的持久化成員，以及目前實際在房間內的用戶 ID
func (s *ChannelService) GetChannelUsers(id uint) ([]models.User, []uint, error) {
	channel, err := s.channelRepo.FindByID(id)
	if err != nil {
		return nil, nil, err
	}

	users := make([]models.User, 0, len(channel.Members))
	for _, memberID := range channel.Members {
		user, err := s.userRepo.FindByID(memberID)
		if err != nil {
			return nil, nil, err
		}
		users = append(users, *user)
	}

	return users, s.hub.InRoomUsers(channel.ID), nil
}

// GetChannelMessages 依房間訊息序列的順序回傳歷史訊息
func (s *ChannelService) GetChannelMessages(id uint) ([]models.Message, error) {
	channel, err := s.channelRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindByIDs(channel.Messages)
	if err != nil {
		return nil, err
	}

	// 查詢結果依訊息陣列的順序重排
	byID := make(map[uint]models.Message, len(messages))
	for _, m := range messages {
		byID[m.ID] = m
	}
	ordered := make([]models.Message, 0, len(channel.Messages))
	for _, msgID := range channel.Messages {
		if m, ok := byID[msgID]; ok {
			ordered = append(ordered, m)
		}
	}
	return ordered, nil
}
