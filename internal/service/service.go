package service

import (
	"log/slog"
	"time"

	"match_chat/internal/repository"
)

type Services struct {
	User       *UserService
	Channel    *ChannelService
	Chat       *ChatService
	Hub        *Hub
	Matchmaker *Matchmaker
}

func NewServices(repos *repository.Repositories, logger *slog.Logger, matchInterval time.Duration) *Services {
	hub := NewHub(logger)

	userService := NewUserService(repos.User)
	channelService := NewChannelService(repos.Channel, repos.User, repos.Message, hub)
	chatService := NewChatService(hub, repos.User, repos.Channel, repos.Message, logger)
	matchmaker := NewMatchmaker(repos.User, repos.Channel, hub, matchInterval, logger)

	return &Services{
		User:       userService,
		Channel:    channelService,
		Chat:       chatService,
		Hub:        hub,
		Matchmaker: matchmaker,
	}
}
