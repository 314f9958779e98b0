package repository

import "match_chat/internal/storage"

type Repositories struct {
	User    UserRepository
	Channel ChannelRepository
	Message MessageRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Channel: NewChannelRepository(db),
		Message: NewMessageRepository(db),
	}
}
