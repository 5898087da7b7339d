package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository    *UserRepository
	TeamRepository    *TeamRepository
	MessageRepository *MessageRepository
	TokenRepository   *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db),
		TeamRepository:    NewTeamRepository(db),
		MessageRepository: NewMessageRepository(db),
		TokenRepository:   NewTokenRepository(db),
	}
}
