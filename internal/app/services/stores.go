package services

import (
	"context"
	"time"

	"github.com/startconnect/api/internal/app/models"
)

// Storage contracts consumed by the services. The repositories package
// provides the production implementations; tests substitute in-memory fakes.

// UserStore is the user storage contract
type UserStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	MarkVerified(ctx context.Context, userID int64) error
	UpdateProfile(ctx context.Context, userID int64, name string, profilePicture *string) error
	CreateStudentProfile(ctx context.Context, userID int64) error
	GetStudentProfile(ctx context.Context, userID int64) (*models.StudentProfile, error)
	UpdateStudentProfile(ctx context.Context, profile *models.StudentProfile) error
	CreateStartupProfile(ctx context.Context, userID int64, companyName string) error
	GetStartupProfile(ctx context.Context, userID int64) (*models.StartupProfile, error)
	UpdateStartupProfile(ctx context.Context, profile *models.StartupProfile) error
	ListVerifiedStartups(ctx context.Context) ([]*models.StartupProfile, error)
}

// TeamStore is the team storage contract
type TeamStore interface {
	Create(ctx context.Context, team *models.Team) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Team, error)
	IsMember(ctx context.Context, teamID, userID int64) (bool, error)
	AddMember(ctx context.Context, teamID, userID int64) error
	RemoveMember(ctx context.Context, teamID, userID int64) error
	CreateInvite(ctx context.Context, invite *models.TeamInvite) error
	GetInviteByToken(ctx context.Context, token string) (*models.TeamInvite, error)
	DeleteInvite(ctx context.Context, id int64) error
}

// MessageStore is the message storage contract
type MessageStore interface {
	Create(ctx context.Context, message *models.Message) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	GetTeamMessages(ctx context.Context, teamID int64, limit int) ([]*models.Message, error)
	SoftDelete(ctx context.Context, id int64) error
	MarkRead(ctx context.Context, teamID, userID int64, messageIDs []int64) (int64, error)
}

// TokenStore is the refresh token storage contract
type TokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (int64, time.Time, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}
