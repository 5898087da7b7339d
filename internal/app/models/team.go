package models

import "time"

// Team represents a startup-led project team
type Team struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	LeaderID  int64     `json:"leaderId" db:"leader_id"`
	CompanyID *int64    `json:"companyId,omitempty" db:"company_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Leader  *User   `json:"leader,omitempty"`
	Members []*User `json:"members,omitempty"`
}

// TeamMember represents a user's membership in a team
type TeamMember struct {
	TeamID   int64     `json:"teamId" db:"team_id"`
	UserID   int64     `json:"userId" db:"user_id"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}

// TeamInvite represents a pending invitation to join a team
type TeamInvite struct {
	ID        int64     `json:"id" db:"id"`
	TeamID    int64     `json:"teamId" db:"team_id"`
	Email     string    `json:"email" db:"email"`
	Token     string    `json:"token" db:"token"`
	InvitedAt time.Time `json:"invitedAt" db:"invited_at"`

	// Related entities
	Team *Team `json:"team,omitempty"`
}
