package dto

import (
	"time"

	"github.com/startconnect/api/internal/app/models"
)

// --- Request DTOs ---

// CreateTeamRequest represents data for creating a new team
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// InviteMemberRequest represents an invitation to join a team
type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AcceptInviteRequest represents accepting a team invitation
type AcceptInviteRequest struct {
	Token string `json:"token" binding:"required"`
}

// --- Response DTOs ---

// TeamResponse represents a team with its leader and members
type TeamResponse struct {
	ID        int64               `json:"id"`
	Name      string              `json:"name"`
	LeaderID  int64               `json:"leaderId"`
	CreatedAt time.Time           `json:"createdAt"`
	Leader    *UserBasicResponse  `json:"leader,omitempty"`
	Members   []UserBasicResponse `json:"members"`
}

// TeamInviteResponse represents a pending team invitation
type TeamInviteResponse struct {
	ID        int64     `json:"id"`
	TeamID    int64     `json:"teamId"`
	Email     string    `json:"email"`
	InvitedAt time.Time `json:"invitedAt"`
}

// ToTeamResponse transforms a models.Team to TeamResponse
func ToTeamResponse(team *models.Team) *TeamResponse {
	response := &TeamResponse{
		ID:        team.ID,
		Name:      team.Name,
		LeaderID:  team.LeaderID,
		CreatedAt: team.CreatedAt,
		Members:   make([]UserBasicResponse, 0, len(team.Members)),
	}

	if team.Leader != nil {
		response.Leader = ToUserBasicResponse(team.Leader)
	}

	for _, member := range team.Members {
		response.Members = append(response.Members, *ToUserBasicResponse(member))
	}

	return response
}
