package dto

import (
	"time"

	"github.com/startconnect/api/internal/app/models"
)

// UserBasicResponse represents the sender summary attached to messages and member lists
type UserBasicResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	Role           string  `json:"role"`
}

// UserResponse represents full user information
type UserResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	IsVerified     bool      `json:"isVerified"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
	TeamID         *int64    `json:"teamId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	Name           string  `json:"name" binding:"required"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// UpdateStudentProfileRequest represents student profile update data
type UpdateStudentProfileRequest struct {
	University     *string  `json:"university,omitempty"`
	Major          *string  `json:"major,omitempty"`
	GraduationYear *int     `json:"graduationYear,omitempty"`
	Bio            *string  `json:"bio,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	ResumeURL      *string  `json:"resumeUrl,omitempty"`
}

// UpdateStartupProfileRequest represents startup profile update data
type UpdateStartupProfileRequest struct {
	CompanyName string  `json:"companyName" binding:"required"`
	Website     *string `json:"website,omitempty"`
	Description *string `json:"description,omitempty"`
	Logo        *string `json:"logo,omitempty"`
}

// StartupListItem represents a verified startup in the public directory
type StartupListItem struct {
	UserID      int64   `json:"userId"`
	CompanyName string  `json:"companyName"`
	Website     *string `json:"website,omitempty"`
	Description *string `json:"description,omitempty"`
	Logo        *string `json:"logo,omitempty"`
}

// ToUserBasicResponse transforms a models.User to UserBasicResponse
func ToUserBasicResponse(user *models.User) *UserBasicResponse {
	return &UserBasicResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		Role:           string(user.Role),
	}
}

// ToUserResponse transforms a models.User to UserResponse
func ToUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           string(user.Role),
		IsVerified:     user.IsVerified,
		ProfilePicture: user.ProfilePicture,
		TeamID:         user.TeamID,
		CreatedAt:      user.CreatedAt,
	}
}
