package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID                      int64      `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Name                    string     `json:"name" db:"name" example:"Jane Doe"`                        // User's display name
	Email                   string     `json:"email" db:"email" example:"jane@university.edu"`           // User's email address
	Password                string     `json:"-" db:"password"`                                          // User's hashed password (excluded from JSON)
	Role                    RoleType   `json:"role" db:"role" example:"STUDENT"`                         // User's role (STUDENT, STARTUP or ADMIN)
	IsVerified              bool       `json:"isVerified" db:"is_verified" example:"true"`               // Whether the email address has been verified
	VerificationToken       *string    `json:"-" db:"verification_token"`                                // Email verification token (nullable)
	VerificationTokenExpiry *time.Time `json:"-" db:"verification_token_expiry"`                         // Expiry of the verification token (nullable)
	ProfilePicture          *string    `json:"profilePicture,omitempty" db:"profile_picture"`            // URL of the user's profile picture (nullable)
	TeamID                  *int64     `json:"teamId,omitempty" db:"team_id"`                            // Team the user belongs to (nullable)
	CreatedAt               time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the user was created
	UpdatedAt               time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"` // Timestamp when the user was last updated
}

// RefreshToken defines a refresh token row from the 'refresh_tokens' table
type RefreshToken struct {
	Token      string    `json:"token" db:"token"`
	UserID     int64     `json:"userId" db:"user_id"`
	ExpiryDate time.Time `json:"expiryDate" db:"expiry_date"`
	IsRevoked  bool      `json:"isRevoked" db:"is_revoked"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
