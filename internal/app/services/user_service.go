package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/startconnect/api/internal/app/models"
	"github.com/startconnect/api/internal/app/models/dto"
)

// UserService defines the interface for user profile operations
type UserService interface {
	GetUser(ctx context.Context, userID int64) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	GetStudentProfile(ctx context.Context, userID int64) (*models.StudentProfile, error)
	UpdateStudentProfile(ctx context.Context, userID int64, req *dto.UpdateStudentProfileRequest) (*models.StudentProfile, error)
	GetStartupProfile(ctx context.Context, userID int64) (*models.StartupProfile, error)
	UpdateStartupProfile(ctx context.Context, userID int64, req *dto.UpdateStartupProfileRequest) (*models.StartupProfile, error)
	ListVerifiedStartups(ctx context.Context) ([]dto.StartupListItem, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	users  UserStore
	logger zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users UserStore, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		users:  users,
		logger: logger,
	}
}

// GetUser retrieves a user by ID
func (s *userServiceImpl) GetUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToUserResponse(user), nil
}

// UpdateProfile updates a user's display name and picture
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := s.users.UpdateProfile(ctx, userID, req.Name, req.ProfilePicture); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

// GetStudentProfile retrieves a student profile
func (s *userServiceImpl) GetStudentProfile(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	return s.users.GetStudentProfile(ctx, userID)
}

// UpdateStudentProfile applies a partial update to a student profile.
// Omitted fields keep their current value.
func (s *userServiceImpl) UpdateStudentProfile(ctx context.Context, userID int64, req *dto.UpdateStudentProfileRequest) (*models.StudentProfile, error) {
	profile, err := s.users.GetStudentProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.University != nil {
		profile.University = req.University
	}
	if req.Major != nil {
		profile.Major = req.Major
	}
	if req.GraduationYear != nil {
		profile.GraduationYear = req.GraduationYear
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.Skills != nil {
		profile.Skills = req.Skills
	}
	if req.ResumeURL != nil {
		profile.ResumeURL = req.ResumeURL
	}

	if err := s.users.UpdateStudentProfile(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// GetStartupProfile retrieves a startup profile
func (s *userServiceImpl) GetStartupProfile(ctx context.Context, userID int64) (*models.StartupProfile, error) {
	return s.users.GetStartupProfile(ctx, userID)
}

// UpdateStartupProfile updates a startup profile. Domain verification is
// managed separately and never changed here.
func (s *userServiceImpl) UpdateStartupProfile(ctx context.Context, userID int64, req *dto.UpdateStartupProfileRequest) (*models.StartupProfile, error) {
	profile, err := s.users.GetStartupProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.CompanyName = req.CompanyName
	if req.Website != nil {
		profile.Website = req.Website
	}
	if req.Description != nil {
		profile.Description = req.Description
	}
	if req.Logo != nil {
		profile.Logo = req.Logo
	}

	if err := s.users.UpdateStartupProfile(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// ListVerifiedStartups retrieves the public directory of verified startups
func (s *userServiceImpl) ListVerifiedStartups(ctx context.Context) ([]dto.StartupListItem, error) {
	profiles, err := s.users.ListVerifiedStartups(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.StartupListItem, 0, len(profiles))
	for _, profile := range profiles {
		items = append(items, dto.StartupListItem{
			UserID:      profile.UserID,
			CompanyName: profile.CompanyName,
			Website:     profile.Website,
			Description: profile.Description,
			Logo:        profile.Logo,
		})
	}

	return items, nil
}
