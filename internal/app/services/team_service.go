package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/startconnect/api/internal/app/models"
	"github.com/startconnect/api/internal/app/models/dto"
	"github.com/startconnect/api/internal/pkg/apperrors"
)

// TeamService defines the interface for team operations
type TeamService interface {
	CreateTeam(ctx context.Context, leaderID int64, req *dto.CreateTeamRequest) (*dto.TeamResponse, error)
	GetMyTeam(ctx context.Context, userID int64) (*dto.TeamResponse, error)
	InviteMember(ctx context.Context, leaderID int64, req *dto.InviteMemberRequest) (*dto.TeamInviteResponse, error)
	AcceptInvite(ctx context.Context, userID int64, token string) (*dto.TeamResponse, error)
	RemoveMember(ctx context.Context, leaderID, memberID int64) error
}

// teamServiceImpl implements TeamService
type teamServiceImpl struct {
	teams  TeamStore
	users  UserStore
	logger zerolog.Logger
}

// NewTeamService creates a new TeamService
func NewTeamService(teams TeamStore, users UserStore, logger zerolog.Logger) TeamService {
	return &teamServiceImpl{
		teams:  teams,
		users:  users,
		logger: logger,
	}
}

// CreateTeam creates a new team led by the caller. Users already in a team
// cannot create another one.
func (s *teamServiceImpl) CreateTeam(ctx context.Context, leaderID int64, req *dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	if _, err := s.teams.GetByUserID(ctx, leaderID); err == nil {
		return nil, apperrors.ErrAlreadyInTeam
	} else if !errors.Is(err, apperrors.ErrTeamNotFound) {
		return nil, err
	}

	team := &models.Team{
		Name:     req.Name,
		LeaderID: leaderID,
	}

	if _, err := s.teams.Create(ctx, team); err != nil {
		s.logger.Error().Err(err).Int64("leaderID", leaderID).Msg("Failed to create team")
		return nil, err
	}

	created, err := s.teams.GetByID(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("teamID", team.ID).
		Int64("leaderID", leaderID).
		Msg("Team created")

	return dto.ToTeamResponse(created), nil
}

// GetMyTeam retrieves the team the caller belongs to
func (s *teamServiceImpl) GetMyTeam(ctx context.Context, userID int64) (*dto.TeamResponse, error) {
	team, err := s.teams.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToTeamResponse(team), nil
}

// InviteMember creates a pending invitation to the leader's team
func (s *teamServiceImpl) InviteMember(ctx context.Context, leaderID int64, req *dto.InviteMemberRequest) (*dto.TeamInviteResponse, error) {
	team, err := s.teams.GetByUserID(ctx, leaderID)
	if err != nil {
		return nil, err
	}

	if team.LeaderID != leaderID {
		return nil, apperrors.ErrNotTeamLeader
	}

	invite := &models.TeamInvite{
		TeamID: team.ID,
		Email:  req.Email,
		Token:  uuid.New().String(),
	}

	if err := s.teams.CreateInvite(ctx, invite); err != nil {
		return nil, err
	}

	// The invite token is logged in place of outbound mail delivery
	s.logger.Info().
		Int64("teamID", team.ID).
		Str("email", req.Email).
		Str("inviteToken", invite.Token).
		Msg("Team invitation created")

	return &dto.TeamInviteResponse{
		ID:        invite.ID,
		TeamID:    invite.TeamID,
		Email:     invite.Email,
		InvitedAt: invite.InvitedAt,
	}, nil
}

// AcceptInvite adds the caller to the inviting team. The invitation must
// have been addressed to the caller's email.
func (s *teamServiceImpl) AcceptInvite(ctx context.Context, userID int64, token string) (*dto.TeamResponse, error) {
	invite, err := s.teams.GetInviteByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Email != invite.Email {
		return nil, apperrors.NewForbiddenError("This invitation was issued for a different account")
	}

	if _, err := s.teams.GetByUserID(ctx, userID); err == nil {
		return nil, apperrors.ErrAlreadyInTeam
	} else if !errors.Is(err, apperrors.ErrTeamNotFound) {
		return nil, err
	}

	if err := s.teams.AddMember(ctx, invite.TeamID, userID); err != nil {
		return nil, err
	}

	if err := s.teams.DeleteInvite(ctx, invite.ID); err != nil {
		s.logger.Warn().Err(err).Int64("inviteID", invite.ID).Msg("Failed to delete used invite")
	}

	s.logger.Info().
		Int64("teamID", invite.TeamID).
		Int64("userID", userID).
		Msg("Invitation accepted")

	team, err := s.teams.GetByID(ctx, invite.TeamID)
	if err != nil {
		return nil, err
	}

	return dto.ToTeamResponse(team), nil
}

// RemoveMember removes a member from the leader's team. The leader cannot
// remove themselves.
func (s *teamServiceImpl) RemoveMember(ctx context.Context, leaderID, memberID int64) error {
	team, err := s.teams.GetByUserID(ctx, leaderID)
	if err != nil {
		return err
	}

	if team.LeaderID != leaderID {
		return apperrors.ErrNotTeamLeader
	}

	if memberID == leaderID {
		return apperrors.NewBadRequestError("The team leader cannot be removed")
	}

	if err := s.teams.RemoveMember(ctx, team.ID, memberID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("teamID", team.ID).
		Int64("memberID", memberID).
		Msg("Member removed from team")

	return nil
}
