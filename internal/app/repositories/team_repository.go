package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/startconnect/api/internal/app/models"
	"github.com/startconnect/api/internal/db"
	"github.com/startconnect/api/internal/pkg/apperrors"
	"github.com/startconnect/api/internal/pkg/dberrors"
	"github.com/startconnect/api/internal/pkg/logger"
)

// TeamRepository handles database operations for teams and memberships
type TeamRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new team and registers the leader as its first member
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) (int64, error) {
	query := `
		INSERT INTO teams (name, leader_id, company_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	var id int64
	var createdAt, updatedAt time.Time
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query, team.Name, team.LeaderID, team.CompanyID).
			Scan(&id, &createdAt, &updatedAt)
		if err != nil {
			return fmt.Errorf("error creating team: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`,
			id, team.LeaderID,
		)
		if err != nil {
			return fmt.Errorf("error adding leader to team: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET team_id = $1, updated_at = NOW() WHERE id = $2`,
			id, team.LeaderID,
		)
		if err != nil {
			return fmt.Errorf("error updating leader team reference: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	team.ID = id
	team.CreatedAt = createdAt
	team.UpdatedAt = updatedAt

	return id, nil
}

// GetByID retrieves a team by its ID with leader and members populated
func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	query := `
		SELECT t.id, t.name, t.leader_id, t.company_id, t.created_at, t.updated_at,
		       u.id, u.name, u.email, u.profile_picture, u.role
		FROM teams t
		LEFT JOIN users u ON t.leader_id = u.id
		WHERE t.id = $1
	`

	var team models.Team
	var leader models.User
	var leaderID *int64
	var leaderName, leaderEmail, leaderRole *string
	var leaderPicture *string

	err := r.db.QueryRow(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.LeaderID,
		&team.CompanyID,
		&team.CreatedAt,
		&team.UpdatedAt,
		&leaderID,
		&leaderName,
		&leaderEmail,
		&leaderPicture,
		&leaderRole,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("error retrieving team: %w", err)
	}

	if leaderID != nil {
		leader.ID = *leaderID
		if leaderName != nil {
			leader.Name = *leaderName
		}
		if leaderEmail != nil {
			leader.Email = *leaderEmail
		}
		if leaderRole != nil {
			leader.Role = models.RoleType(*leaderRole)
		}
		leader.ProfilePicture = leaderPicture
		team.Leader = &leader
	}

	members, err := r.GetMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Members = members

	return &team, nil
}

// GetByUserID retrieves the team a user belongs to, or ErrTeamNotFound
func (r *TeamRepository) GetByUserID(ctx context.Context, userID int64) (*models.Team, error) {
	var teamID int64
	err := r.db.QueryRow(ctx,
		`SELECT team_id FROM team_members WHERE user_id = $1 LIMIT 1`,
		userID,
	).Scan(&teamID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("error retrieving user team: %w", err)
	}

	return r.GetByID(ctx, teamID)
}

// GetMembers retrieves all members of a team
func (r *TeamRepository) GetMembers(ctx context.Context, teamID int64) ([]*models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.profile_picture, u.role
		FROM team_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY tm.joined_at ASC
	`

	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving team members: %w", err)
	}
	defer rows.Close()

	var members []*models.User
	for rows.Next() {
		var member models.User
		if err := rows.Scan(
			&member.ID,
			&member.Name,
			&member.Email,
			&member.ProfilePicture,
			&member.Role,
		); err != nil {
			return nil, fmt.Errorf("error scanning team member row: %w", err)
		}
		members = append(members, &member)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team member rows: %w", err)
	}

	return members, nil
}

// IsMember reports whether a user may access a team's room.
// The leader always counts as a member. Membership is read fresh on every
// call so that removals take effect immediately.
func (r *TeamRepository) IsMember(ctx context.Context, teamID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM teams WHERE id = $1 AND leader_id = $2
			UNION ALL
			SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2
		)
	`

	var isMember bool
	err := r.db.QueryRow(ctx, query, teamID, userID).Scan(&isMember)
	if err != nil {
		return false, fmt.Errorf("error checking team membership: %w", err)
	}

	return isMember, nil
}

// AddMember adds a user to a team and sets the user's team reference
func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`,
			teamID, userID,
		)
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.ErrAlreadyInTeam
			}
			return fmt.Errorf("error adding team member: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET team_id = $1, updated_at = NOW() WHERE id = $2`,
			teamID, userID,
		)
		if err != nil {
			return fmt.Errorf("error updating user team reference: %w", err)
		}

		return nil
	})
}

// RemoveMember removes a user from a team and clears the user's team reference
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx,
			`DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`,
			teamID, userID,
		)
		if err != nil {
			return fmt.Errorf("error removing team member: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNotTeamMember
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET team_id = NULL, updated_at = NOW() WHERE id = $1 AND team_id = $2`,
			userID, teamID,
		)
		if err != nil {
			return fmt.Errorf("error clearing user team reference: %w", err)
		}

		return nil
	})
}

// CreateInvite stores a pending invitation for an email address
func (r *TeamRepository) CreateInvite(ctx context.Context, invite *models.TeamInvite) error {
	sql, args, err := r.sb.Insert("team_invites").
		Columns("team_id", "email", "token").
		Values(invite.TeamID, invite.Email, invite.Token).
		Suffix("RETURNING id, invited_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build create invite query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&invite.ID, &invite.InvitedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "team_invites_team_id_email_key") {
			return apperrors.ErrInviteEmailExists
		}
		logger.Error().Err(err).Int64("teamID", invite.TeamID).Msg("Error executing create invite query")
		return fmt.Errorf("error creating invite: %w", err)
	}

	return nil
}

// GetInviteByToken retrieves an invitation by its token
func (r *TeamRepository) GetInviteByToken(ctx context.Context, token string) (*models.TeamInvite, error) {
	sql, args, err := r.sb.Select("id", "team_id", "email", "token", "invited_at").
		From("team_invites").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("failed to build get invite query: %w", err)
	}

	var invite models.TeamInvite
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&invite.ID,
		&invite.TeamID,
		&invite.Email,
		&invite.Token,
		&invite.InvitedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInviteNotFound
		}
		return nil, fmt.Errorf("error retrieving invite: %w", err)
	}

	return &invite, nil
}

// DeleteInvite removes an invitation after it has been used
func (r *TeamRepository) DeleteInvite(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM team_invites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting invite: %w", err)
	}
	return nil
}
