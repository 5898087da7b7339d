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
	"github.com/startconnect/api/internal/pkg/apperrors"
	"github.com/startconnect/api/internal/pkg/dberrors"
	"github.com/startconnect/api/internal/pkg/logger"
)

// UserRepository handles database operations for users and profiles
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const userColumns = `id, name, email, password, role, is_verified, verification_token,
	verification_token_expiry, profile_picture, team_id, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.IsVerified,
		&user.VerificationToken,
		&user.VerificationTokenExpiry,
		&user.ProfilePicture,
		&user.TeamID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user into the database
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (name, email, password, role, verification_token, verification_token_expiry)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	var id int64
	var createdAt, updatedAt time.Time
	err := r.db.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.Password,
		user.Role,
		user.VerificationToken,
		user.VerificationTokenExpiry,
	).Scan(&id, &createdAt, &updatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	user.ID = id
	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt

	return id, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return user, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// GetByVerificationToken retrieves a user by an unexpired verification token
func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE verification_token = $1 AND verification_token_expiry > NOW()`,
		userColumns,
	)

	user, err := scanUser(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidEmailToken
		}
		return nil, fmt.Errorf("error retrieving user by verification token: %w", err)
	}

	return user, nil
}

// MarkVerified marks a user's email as verified and clears the token
func (r *UserRepository) MarkVerified(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("users").
		Set("is_verified", true).
		Set("verification_token", nil).
		Set("verification_token_expiry", nil).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build mark verified query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error marking user verified: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateProfile updates a user's display name and profile picture
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, name string, profilePicture *string) error {
	sql, args, err := r.sb.Update("users").
		Set("name", name).
		Set("profile_picture", profilePicture).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// --- Student profiles ---

// CreateStudentProfile inserts an empty student profile for a new user
func (r *UserRepository) CreateStudentProfile(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO student_profiles (user_id) VALUES ($1)`, userID,
	)
	if err != nil {
		return fmt.Errorf("error creating student profile: %w", err)
	}
	return nil
}

// GetStudentProfile retrieves a student profile by user ID
func (r *UserRepository) GetStudentProfile(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	query := `
		SELECT id, user_id, university, major, graduation_year, bio, skills, resume_url,
		       created_at, updated_at
		FROM student_profiles
		WHERE user_id = $1
	`

	var profile models.StudentProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.University,
		&profile.Major,
		&profile.GraduationYear,
		&profile.Bio,
		&profile.Skills,
		&profile.ResumeURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving student profile: %w", err)
	}

	return &profile, nil
}

// UpdateStudentProfile updates a student profile
func (r *UserRepository) UpdateStudentProfile(ctx context.Context, profile *models.StudentProfile) error {
	sql, args, err := r.sb.Update("student_profiles").
		Set("university", profile.University).
		Set("major", profile.Major).
		Set("graduation_year", profile.GraduationYear).
		Set("bio", profile.Bio).
		Set("skills", profile.Skills).
		Set("resume_url", profile.ResumeURL).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"user_id": profile.UserID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build update student profile query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating student profile: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// --- Startup profiles ---

// CreateStartupProfile inserts a startup profile for a new user
func (r *UserRepository) CreateStartupProfile(ctx context.Context, userID int64, companyName string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO startup_profiles (user_id, company_name) VALUES ($1, $2)`,
		userID, companyName,
	)
	if err != nil {
		return fmt.Errorf("error creating startup profile: %w", err)
	}
	return nil
}

// GetStartupProfile retrieves a startup profile by user ID
func (r *UserRepository) GetStartupProfile(ctx context.Context, userID int64) (*models.StartupProfile, error) {
	query := `
		SELECT id, user_id, company_name, website, description, logo, is_domain_verified,
		       created_at, updated_at
		FROM startup_profiles
		WHERE user_id = $1
	`

	var profile models.StartupProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.CompanyName,
		&profile.Website,
		&profile.Description,
		&profile.Logo,
		&profile.IsDomainVerified,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving startup profile: %w", err)
	}

	return &profile, nil
}

// UpdateStartupProfile updates a startup profile
func (r *UserRepository) UpdateStartupProfile(ctx context.Context, profile *models.StartupProfile) error {
	sql, args, err := r.sb.Update("startup_profiles").
		Set("company_name", profile.CompanyName).
		Set("website", profile.Website).
		Set("description", profile.Description).
		Set("logo", profile.Logo).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"user_id": profile.UserID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build update startup profile query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating startup profile: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// ListVerifiedStartups retrieves startup profiles belonging to verified accounts
func (r *UserRepository) ListVerifiedStartups(ctx context.Context) ([]*models.StartupProfile, error) {
	query := `
		SELECT sp.id, sp.user_id, sp.company_name, sp.website, sp.description, sp.logo,
		       sp.is_domain_verified, sp.created_at, sp.updated_at
		FROM startup_profiles sp
		JOIN users u ON sp.user_id = u.id
		WHERE u.is_verified = true
		ORDER BY sp.company_name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing verified startups: %w", err)
	}
	defer rows.Close()

	var profiles []*models.StartupProfile
	for rows.Next() {
		var profile models.StartupProfile
		if err := rows.Scan(
			&profile.ID,
			&profile.UserID,
			&profile.CompanyName,
			&profile.Website,
			&profile.Description,
			&profile.Logo,
			&profile.IsDomainVerified,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning startup profile row: %w", err)
		}
		profiles = append(profiles, &profile)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating startup profile rows: %w", err)
	}

	return profiles, nil
}
