package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/startconnect/api/internal/app/models"
	"github.com/startconnect/api/internal/pkg/apperrors"
	"github.com/startconnect/api/internal/pkg/logger"
)

// MessageRepository handles database operations for chat messages
type MessageRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new chat message into the database
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) (int64, error) {
	attachments := message.Attachments
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	attachmentsJSON, err := json.Marshal(attachments)
	if err != nil {
		return 0, fmt.Errorf("error encoding attachments: %w", err)
	}

	query := `
		INSERT INTO messages (team_id, sender_id, text, attachments)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	var id int64
	var createdAt, updatedAt time.Time
	err = r.db.QueryRow(ctx, query,
		message.TeamID,
		message.SenderID,
		message.Text,
		attachmentsJSON,
	).Scan(&id, &createdAt, &updatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating message: %w", err)
	}

	message.ID = id
	message.CreatedAt = createdAt
	message.UpdatedAt = updatedAt

	return id, nil
}

// GetByID retrieves a message by its ID with sender details
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query := `
		SELECT
			m.id, m.team_id, m.sender_id, m.text, m.attachments, m.is_deleted,
			m.created_at, m.updated_at,
			u.id, u.name, u.email, u.profile_picture, u.role
		FROM messages m
		LEFT JOIN users u ON m.sender_id = u.id
		WHERE m.id = $1
	`

	var message models.Message
	var attachmentsJSON []byte
	var sender models.User
	var senderID *int64
	var senderName, senderEmail, senderRole *string
	var senderPicture *string

	err := r.db.QueryRow(ctx, query, id).Scan(
		&message.ID,
		&message.TeamID,
		&message.SenderID,
		&message.Text,
		&attachmentsJSON,
		&message.IsDeleted,
		&message.CreatedAt,
		&message.UpdatedAt,
		&senderID,
		&senderName,
		&senderEmail,
		&senderPicture,
		&senderRole,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("error retrieving message: %w", err)
	}

	if err := json.Unmarshal(attachmentsJSON, &message.Attachments); err != nil {
		return nil, fmt.Errorf("error decoding attachments: %w", err)
	}

	if senderID != nil {
		sender.ID = *senderID
		if senderName != nil {
			sender.Name = *senderName
		}
		if senderEmail != nil {
			sender.Email = *senderEmail
		}
		if senderRole != nil {
			sender.Role = models.RoleType(*senderRole)
		}
		sender.ProfilePicture = senderPicture
		message.Sender = &sender
	}

	reads, err := r.GetReadsForMessages(ctx, []int64{message.ID})
	if err != nil {
		return nil, err
	}
	message.ReadBy = reads[message.ID]

	return &message, nil
}

// GetTeamMessages retrieves the most recent non-deleted messages for a team.
// Results are ordered newest first; callers reverse the page for display.
func (r *MessageRepository) GetTeamMessages(ctx context.Context, teamID int64, limit int) ([]*models.Message, error) {
	queryBuilder := r.sb.Select(
		"m.id", "m.team_id", "m.sender_id", "m.text", "m.attachments", "m.is_deleted",
		"m.created_at", "m.updated_at",
		"u.id", "u.name", "u.email", "u.profile_picture", "u.role",
	).
		From("messages m").
		LeftJoin("users u ON m.sender_id = u.id").
		Where(squirrel.Eq{"m.team_id": teamID, "m.is_deleted": false}).
		OrderBy("m.created_at DESC").
		Limit(uint64(limit))

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	var messageIDs []int64
	for rows.Next() {
		var message models.Message
		var attachmentsJSON []byte
		var sender models.User
		var senderID *int64
		var senderName, senderEmail, senderRole *string
		var senderPicture *string

		err := rows.Scan(
			&message.ID,
			&message.TeamID,
			&message.SenderID,
			&message.Text,
			&attachmentsJSON,
			&message.IsDeleted,
			&message.CreatedAt,
			&message.UpdatedAt,
			&senderID,
			&senderName,
			&senderEmail,
			&senderPicture,
			&senderRole,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}

		if err := json.Unmarshal(attachmentsJSON, &message.Attachments); err != nil {
			return nil, fmt.Errorf("error decoding attachments: %w", err)
		}

		if senderID != nil {
			sender.ID = *senderID
			if senderName != nil {
				sender.Name = *senderName
			}
			if senderEmail != nil {
				sender.Email = *senderEmail
			}
			if senderRole != nil {
				sender.Role = models.RoleType(*senderRole)
			}
			sender.ProfilePicture = senderPicture
			message.Sender = &sender
		}

		messages = append(messages, &message)
		messageIDs = append(messageIDs, message.ID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	// Attach read receipts in a single batch query
	if len(messageIDs) > 0 {
		reads, err := r.GetReadsForMessages(ctx, messageIDs)
		if err != nil {
			return nil, err
		}
		for _, message := range messages {
			message.ReadBy = reads[message.ID]
		}
	}

	return messages, nil
}

// SoftDelete marks a message as deleted without removing it
func (r *MessageRepository) SoftDelete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("messages").
		Set("is_deleted", true).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build soft delete query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting message: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}

	return nil
}

// MarkRead records that a user has read the given messages. Only messages
// belonging to the given team are touched, and messages already marked by the
// same user are skipped, so the call is idempotent.
func (r *MessageRepository) MarkRead(ctx context.Context, teamID, userID int64, messageIDs []int64) (int64, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO message_reads (message_id, user_id)
		SELECT m.id, $1
		FROM messages m
		WHERE m.id = ANY($2) AND m.team_id = $3
		ON CONFLICT (message_id, user_id) DO NOTHING
	`

	cmdTag, err := r.db.Exec(ctx, query, userID, messageIDs, teamID)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing mark read query")
		return 0, fmt.Errorf("error marking messages as read: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

// GetReadsForMessages retrieves read receipts for a batch of messages,
// ordered by read time within each message
func (r *MessageRepository) GetReadsForMessages(ctx context.Context, messageIDs []int64) (map[int64][]models.MessageRead, error) {
	query := `
		SELECT message_id, user_id, read_at
		FROM message_reads
		WHERE message_id = ANY($1)
		ORDER BY read_at ASC
	`

	rows, err := r.db.Query(ctx, query, messageIDs)
	if err != nil {
		return nil, fmt.Errorf("error retrieving read receipts: %w", err)
	}
	defer rows.Close()

	reads := make(map[int64][]models.MessageRead)
	for rows.Next() {
		var read models.MessageRead
		if err := rows.Scan(&read.MessageID, &read.UserID, &read.ReadAt); err != nil {
			return nil, fmt.Errorf("error scanning read receipt row: %w", err)
		}
		reads[read.MessageID] = append(reads[read.MessageID], read)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating read receipt rows: %w", err)
	}

	return reads, nil
}
