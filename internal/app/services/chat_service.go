package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/startconnect/api/internal/app/models/dto"
	"github.com/startconnect/api/internal/pkg/apperrors"
	"github.com/startconnect/api/internal/pkg/websocket"
)

// historyLimit is the maximum number of messages returned by a history fetch
const historyLimit = 50

// ChatService defines the interface for chat operations outside the
// real-time connection path
type ChatService interface {
	GetTeamMessages(ctx context.Context, teamID, callerID int64) (*dto.ChatHistoryResponse, error)
	DeleteMessage(ctx context.Context, messageID, callerID int64) error
	MarkMessagesRead(ctx context.Context, teamID, userID int64, messageIDs []int64) (int64, error)
}

// chatServiceImpl implements ChatService
type chatServiceImpl struct {
	messages MessageStore
	teams    TeamStore
	wsHub    *websocket.Hub
	logger   zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	messages MessageStore,
	teams TeamStore,
	wsHub *websocket.Hub,
	logger zerolog.Logger,
) ChatService {
	return &chatServiceImpl{
		messages: messages,
		teams:    teams,
		wsHub:    wsHub,
		logger:   logger,
	}
}

// GetTeamMessages retrieves the most recent page of a team's chat history
// in chronological order. Soft-deleted messages are excluded.
func (s *chatServiceImpl) GetTeamMessages(ctx context.Context, teamID, callerID int64) (*dto.ChatHistoryResponse, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, apperrors.ErrTeamNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		s.logger.Error().Err(err).Int64("teamID", teamID).Msg("Failed to load team")
		return nil, err
	}

	isMember, err := s.teams.IsMember(ctx, teamID, callerID)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("teamID", teamID).
			Int64("callerID", callerID).
			Msg("Failed to check team membership")
		return nil, err
	}
	if !isMember {
		return nil, apperrors.ErrNotTeamMember
	}

	// Newest page first from storage, then reversed for display
	messages, err := s.messages.GetTeamMessages(ctx, teamID, historyLimit)
	if err != nil {
		s.logger.Error().Err(err).Int64("teamID", teamID).Msg("Failed to retrieve messages")
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return &dto.ChatHistoryResponse{
		Success:  true,
		Count:    len(messages),
		TeamID:   teamID,
		Messages: dto.ToChatMessageResponseList(messages),
	}, nil
}

// DeleteMessage soft-deletes a message. Only the original sender may delete,
// team leaders have no override. Connected room members are notified.
func (s *chatServiceImpl) DeleteMessage(ctx context.Context, messageID, callerID int64) error {
	message, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMessageNotFound) {
			return apperrors.ErrMessageNotFound
		}
		s.logger.Error().Err(err).Int64("messageID", messageID).Msg("Failed to load message")
		return err
	}

	if message.SenderID != callerID {
		return apperrors.ErrNotMessageOwner
	}

	if err := s.messages.SoftDelete(ctx, messageID); err != nil {
		s.logger.Error().Err(err).Int64("messageID", messageID).Msg("Failed to delete message")
		return err
	}

	s.broadcastMessageDeleted(message.TeamID, messageID)

	s.logger.Info().
		Int64("messageID", messageID).
		Int64("teamID", message.TeamID).
		Int64("callerID", callerID).
		Msg("Message deleted")

	return nil
}

// broadcastMessageDeleted notifies connected room members so they can drop
// the message without reloading history
func (s *chatServiceImpl) broadcastMessageDeleted(teamID, messageID int64) {
	if s.wsHub == nil {
		return
	}

	data, err := websocket.NewEnvelope(websocket.EventMessageDeleted, websocket.MessageDeletedPayload{
		MessageID: messageID,
		TeamID:    teamID,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal message deleted event")
		return
	}
	s.wsHub.BroadcastToTeam(teamID, data)
}

// MarkMessagesRead records read receipts for a batch of messages in a team
// room. Only members of the room may record receipts, only messages of that
// room are touched, and messages the user already read are skipped, so
// repeated calls are harmless.
func (s *chatServiceImpl) MarkMessagesRead(ctx context.Context, teamID, userID int64, messageIDs []int64) (int64, error) {
	if len(messageIDs) == 0 {
		return 0, apperrors.NewBadRequestError("messageIds is required")
	}

	isMember, err := s.teams.IsMember(ctx, teamID, userID)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("teamID", teamID).
			Int64("userID", userID).
			Msg("Failed to check team membership")
		return 0, err
	}
	if !isMember {
		return 0, apperrors.ErrNotTeamMember
	}

	marked, err := s.messages.MarkRead(ctx, teamID, userID, messageIDs)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to mark messages read")
		return 0, err
	}

	return marked, nil
}
