package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/startconnect/api/internal/app/models"
	"github.com/startconnect/api/internal/app/models/dto"
	"github.com/startconnect/api/internal/pkg/apperrors"
)

// TeamDirectory is the subset of team storage the router needs
type TeamDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	IsMember(ctx context.Context, teamID, userID int64) (bool, error)
}

// MessageStore is the subset of message storage the router needs
type MessageStore interface {
	Create(ctx context.Context, message *models.Message) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Message, error)
}

// Router implements the per-connection chat session state machine. Events
// arrive from a client's read pump one at a time; room membership is checked
// against storage on every join and send so removals take effect mid-session.
type Router struct {
	hub      *Hub
	presence *PresenceTracker
	teams    TeamDirectory
	messages MessageStore
	logger   zerolog.Logger
}

// NewRouter creates a new event router
func NewRouter(
	hub *Hub,
	presence *PresenceTracker,
	teams TeamDirectory,
	messages MessageStore,
	logger zerolog.Logger,
) *Router {
	return &Router{
		hub:      hub,
		presence: presence,
		teams:    teams,
		messages: messages,
		logger:   logger,
	}
}

// Dispatch routes a decoded event envelope to its handler
func (r *Router) Dispatch(c *Client, envelope *Envelope) {
	switch envelope.Event {
	case EventJoinTeam:
		var payload RoomPayload
		if err := unmarshalPayload(envelope, &payload); err != nil {
			c.SendError("Invalid team ID")
			return
		}
		r.handleJoin(c, payload.TeamID)

	case EventLeaveTeam:
		var payload RoomPayload
		if err := unmarshalPayload(envelope, &payload); err != nil {
			c.SendError("Invalid team ID")
			return
		}
		r.handleLeave(c, payload.TeamID)

	case EventSendMessage:
		var payload SendPayload
		if err := unmarshalPayload(envelope, &payload); err != nil {
			c.SendError("Team ID and message text are required")
			return
		}
		r.handleSend(c, &payload)

	case EventTyping:
		var payload RoomPayload
		if err := unmarshalPayload(envelope, &payload); err != nil {
			return
		}
		r.handleTyping(c, payload.TeamID, EventUserTyping)

	case EventStopTyping:
		var payload RoomPayload
		if err := unmarshalPayload(envelope, &payload); err != nil {
			return
		}
		r.handleTyping(c, payload.TeamID, EventUserStopTyping)

	default:
		c.SendError("Unknown event: " + envelope.Event)
	}
}

func unmarshalPayload(envelope *Envelope, target interface{}) error {
	if len(envelope.Data) == 0 {
		return errors.New("missing payload")
	}
	return json.Unmarshal(envelope.Data, target)
}

// authorize loads the team and checks room membership. It reports failures
// to the client as scoped errors and returns false.
func (r *Router) authorize(c *Client, teamID int64) bool {
	// Persistence calls run unbounded on the session context; the pool's own
	// limits apply
	ctx := context.Background()

	_, err := r.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTeamNotFound) {
			c.SendError("Team not found")
		} else {
			r.logger.Error().
				Err(err).
				Int64("teamID", teamID).
				Int64("userID", c.userID).
				Msg("Failed to load team")
			c.SendError("Failed to join team chat")
		}
		return false
	}

	isMember, err := r.teams.IsMember(ctx, teamID, c.userID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("teamID", teamID).
			Int64("userID", c.userID).
			Msg("Failed to check team membership")
		c.SendError("Failed to join team chat")
		return false
	}

	if !isMember {
		c.SendError("Access denied: You are not a member of this team")
		return false
	}

	return true
}

// handleJoin moves the session into a team room. Joining a different room
// while already in one leaves the old room first.
func (r *Router) handleJoin(c *Client, teamID int64) {
	if teamID <= 0 {
		c.SendError("Invalid team ID")
		return
	}

	if !r.authorize(c, teamID) {
		return
	}

	if c.currentTeam != 0 && c.currentTeam != teamID {
		r.leaveRoom(c, c.currentTeam)
	}

	r.hub.JoinRoom(teamID, c)
	c.currentTeam = teamID
	r.presence.Add(teamID, c.userID)

	joined, err := NewEnvelope(EventUserJoined, PresencePayload{
		UserID:    c.userID,
		UserName:  c.userName,
		Timestamp: time.Now(),
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to marshal user joined event")
	} else {
		r.hub.BroadcastToTeamExcept(teamID, joined, c)
	}

	users := r.presence.List(teamID)
	c.SendEvent(EventActiveUsers, ActiveUsersPayload{
		TeamID: teamID,
		Users:  users,
		Count:  len(users),
	})

	r.logger.Info().
		Int64("teamID", teamID).
		Int64("userID", c.userID).
		Int("activeUsers", r.presence.Count(teamID)).
		Msg("User joined team chat")
}

// handleSend validates, persists and fans out a new message. Membership is
// re-checked on every send rather than trusting the join-time check.
func (r *Router) handleSend(c *Client, payload *SendPayload) {
	if payload.TeamID <= 0 || payload.Text == "" {
		c.SendError("Team ID and message text are required")
		return
	}

	text := strings.TrimSpace(payload.Text)
	if text == "" {
		c.SendError("Message cannot be empty")
		return
	}
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		c.SendError("Message too long (max 5000 characters)")
		return
	}

	if !r.authorize(c, payload.TeamID) {
		return
	}

	ctx := context.Background()

	message := &models.Message{
		TeamID:   payload.TeamID,
		SenderID: c.userID,
		Text:     text,
	}

	messageID, err := r.messages.Create(ctx, message)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("teamID", payload.TeamID).
			Int64("userID", c.userID).
			Msg("Failed to persist message")
		c.SendError("Failed to send message")
		return
	}

	// Re-read with sender attached so every client renders the same
	// server-confirmed message object
	populated, err := r.messages.GetByID(ctx, messageID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("messageID", messageID).
			Msg("Failed to reload persisted message")
		c.SendError("Failed to send message")
		return
	}

	receive, err := NewEnvelope(EventReceiveMessage, dto.ToChatMessageResponse(populated))
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to marshal receive message event")
		c.SendError("Failed to send message")
		return
	}

	// The sender gets the broadcast too
	r.hub.BroadcastToTeam(payload.TeamID, receive)

	c.SendEvent(EventMessageSent, MessageSentPayload{
		Success:   true,
		MessageID: populated.ID,
		Timestamp: populated.CreatedAt,
	})
}

// handleLeave leaves the current room. A leave for any other room is a no-op.
func (r *Router) handleLeave(c *Client, teamID int64) {
	if teamID == 0 || teamID != c.currentTeam {
		return
	}
	r.leaveRoom(c, teamID)
	c.currentTeam = 0
}

func (r *Router) leaveRoom(c *Client, teamID int64) {
	r.hub.LeaveRoom(teamID, c)
	if !r.presence.Remove(teamID, c.userID) {
		return
	}

	left, err := NewEnvelope(EventUserLeft, PresencePayload{
		UserID:    c.userID,
		UserName:  c.userName,
		Timestamp: time.Now(),
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to marshal user left event")
		return
	}
	r.hub.BroadcastToTeamExcept(teamID, left, c)
}

// handleTyping relays typing indicators to the rest of the current room
func (r *Router) handleTyping(c *Client, teamID int64, event string) {
	if teamID == 0 || teamID != c.currentTeam {
		return
	}

	data, err := NewEnvelope(event, TypingPayload{
		UserID:   c.userID,
		UserName: c.userName,
	})
	if err != nil {
		r.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal typing event")
		return
	}
	r.hub.BroadcastToTeamExcept(teamID, data, c)
}

// Disconnect sweeps the identity out of every room where it is tracked
// present and notifies the remaining members. Rooms already left produce no
// duplicate departure events.
func (r *Router) Disconnect(c *Client) {
	for _, teamID := range r.presence.TeamsOf(c.userID) {
		r.leaveRoom(c, teamID)
	}
	c.currentTeam = 0
}
