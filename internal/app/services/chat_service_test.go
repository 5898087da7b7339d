package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startconnect/api/internal/app/models"
	"github.com/startconnect/api/internal/pkg/apperrors"
)

type fakeTeamStore struct {
	teams      map[int64]*models.Team
	members    map[int64]map[int64]bool
	invites    map[string]*models.TeamInvite
	nextInvite int64
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{
		teams:      make(map[int64]*models.Team),
		members:    make(map[int64]map[int64]bool),
		invites:    make(map[string]*models.TeamInvite),
		nextInvite: 1,
	}
}

func (f *fakeTeamStore) addTeam(teamID, leaderID int64, memberIDs ...int64) {
	f.teams[teamID] = &models.Team{ID: teamID, Name: "Team", LeaderID: leaderID}
	f.members[teamID] = map[int64]bool{leaderID: true}
	for _, id := range memberIDs {
		f.members[teamID][id] = true
	}
}

func (f *fakeTeamStore) Create(_ context.Context, team *models.Team) (int64, error) {
	id := int64(len(f.teams) + 1)
	team.ID = id
	f.teams[id] = team
	f.members[id] = map[int64]bool{team.LeaderID: true}
	return id, nil
}

func (f *fakeTeamStore) GetByID(_ context.Context, id int64) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, apperrors.ErrTeamNotFound
	}
	return team, nil
}

func (f *fakeTeamStore) GetByUserID(_ context.Context, userID int64) (*models.Team, error) {
	for teamID, members := range f.members {
		if members[userID] {
			return f.teams[teamID], nil
		}
	}
	return nil, apperrors.ErrTeamNotFound
}

func (f *fakeTeamStore) IsMember(_ context.Context, teamID, userID int64) (bool, error) {
	return f.members[teamID][userID], nil
}

func (f *fakeTeamStore) AddMember(_ context.Context, teamID, userID int64) error {
	f.members[teamID][userID] = true
	return nil
}

func (f *fakeTeamStore) RemoveMember(_ context.Context, teamID, userID int64) error {
	if !f.members[teamID][userID] {
		return apperrors.ErrNotTeamMember
	}
	delete(f.members[teamID], userID)
	return nil
}

func (f *fakeTeamStore) CreateInvite(_ context.Context, invite *models.TeamInvite) error {
	for _, existing := range f.invites {
		if existing.TeamID == invite.TeamID && existing.Email == invite.Email {
			return apperrors.ErrInviteEmailExists
		}
	}
	invite.ID = f.nextInvite
	f.nextInvite++
	invite.InvitedAt = time.Now()
	f.invites[invite.Token] = invite
	return nil
}

func (f *fakeTeamStore) GetInviteByToken(_ context.Context, token string) (*models.TeamInvite, error) {
	invite, ok := f.invites[token]
	if !ok {
		return nil, apperrors.ErrInviteNotFound
	}
	return invite, nil
}

func (f *fakeTeamStore) DeleteInvite(_ context.Context, id int64) error {
	for token, invite := range f.invites {
		if invite.ID == id {
			delete(f.invites, token)
			return nil
		}
	}
	return apperrors.ErrInviteNotFound
}

type fakeChatMessageStore struct {
	nextID   int64
	messages map[int64]*models.Message
	reads    map[int64]map[int64]bool
}

func newFakeChatMessageStore() *fakeChatMessageStore {
	return &fakeChatMessageStore{
		nextID:   1,
		messages: make(map[int64]*models.Message),
		reads:    make(map[int64]map[int64]bool),
	}
}

func (f *fakeChatMessageStore) add(teamID, senderID int64, text string, createdAt time.Time) *models.Message {
	message := &models.Message{
		ID:        f.nextID,
		TeamID:    teamID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		Sender:    &models.User{ID: senderID, Name: "Sender"},
	}
	f.messages[f.nextID] = message
	f.nextID++
	return message
}

func (f *fakeChatMessageStore) Create(_ context.Context, message *models.Message) (int64, error) {
	stored := f.add(message.TeamID, message.SenderID, message.Text, time.Now())
	return stored.ID, nil
}

func (f *fakeChatMessageStore) GetByID(_ context.Context, id int64) (*models.Message, error) {
	message, ok := f.messages[id]
	if !ok {
		return nil, apperrors.ErrMessageNotFound
	}
	return message, nil
}

// GetTeamMessages mirrors the storage contract: newest first, soft-deleted
// rows excluded, capped at limit.
func (f *fakeChatMessageStore) GetTeamMessages(_ context.Context, teamID int64, limit int) ([]*models.Message, error) {
	var result []*models.Message
	for id := f.nextID - 1; id >= 1; id-- {
		message, ok := f.messages[id]
		if !ok || message.TeamID != teamID || message.IsDeleted {
			continue
		}
		result = append(result, message)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (f *fakeChatMessageStore) SoftDelete(_ context.Context, id int64) error {
	message, ok := f.messages[id]
	if !ok {
		return apperrors.ErrMessageNotFound
	}
	message.IsDeleted = true
	return nil
}

func (f *fakeChatMessageStore) MarkRead(_ context.Context, teamID, userID int64, messageIDs []int64) (int64, error) {
	var marked int64
	for _, id := range messageIDs {
		message, ok := f.messages[id]
		if !ok || message.TeamID != teamID {
			continue
		}
		if f.reads[id] == nil {
			f.reads[id] = make(map[int64]bool)
		}
		if f.reads[id][userID] {
			continue
		}
		f.reads[id][userID] = true
		marked++
	}
	return marked, nil
}

func newChatFixture() (*fakeChatMessageStore, *fakeTeamStore, ChatService) {
	messages := newFakeChatMessageStore()
	teams := newFakeTeamStore()
	svc := NewChatService(messages, teams, nil, zerolog.Nop())
	return messages, teams, svc
}

func TestGetTeamMessagesChronologicalOrder(t *testing.T) {
	messages, teams, svc := newChatFixture()
	teams.addTeam(1, 10, 11)

	base := time.Now().Add(-time.Hour)
	messages.add(1, 10, "first", base)
	messages.add(1, 11, "second", base.Add(time.Minute))
	messages.add(1, 10, "third", base.Add(2*time.Minute))

	history, err := svc.GetTeamMessages(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.True(t, history.Success)
	assert.Equal(t, int64(1), history.TeamID)
	assert.Equal(t, 3, history.Count)
	require.Len(t, history.Messages, 3)
	assert.Equal(t, "first", history.Messages[0].Text)
	assert.Equal(t, "second", history.Messages[1].Text)
	assert.Equal(t, "third", history.Messages[2].Text)
}

func TestGetTeamMessagesExcludesDeleted(t *testing.T) {
	messages, teams, svc := newChatFixture()
	teams.addTeam(1, 10)

	base := time.Now().Add(-time.Hour)
	messages.add(1, 10, "kept", base)
	deleted := messages.add(1, 10, "gone", base.Add(time.Minute))
	deleted.IsDeleted = true

	history, err := svc.GetTeamMessages(context.Background(), 1, 10)
	require.NoError(t, err)

	require.Len(t, history.Messages, 1)
	assert.Equal(t, "kept", history.Messages[0].Text)
}

func TestGetTeamMessagesReturnsNewestPage(t *testing.T) {
	messages, teams, svc := newChatFixture()
	teams.addTeam(1, 10)

	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < historyLimit+10; i++ {
		messages.add(1, 10, "msg", base.Add(time.Duration(i)*time.Minute))
	}

	history, err := svc.GetTeamMessages(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, historyLimit, history.Count)
	require.Len(t, history.Messages, historyLimit)

	// The oldest 10 fell off, the page starts at message 11
	assert.Equal(t, int64(11), history.Messages[0].ID)
	assert.Equal(t, int64(historyLimit+10), history.Messages[historyLimit-1].ID)
}

func TestGetTeamMessagesUnknownTeam(t *testing.T) {
	_, _, svc := newChatFixture()

	_, err := svc.GetTeamMessages(context.Background(), 42, 10)
	assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)
}

func TestGetTeamMessagesRequiresMembership(t *testing.T) {
	_, teams, svc := newChatFixture()
	teams.addTeam(1, 10)

	_, err := svc.GetTeamMessages(context.Background(), 1, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotTeamMember)
}

func TestDeleteMessageBySender(t *testing.T) {
	messages, teams, svc := newChatFixture()
	teams.addTeam(1, 10)
	stored := messages.add(1, 10, "hello", time.Now())

	err := svc.DeleteMessage(context.Background(), stored.ID, 10)
	require.NoError(t, err)
	assert.True(t, messages.messages[stored.ID].IsDeleted)
}

func TestDeleteMessageRejectsNonSender(t *testing.T) {
	messages, teams, svc := newChatFixture()
	teams.addTeam(1, 10, 11)
	stored := messages.add(1, 10, "hello", time.Now())

	// Other members cannot delete, the team leader included
	err := svc.DeleteMessage(context.Background(), stored.ID, 11)
	assert.ErrorIs(t, err, apperrors.ErrNotMessageOwner)
	assert.False(t, messages.messages[stored.ID].IsDeleted)
}

func TestDeleteMessageUnknown(t *testing.T) {
	_, _, svc := newChatFixture()

	err := svc.DeleteMessage(context.Background(), 42, 10)
	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)
}

func TestMarkMessagesRead(t *testing.T) {
	messages, teams, svc := newChatFixture()
	teams.addTeam(1, 10, 11)
	first := messages.add(1, 10, "a", time.Now())
	second := messages.add(1, 10, "b", time.Now())

	marked, err := svc.MarkMessagesRead(context.Background(), 1, 11, []int64{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	// Re-reading is idempotent
	marked, err = svc.MarkMessagesRead(context.Background(), 1, 11, []int64{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), marked)
}

func TestMarkMessagesReadRequiresMembership(t *testing.T) {
	messages, teams, svc := newChatFixture()
	teams.addTeam(2, 10)
	stored := messages.add(2, 10, "a", time.Now())

	_, err := svc.MarkMessagesRead(context.Background(), 2, 99, []int64{stored.ID})
	assert.ErrorIs(t, err, apperrors.ErrNotTeamMember)
	assert.Empty(t, messages.reads[stored.ID], "no receipt recorded for an outsider")
}

func TestMarkMessagesReadScopedToRoom(t *testing.T) {
	messages, teams, svc := newChatFixture()
	teams.addTeam(1, 10, 11)
	teams.addTeam(2, 20)
	ours := messages.add(1, 10, "ours", time.Now())
	foreign := messages.add(2, 20, "foreign", time.Now())

	// A foreign message ID smuggled into the batch is ignored
	marked, err := svc.MarkMessagesRead(context.Background(), 1, 11, []int64{ours.ID, foreign.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)
	assert.Empty(t, messages.reads[foreign.ID])
}

func TestMarkMessagesReadRequiresIDs(t *testing.T) {
	_, teams, svc := newChatFixture()
	teams.addTeam(1, 11)

	_, err := svc.MarkMessagesRead(context.Background(), 1, 11, nil)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
