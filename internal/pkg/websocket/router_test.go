package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startconnect/api/internal/app/models"
	"github.com/startconnect/api/internal/pkg/apperrors"
)

type fakeTeamDirectory struct {
	teams   map[int64]*models.Team
	members map[int64]map[int64]bool
}

func newFakeTeamDirectory() *fakeTeamDirectory {
	return &fakeTeamDirectory{
		teams:   make(map[int64]*models.Team),
		members: make(map[int64]map[int64]bool),
	}
}

func (f *fakeTeamDirectory) addTeam(teamID int64, memberIDs ...int64) {
	f.teams[teamID] = &models.Team{ID: teamID, Name: "Team"}
	f.members[teamID] = make(map[int64]bool)
	for _, id := range memberIDs {
		f.members[teamID][id] = true
	}
}

func (f *fakeTeamDirectory) GetByID(_ context.Context, id int64) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, apperrors.ErrTeamNotFound
	}
	return team, nil
}

func (f *fakeTeamDirectory) IsMember(_ context.Context, teamID, userID int64) (bool, error) {
	return f.members[teamID][userID], nil
}

type fakeMessageStore struct {
	nextID      int64
	messages    map[int64]*models.Message
	sawDeadline bool
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{nextID: 1, messages: make(map[int64]*models.Message)}
}

func (f *fakeMessageStore) Create(ctx context.Context, message *models.Message) (int64, error) {
	_, f.sawDeadline = ctx.Deadline()
	id := f.nextID
	f.nextID++
	stored := *message
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	stored.Sender = &models.User{ID: message.SenderID, Name: "Sender"}
	f.messages[id] = &stored
	return id, nil
}

func (f *fakeMessageStore) GetByID(_ context.Context, id int64) (*models.Message, error) {
	message, ok := f.messages[id]
	if !ok {
		return nil, apperrors.ErrMessageNotFound
	}
	return message, nil
}

type routerFixture struct {
	hub    *Hub
	router *Router
	teams  *fakeTeamDirectory
	store  *fakeMessageStore
}

func newRouterFixture() *routerFixture {
	hub := NewHub(zerolog.Nop())
	teams := newFakeTeamDirectory()
	store := newFakeMessageStore()
	presence := NewPresenceTracker()
	return &routerFixture{
		hub:    hub,
		router: NewRouter(hub, presence, teams, store, zerolog.Nop()),
		teams:  teams,
		store:  store,
	}
}

func (f *routerFixture) newClient(userID int64, name string) *Client {
	c := &Client{
		hub:      f.hub,
		send:     make(chan []byte, 16),
		userID:   userID,
		userName: name,
		logger:   zerolog.Nop(),
	}
	f.hub.clients[c] = true
	return c
}

// drainEvents decodes everything queued on a client's send channel
func drainEvents(t *testing.T, c *Client) []Envelope {
	t.Helper()
	var events []Envelope
	for {
		select {
		case raw := <-c.send:
			var envelope Envelope
			require.NoError(t, json.Unmarshal(raw, &envelope))
			events = append(events, envelope)
		default:
			return events
		}
	}
}

func eventNames(events []Envelope) []string {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Event)
	}
	return names
}

func requireError(t *testing.T, c *Client, message string) {
	t.Helper()
	events := drainEvents(t, c)
	require.Len(t, events, 1)
	require.Equal(t, EventError, events[0].Event)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(events[0].Data, &payload))
	assert.Equal(t, message, payload.Message)
}

func TestJoinSendsPresenceSnapshot(t *testing.T) {
	f := newRouterFixture()
	f.teams.addTeam(1, 10, 11)

	alice := f.newClient(10, "Alice")
	bob := f.newClient(11, "Bob")

	f.router.handleJoin(alice, 1)
	events := drainEvents(t, alice)
	require.Equal(t, []string{EventActiveUsers}, eventNames(events))

	f.router.handleJoin(bob, 1)

	// The earlier occupant hears about the join
	aliceEvents := drainEvents(t, alice)
	require.Equal(t, []string{EventUserJoined}, eventNames(aliceEvents))
	var joined PresencePayload
	require.NoError(t, json.Unmarshal(aliceEvents[0].Data, &joined))
	assert.Equal(t, int64(11), joined.UserID)
	assert.Equal(t, "Bob", joined.UserName)

	// The joiner gets the snapshot only, not its own user_joined
	bobEvents := drainEvents(t, bob)
	require.Equal(t, []string{EventActiveUsers}, eventNames(bobEvents))
	var snapshot ActiveUsersPayload
	require.NoError(t, json.Unmarshal(bobEvents[0].Data, &snapshot))
	assert.Equal(t, int64(1), snapshot.TeamID)
	assert.ElementsMatch(t, []int64{10, 11}, snapshot.Users)
	assert.Equal(t, 2, snapshot.Count)
}

func TestJoinRejectsInvalidTeamID(t *testing.T) {
	f := newRouterFixture()
	alice := f.newClient(10, "Alice")

	f.router.handleJoin(alice, 0)
	requireError(t, alice, "Invalid team ID")

	f.router.handleJoin(alice, -3)
	requireError(t, alice, "Invalid team ID")
}

func TestJoinRejectsUnknownTeam(t *testing.T) {
	f := newRouterFixture()
	alice := f.newClient(10, "Alice")

	f.router.handleJoin(alice, 42)
	requireError(t, alice, "Team not found")
	assert.Zero(t, alice.currentTeam)
}

func TestJoinRejectsNonMember(t *testing.T) {
	f := newRouterFixture()
	f.teams.addTeam(1, 11)
	alice := f.newClient(10, "Alice")

	f.router.handleJoin(alice, 1)
	requireError(t, alice, "Access denied: You are not a member of this team")
	assert.Zero(t, f.hub.RoomSize(1))
}

func TestJoinSwitchesRooms(t *testing.T) {
	f := newRouterFixture()
	f.teams.addTeam(1, 10, 11)
	f.teams.addTeam(2, 10)

	alice := f.newClient(10, "Alice")
	bob := f.newClient(11, "Bob")

	f.router.handleJoin(bob, 1)
	f.router.handleJoin(alice, 1)
	drainEvents(t, alice)
	drainEvents(t, bob)

	f.router.handleJoin(alice, 2)

	assert.Equal(t, int64(2), alice.currentTeam)
	assert.Equal(t, 1, f.hub.RoomSize(1))
	assert.Equal(t, 1, f.hub.RoomSize(2))

	// The old room hears a departure
	bobEvents := drainEvents(t, bob)
	require.Equal(t, []string{EventUserLeft}, eventNames(bobEvents))
}

func TestSendValidation(t *testing.T) {
	f := newRouterFixture()
	f.teams.addTeam(1, 10)
	alice := f.newClient(10, "Alice")
	f.router.handleJoin(alice, 1)
	drainEvents(t, alice)

	longText := make([]rune, models.MaxMessageLength+1)
	for i := range longText {
		longText[i] = 'x'
	}

	tests := []struct {
		name    string
		payload SendPayload
		wantErr string
	}{
		{"missing team", SendPayload{Text: "hi"}, "Team ID and message text are required"},
		{"missing text", SendPayload{TeamID: 1}, "Team ID and message text are required"},
		{"whitespace only", SendPayload{TeamID: 1, Text: "   \n\t "}, "Message cannot be empty"},
		{"too long", SendPayload{TeamID: 1, Text: string(longText)}, "Message too long (max 5000 characters)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.router.handleSend(alice, &tt.payload)
			requireError(t, alice, tt.wantErr)
		})
	}

	// Nothing was persisted
	assert.Empty(t, f.store.messages)
}

func TestSendBroadcastsToRoomIncludingSender(t *testing.T) {
	f := newRouterFixture()
	f.teams.addTeam(1, 10, 11)

	alice := f.newClient(10, "Alice")
	bob := f.newClient(11, "Bob")
	f.router.handleJoin(alice, 1)
	f.router.handleJoin(bob, 1)
	drainEvents(t, alice)
	drainEvents(t, bob)

	f.router.handleSend(alice, &SendPayload{TeamID: 1, Text: "  hello team  "})

	// Sender gets the broadcast plus the ack
	aliceEvents := drainEvents(t, alice)
	require.Equal(t, []string{EventReceiveMessage, EventMessageSent}, eventNames(aliceEvents))

	var ack MessageSentPayload
	require.NoError(t, json.Unmarshal(aliceEvents[1].Data, &ack))
	assert.True(t, ack.Success)
	assert.Equal(t, int64(1), ack.MessageID)

	// Other members get the broadcast only
	bobEvents := drainEvents(t, bob)
	require.Equal(t, []string{EventReceiveMessage}, eventNames(bobEvents))

	// The persisted text is trimmed
	stored := f.store.messages[1]
	require.NotNil(t, stored)
	assert.Equal(t, "hello team", stored.Text)
	assert.Equal(t, int64(10), stored.SenderID)

	// Persistence runs without a per-call deadline
	assert.False(t, f.store.sawDeadline)
}

func TestSendRechecksMembership(t *testing.T) {
	f := newRouterFixture()
	f.teams.addTeam(1, 10)
	alice := f.newClient(10, "Alice")
	f.router.handleJoin(alice, 1)
	drainEvents(t, alice)

	// Membership revoked after the join
	delete(f.teams.members[1], 10)

	f.router.handleSend(alice, &SendPayload{TeamID: 1, Text: "hello"})
	requireError(t, alice, "Access denied: You are not a member of this team")
	assert.Empty(t, f.store.messages)
}

func TestLeaveOtherRoomIsNoOp(t *testing.T) {
	f := newRouterFixture()
	f.teams.addTeam(1, 10, 11)

	alice := f.newClient(10, "Alice")
	bob := f.newClient(11, "Bob")
	f.router.handleJoin(alice, 1)
	f.router.handleJoin(bob, 1)
	drainEvents(t, alice)
	drainEvents(t, bob)

	f.router.handleLeave(alice, 99)

	assert.Equal(t, int64(1), alice.currentTeam)
	assert.Equal(t, 2, f.hub.RoomSize(1))
	assert.Empty(t, drainEvents(t, bob))
}

func TestLeaveThenDisconnectEmitsSingleDeparture(t *testing.T) {
	f := newRouterFixture()
	f.teams.addTeam(1, 10, 11)

	alice := f.newClient(10, "Alice")
	bob := f.newClient(11, "Bob")
	f.router.handleJoin(alice, 1)
	f.router.handleJoin(bob, 1)
	drainEvents(t, alice)
	drainEvents(t, bob)

	f.router.handleLeave(alice, 1)

	bobEvents := drainEvents(t, bob)
	require.Equal(t, []string{EventUserLeft}, eventNames(bobEvents))

	f.router.Disconnect(alice)

	assert.Empty(t, drainEvents(t, bob))
}

func TestDisconnectSweepsRooms(t *testing.T) {
	f := newRouterFixture()
	f.teams.addTeam(1, 10, 11)

	alice := f.newClient(10, "Alice")
	bob := f.newClient(11, "Bob")
	f.router.handleJoin(alice, 1)
	f.router.handleJoin(bob, 1)
	drainEvents(t, alice)
	drainEvents(t, bob)

	f.router.Disconnect(alice)

	bobEvents := drainEvents(t, bob)
	require.Equal(t, []string{EventUserLeft}, eventNames(bobEvents))
	var left PresencePayload
	require.NoError(t, json.Unmarshal(bobEvents[0].Data, &left))
	assert.Equal(t, int64(10), left.UserID)
	assert.Zero(t, alice.currentTeam)
}

func TestTypingRelaysToRoomExceptSender(t *testing.T) {
	f := newRouterFixture()
	f.teams.addTeam(1, 10, 11)

	alice := f.newClient(10, "Alice")
	bob := f.newClient(11, "Bob")
	f.router.handleJoin(alice, 1)
	f.router.handleJoin(bob, 1)
	drainEvents(t, alice)
	drainEvents(t, bob)

	f.router.handleTyping(alice, 1, EventUserTyping)
	f.router.handleTyping(alice, 1, EventUserStopTyping)

	bobEvents := drainEvents(t, bob)
	require.Equal(t, []string{EventUserTyping, EventUserStopTyping}, eventNames(bobEvents))
	assert.Empty(t, drainEvents(t, alice))

	// Typing outside the current room is dropped
	f.router.handleTyping(alice, 2, EventUserTyping)
	assert.Empty(t, drainEvents(t, bob))
}

func TestDispatchUnknownEvent(t *testing.T) {
	f := newRouterFixture()
	alice := f.newClient(10, "Alice")

	f.router.Dispatch(alice, &Envelope{Event: "shrug"})
	requireError(t, alice, "Unknown event: shrug")
}

func TestDispatchRejectsMalformedPayload(t *testing.T) {
	f := newRouterFixture()
	alice := f.newClient(10, "Alice")

	f.router.Dispatch(alice, &Envelope{Event: EventJoinTeam, Data: json.RawMessage(`"oops"`)})
	requireError(t, alice, "Invalid team ID")

	f.router.Dispatch(alice, &Envelope{Event: EventSendMessage})
	requireError(t, alice, "Team ID and message text are required")
}
