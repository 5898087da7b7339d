package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startconnect/api/internal/app/models"
	"github.com/startconnect/api/internal/app/models/dto"
	"github.com/startconnect/api/internal/pkg/apperrors"
)

type fakeUserStore struct {
	nextID          int64
	users           map[int64]*models.User
	studentProfiles map[int64]*models.StudentProfile
	startupProfiles map[int64]*models.StartupProfile
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		nextID:          1,
		users:           make(map[int64]*models.User),
		studentProfiles: make(map[int64]*models.StudentProfile),
		startupProfiles: make(map[int64]*models.StartupProfile),
	}
}

func (f *fakeUserStore) addUser(name, email string, role models.RoleType, verified bool) *models.User {
	user := &models.User{
		ID:         f.nextID,
		Name:       name,
		Email:      email,
		Role:       role,
		IsVerified: verified,
	}
	f.users[f.nextID] = user
	f.nextID++
	return user
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) (int64, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = f.nextID
	f.users[f.nextID] = user
	f.nextID++
	return user.ID, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (f *fakeUserStore) GetByVerificationToken(_ context.Context, token string) (*models.User, error) {
	for _, user := range f.users {
		if user.VerificationToken != nil && *user.VerificationToken == token {
			return user, nil
		}
	}
	return nil, apperrors.ErrInvalidEmailToken
}

func (f *fakeUserStore) MarkVerified(_ context.Context, userID int64) error {
	user, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.IsVerified = true
	user.VerificationToken = nil
	user.VerificationTokenExpiry = nil
	return nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, userID int64, name string, profilePicture *string) error {
	user, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Name = name
	user.ProfilePicture = profilePicture
	return nil
}

func (f *fakeUserStore) CreateStudentProfile(_ context.Context, userID int64) error {
	f.studentProfiles[userID] = &models.StudentProfile{UserID: userID}
	return nil
}

func (f *fakeUserStore) GetStudentProfile(_ context.Context, userID int64) (*models.StudentProfile, error) {
	profile, ok := f.studentProfiles[userID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return profile, nil
}

func (f *fakeUserStore) UpdateStudentProfile(_ context.Context, profile *models.StudentProfile) error {
	if _, ok := f.studentProfiles[profile.UserID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	f.studentProfiles[profile.UserID] = profile
	return nil
}

func (f *fakeUserStore) CreateStartupProfile(_ context.Context, userID int64, companyName string) error {
	f.startupProfiles[userID] = &models.StartupProfile{UserID: userID, CompanyName: companyName}
	return nil
}

func (f *fakeUserStore) GetStartupProfile(_ context.Context, userID int64) (*models.StartupProfile, error) {
	profile, ok := f.startupProfiles[userID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return profile, nil
}

func (f *fakeUserStore) UpdateStartupProfile(_ context.Context, profile *models.StartupProfile) error {
	if _, ok := f.startupProfiles[profile.UserID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	f.startupProfiles[profile.UserID] = profile
	return nil
}

func (f *fakeUserStore) ListVerifiedStartups(_ context.Context) ([]*models.StartupProfile, error) {
	var profiles []*models.StartupProfile
	for userID, profile := range f.startupProfiles {
		if user, ok := f.users[userID]; ok && user.IsVerified {
			profiles = append(profiles, profile)
		}
	}
	return profiles, nil
}

func newTeamFixture() (*fakeTeamStore, *fakeUserStore, TeamService) {
	teams := newFakeTeamStore()
	users := newFakeUserStore()
	svc := NewTeamService(teams, users, zerolog.Nop())
	return teams, users, svc
}

func TestCreateTeam(t *testing.T) {
	_, users, svc := newTeamFixture()
	leader := users.addUser("Startup Sam", "sam@acme.dev", models.RoleStartup, true)

	team, err := svc.CreateTeam(context.Background(), leader.ID, &dto.CreateTeamRequest{Name: "Acme Builders"})
	require.NoError(t, err)

	assert.Equal(t, "Acme Builders", team.Name)
	assert.Equal(t, leader.ID, team.LeaderID)
}

func TestCreateTeamRejectsExistingMembership(t *testing.T) {
	teams, users, svc := newTeamFixture()
	leader := users.addUser("Startup Sam", "sam@acme.dev", models.RoleStartup, true)
	teams.addTeam(1, leader.ID)

	_, err := svc.CreateTeam(context.Background(), leader.ID, &dto.CreateTeamRequest{Name: "Second Team"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyInTeam)
}

func TestGetMyTeamWithoutTeam(t *testing.T) {
	_, users, svc := newTeamFixture()
	user := users.addUser("Solo", "solo@example.com", models.RoleStudent, true)

	_, err := svc.GetMyTeam(context.Background(), user.ID)
	assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)
}

func TestInviteMemberLeaderOnly(t *testing.T) {
	teams, users, svc := newTeamFixture()
	leader := users.addUser("Leader", "leader@acme.dev", models.RoleStartup, true)
	member := users.addUser("Member", "member@example.com", models.RoleStudent, true)
	teams.addTeam(1, leader.ID, member.ID)

	invite, err := svc.InviteMember(context.Background(), leader.ID, &dto.InviteMemberRequest{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), invite.TeamID)
	assert.Equal(t, "new@example.com", invite.Email)

	_, err = svc.InviteMember(context.Background(), member.ID, &dto.InviteMemberRequest{Email: "other@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrNotTeamLeader)
}

func TestAcceptInvite(t *testing.T) {
	teams, users, svc := newTeamFixture()
	leader := users.addUser("Leader", "leader@acme.dev", models.RoleStartup, true)
	invitee := users.addUser("Invitee", "invitee@example.com", models.RoleStudent, true)
	teams.addTeam(1, leader.ID)

	invite, err := svc.InviteMember(context.Background(), leader.ID, &dto.InviteMemberRequest{Email: invitee.Email})
	require.NoError(t, err)

	var token string
	for tok, stored := range teams.invites {
		if stored.ID == invite.ID {
			token = tok
		}
	}
	require.NotEmpty(t, token)

	team, err := svc.AcceptInvite(context.Background(), invitee.ID, token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), team.ID)

	isMember, err := teams.IsMember(context.Background(), 1, invitee.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	// The used invite is gone
	_, err = svc.AcceptInvite(context.Background(), invitee.ID, token)
	assert.ErrorIs(t, err, apperrors.ErrInviteNotFound)
}

func TestAcceptInviteWrongAccount(t *testing.T) {
	teams, users, svc := newTeamFixture()
	leader := users.addUser("Leader", "leader@acme.dev", models.RoleStartup, true)
	other := users.addUser("Other", "other@example.com", models.RoleStudent, true)
	teams.addTeam(1, leader.ID)

	_, err := svc.InviteMember(context.Background(), leader.ID, &dto.InviteMemberRequest{Email: "invitee@example.com"})
	require.NoError(t, err)

	var token string
	for tok := range teams.invites {
		token = tok
	}

	_, err = svc.AcceptInvite(context.Background(), other.ID, token)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAcceptInviteUnknownToken(t *testing.T) {
	_, users, svc := newTeamFixture()
	user := users.addUser("User", "user@example.com", models.RoleStudent, true)

	_, err := svc.AcceptInvite(context.Background(), user.ID, "nope")
	assert.ErrorIs(t, err, apperrors.ErrInviteNotFound)
}

func TestRemoveMember(t *testing.T) {
	teams, users, svc := newTeamFixture()
	leader := users.addUser("Leader", "leader@acme.dev", models.RoleStartup, true)
	member := users.addUser("Member", "member@example.com", models.RoleStudent, true)
	teams.addTeam(1, leader.ID, member.ID)

	require.NoError(t, svc.RemoveMember(context.Background(), leader.ID, member.ID))

	isMember, err := teams.IsMember(context.Background(), 1, member.ID)
	require.NoError(t, err)
	assert.False(t, isMember)
}

func TestRemoveMemberRejectsNonLeader(t *testing.T) {
	teams, users, svc := newTeamFixture()
	leader := users.addUser("Leader", "leader@acme.dev", models.RoleStartup, true)
	member := users.addUser("Member", "member@example.com", models.RoleStudent, true)
	teams.addTeam(1, leader.ID, member.ID)

	err := svc.RemoveMember(context.Background(), member.ID, leader.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotTeamLeader)
}

func TestRemoveMemberRejectsLeaderSelf(t *testing.T) {
	teams, users, svc := newTeamFixture()
	leader := users.addUser("Leader", "leader@acme.dev", models.RoleStartup, true)
	teams.addTeam(1, leader.ID)

	err := svc.RemoveMember(context.Background(), leader.ID, leader.ID)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
