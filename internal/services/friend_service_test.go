package services

import (
	"fmt"
	"testing"

	"gatherly_backend/internal/models"
	"gatherly_backend/internal/repositories"
	"gatherly_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFriendRepo struct {
	rows   map[string]*models.Friendship
	nextID int
}

func newMemFriendRepo() *memFriendRepo {
	return &memFriendRepo{rows: map[string]*models.Friendship{}}
}

func (m *memFriendRepo) Create(f *models.Friendship) error {
	if existing, _ := m.FindPair(f.UserID, f.FriendID); existing != nil {
		return repositories.ErrFriendshipAlreadyExists
	}
	m.nextID++
	f.ID = fmt.Sprintf("friendship-%d", m.nextID)
	m.rows[f.ID] = f
	return nil
}

func (m *memFriendRepo) FindByID(id string) (*models.Friendship, error) {
	if f, ok := m.rows[id]; ok {
		return f, nil
	}
	return nil, repositories.ErrFriendshipNotFound
}

func (m *memFriendRepo) FindPair(userID, friendID string) (*models.Friendship, error) {
	for _, f := range m.rows {
		if (f.UserID == userID && f.FriendID == friendID) || (f.UserID == friendID && f.FriendID == userID) {
			return f, nil
		}
	}
	return nil, repositories.ErrFriendshipNotFound
}

func (m *memFriendRepo) Accept(id string) error {
	if f, ok := m.rows[id]; ok {
		f.Status = models.FriendshipStatusAccepted
		return nil
	}
	return repositories.ErrFriendshipNotFound
}

func (m *memFriendRepo) Delete(id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memFriendRepo) FindFriends(userID string) ([]models.Friendship, error) {
	var out []models.Friendship
	for _, f := range m.rows {
		if f.Status == models.FriendshipStatusAccepted && (f.UserID == userID || f.FriendID == userID) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memFriendRepo) FindPendingFor(userID string) ([]models.Friendship, error) {
	var out []models.Friendship
	for _, f := range m.rows {
		if f.Status == models.FriendshipStatusPending && f.FriendID == userID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *memFriendRepo) CountPendingFor(userID string) (int64, error) {
	pending, _ := m.FindPendingFor(userID)
	return int64(len(pending)), nil
}

func friendServiceFixture() (FriendService, *memFriendRepo, *fakeNotificationRepo) {
	friendRepo := newMemFriendRepo()
	notifRepo := newFakeNotificationRepo()
	profileRepo := newFakeProfileRepo(map[string]string{
		"alice": "alice",
		"bob":   "bob",
	})

	eventRepo := &fakeEventRepo{events: map[string]*models.Event{}}
	attendeeRepo := &fakeAttendeeRepo{attendees: map[string][]models.Attendee{}}
	notificationService := NewNotificationService(notifRepo, eventRepo, attendeeRepo, friendRepo, &recordingRelay{})

	return NewFriendService(friendRepo, profileRepo, notificationService), friendRepo, notifRepo
}

func TestSendRequestCreatesPendingAndNotifies(t *testing.T) {
	svc, friendRepo, notifRepo := friendServiceFixture()

	require.NoError(t, svc.SendRequest("alice", &dto.FriendRequestRequest{UserID: "bob"}))

	pair, err := friendRepo.FindPair("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipStatusPending, pair.Status)
	assert.Equal(t, "alice", pair.UserID, "the sender is recorded as the requester")

	require.Len(t, notifRepo.rows, 1)
	assert.Equal(t, "bob", notifRepo.rows[0].UserID)
	assert.Equal(t, repositories.NotificationTypeFriendRequest, notifRepo.rows[0].Type)
}

func TestSendRequestRejectsSelf(t *testing.T) {
	svc, _, _ := friendServiceFixture()

	err := svc.SendRequest("alice", &dto.FriendRequestRequest{UserID: "alice"})
	require.Error(t, err)
}

func TestSendRequestRejectsDuplicateEitherDirection(t *testing.T) {
	svc, _, _ := friendServiceFixture()

	require.NoError(t, svc.SendRequest("alice", &dto.FriendRequestRequest{UserID: "bob"}))

	err := svc.SendRequest("alice", &dto.FriendRequestRequest{UserID: "bob"})
	require.Error(t, err)

	err = svc.SendRequest("bob", &dto.FriendRequestRequest{UserID: "alice"})
	require.Error(t, err, "a reverse-direction request must also be rejected")
}

func TestAcceptRequest(t *testing.T) {
	svc, friendRepo, notifRepo := friendServiceFixture()
	require.NoError(t, svc.SendRequest("alice", &dto.FriendRequestRequest{UserID: "bob"}))
	pair, _ := friendRepo.FindPair("alice", "bob")

	require.NoError(t, svc.AcceptRequest("bob", pair.ID))
	assert.Equal(t, models.FriendshipStatusAccepted, pair.Status)

	// friend_request to bob, then friend_accepted back to alice
	require.Len(t, notifRepo.rows, 2)
	assert.Equal(t, "alice", notifRepo.rows[1].UserID)
	assert.Equal(t, repositories.NotificationTypeFriendAccepted, notifRepo.rows[1].Type)
}

func TestAcceptRequestOnlyByRecipient(t *testing.T) {
	svc, friendRepo, _ := friendServiceFixture()
	require.NoError(t, svc.SendRequest("alice", &dto.FriendRequestRequest{UserID: "bob"}))
	pair, _ := friendRepo.FindPair("alice", "bob")

	err := svc.AcceptRequest("alice", pair.ID)
	require.Error(t, err, "the sender cannot accept their own request")
	assert.Equal(t, models.FriendshipStatusPending, pair.Status)
}

func TestDeclineRemovesRequest(t *testing.T) {
	svc, friendRepo, _ := friendServiceFixture()
	require.NoError(t, svc.SendRequest("alice", &dto.FriendRequestRequest{UserID: "bob"}))
	pair, _ := friendRepo.FindPair("alice", "bob")

	require.NoError(t, svc.DeclineRequest("bob", pair.ID))

	_, err := friendRepo.FindPair("alice", "bob")
	assert.Error(t, err)
}

func TestListFriendsResolvesOtherParty(t *testing.T) {
	svc, friendRepo, _ := friendServiceFixture()
	require.NoError(t, svc.SendRequest("alice", &dto.FriendRequestRequest{UserID: "bob"}))
	pair, _ := friendRepo.FindPair("alice", "bob")
	require.NoError(t, svc.AcceptRequest("bob", pair.ID))

	friends, err := svc.ListFriends("alice")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].UserID)
	assert.Equal(t, "bob", friends[0].Username)

	friends, err = svc.ListFriends("bob")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "alice", friends[0].UserID)
}

func TestRemoveFriendEitherDirection(t *testing.T) {
	svc, friendRepo, _ := friendServiceFixture()
	require.NoError(t, svc.SendRequest("alice", &dto.FriendRequestRequest{UserID: "bob"}))
	pair, _ := friendRepo.FindPair("alice", "bob")
	require.NoError(t, svc.AcceptRequest("bob", pair.ID))

	require.NoError(t, svc.RemoveFriend("bob", "alice"))
	_, err := friendRepo.FindPair("alice", "bob")
	assert.Error(t, err)
}
