package services

import (
	"testing"
	"time"

	"gatherly_backend/internal/models"
	"gatherly_backend/internal/repositories"
	"gatherly_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileRepo struct {
	profiles map[string]*models.Profile // keyed by user ID
}

func newFakeProfileRepo(usernames map[string]string) *fakeProfileRepo {
	repo := &fakeProfileRepo{profiles: map[string]*models.Profile{}}
	for userID, username := range usernames {
		p := &models.Profile{UserID: userID, Username: username, FullName: username}
		p.ID = "profile-" + userID
		repo.profiles[userID] = p
	}
	return repo
}

func (f *fakeProfileRepo) Create(p *models.Profile) error { f.profiles[p.UserID] = p; return nil }
func (f *fakeProfileRepo) FindByUserID(userID string) (*models.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, repositories.ErrProfileNotFound
}
func (f *fakeProfileRepo) FindByUsername(username string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}
func (f *fakeProfileRepo) FindBySlug(slug string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.ShareableSlug == slug {
			return p, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}
func (f *fakeProfileRepo) FindByUserIDs(userIDs []string) ([]models.Profile, error) {
	var out []models.Profile
	for _, id := range userIDs {
		if p, ok := f.profiles[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}
func (f *fakeProfileRepo) Update(p *models.Profile) error { f.profiles[p.UserID] = p; return nil }
func (f *fakeProfileRepo) SlugExists(slug string) (bool, error) {
	for _, p := range f.profiles {
		if p.ShareableSlug == slug {
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeProfileRepo) Search(query string, limit int) ([]models.Profile, error) {
	return nil, nil
}
func (f *fakeProfileRepo) SetPushToken(userID, token string) error {
	if p, ok := f.profiles[userID]; ok {
		p.ExpoPushToken = token
		return nil
	}
	return repositories.ErrProfileNotFound
}
func (f *fakeProfileRepo) SetPushPromptSeen(userID string) error {
	if p, ok := f.profiles[userID]; ok {
		p.PushPromptSeen = true
		return nil
	}
	return repositories.ErrProfileNotFound
}

func eventServiceFixture() (EventService, *fakeEventRepo, *fakeAttendeeRepo, *fakeNotificationRepo) {
	eventRepo := &fakeEventRepo{events: map[string]*models.Event{}}
	attendeeRepo := &fakeAttendeeRepo{attendees: map[string][]models.Attendee{}}
	notifRepo := newFakeNotificationRepo()
	profileRepo := newFakeProfileRepo(map[string]string{
		"creator": "carol_creates",
		"alice":   "alice",
		"bob":     "bob",
	})

	notificationService := NewNotificationService(notifRepo, eventRepo, attendeeRepo, &fakeFriendRepo{}, &recordingRelay{})
	slugService := NewSlugService(eventRepo, profileRepo)

	svc := NewEventService(eventRepo, attendeeRepo, profileRepo, slugService, notificationService)
	return svc, eventRepo, attendeeRepo, notifRepo
}

func TestCreateEventGeneratesSlug(t *testing.T) {
	svc, _, _, _ := eventServiceFixture()

	event, err := svc.CreateEvent("creator", &dto.CreateEventRequest{
		Title:    "Garden Party!",
		StartsAt: time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "garden-party", event.ShareableSlug)
	assert.Equal(t, string(models.EventStatusActive), event.Status)
}

func TestInviteUsersSkipsCreatorAndExisting(t *testing.T) {
	svc, eventRepo, attendeeRepo, notifRepo := eventServiceFixture()
	seedEvent(eventRepo, attendeeRepo, "creator", "alice")

	err := svc.InviteUsers("creator", "event-1", &dto.InviteRequest{
		UserIDs: []string{"creator", "alice", "bob", "bob"},
	})
	require.NoError(t, err)

	require.Len(t, attendeeRepo.attendees["event-1"], 2, "only bob is new")
	added := attendeeRepo.attendees["event-1"][1]
	assert.Equal(t, "bob", added.UserID)
	assert.Equal(t, models.AttendeeStatusPending, added.Status)

	require.Len(t, notifRepo.rows, 1)
	assert.Equal(t, "bob", notifRepo.rows[0].UserID)
	assert.Equal(t, repositories.NotificationTypeEventInvite, notifRepo.rows[0].Type)
}

func TestInviteUsersRequiresCreator(t *testing.T) {
	svc, eventRepo, attendeeRepo, _ := eventServiceFixture()
	seedEvent(eventRepo, attendeeRepo, "creator")

	err := svc.InviteUsers("alice", "event-1", &dto.InviteRequest{UserIDs: []string{"bob"}})
	require.Error(t, err)
}

func TestRespondFirstAnswerThenChange(t *testing.T) {
	svc, eventRepo, attendeeRepo, notifRepo := eventServiceFixture()
	seedEvent(eventRepo, attendeeRepo, "creator")
	attendeeRepo.attendees["event-1"] = []models.Attendee{{
		EventID: "event-1", UserID: "alice", Status: models.AttendeeStatusPending,
	}}

	require.NoError(t, svc.Respond("alice", "event-1", &dto.RespondRequest{Going: true}))
	a := attendeeRepo.attendees["event-1"][0]
	assert.Equal(t, models.AttendeeStatusGoing, a.Status)
	assert.False(t, a.UpdatedGoing, "first answer is not a changed mind")

	require.NoError(t, svc.Respond("alice", "event-1", &dto.RespondRequest{Going: false}))
	a = attendeeRepo.attendees["event-1"][0]
	assert.Equal(t, models.AttendeeStatusDeclined, a.Status)
	assert.True(t, a.UpdatedGoing, "second answer flips updated_going")

	require.Len(t, notifRepo.rows, 2)
	for _, n := range notifRepo.rows {
		assert.Equal(t, "creator", n.UserID)
		assert.Equal(t, repositories.NotificationTypeInviteResponse, n.Type)
	}
}

func TestRespondRejectsNonAttendee(t *testing.T) {
	svc, eventRepo, attendeeRepo, _ := eventServiceFixture()
	seedEvent(eventRepo, attendeeRepo, "creator")

	err := svc.Respond("mallory", "event-1", &dto.RespondRequest{Going: true})
	require.Error(t, err)
}

func TestUpdateEventFansOutPerChangedField(t *testing.T) {
	svc, eventRepo, attendeeRepo, notifRepo := eventServiceFixture()
	seedEvent(eventRepo, attendeeRepo, "creator", "alice", "bob")

	newTitle := "Rooftop Party"
	_, err := svc.UpdateEvent("creator", "event-1", &dto.UpdateEventRequest{Title: &newTitle})
	require.NoError(t, err)

	require.Len(t, notifRepo.rows, 2)
	for _, n := range notifRepo.rows {
		assert.Equal(t, repositories.NotificationTypeEventUpdate, n.Type)
		assert.NotEqual(t, "creator", n.UserID)
	}
}

func TestUpdateEventNoChangesNoFanOut(t *testing.T) {
	svc, eventRepo, attendeeRepo, notifRepo := eventServiceFixture()
	event := seedEvent(eventRepo, attendeeRepo, "creator", "alice")

	same := event.Title
	_, err := svc.UpdateEvent("creator", "event-1", &dto.UpdateEventRequest{Title: &same})
	require.NoError(t, err)
	assert.Empty(t, notifRepo.rows, "a no-op update must not notify anyone")
}

func TestCancelEventNotifiesAllAttendees(t *testing.T) {
	svc, eventRepo, attendeeRepo, notifRepo := eventServiceFixture()
	seedEvent(eventRepo, attendeeRepo, "creator", "alice", "bob")

	require.NoError(t, svc.CancelEvent("creator", "event-1"))
	assert.Equal(t, models.EventStatusCancelled, eventRepo.events["event-1"].Status)
	assert.Len(t, notifRepo.rows, 2)

	// Mutations on a cancelled event are rejected.
	err := svc.CancelEvent("creator", "event-1")
	require.Error(t, err)
	err = svc.InviteUsers("creator", "event-1", &dto.InviteRequest{UserIDs: []string{"bob"}})
	require.Error(t, err)
	err = svc.Respond("alice", "event-1", &dto.RespondRequest{Going: true})
	require.Error(t, err)
}
