package services

import (
	"encoding/json"
	"errors"
	"testing"

	"gatherly_backend/internal/models"
	"gatherly_backend/internal/repositories"
	"gatherly_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------- fakes ----------------

type fakeNotificationRepo struct {
	rows        []*models.Notification
	batchCalls  int
	createErr   error
	readIDs     []string
	responses   map[string]bool
	unreadCount int64
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{responses: map[string]bool{}}
}

func (f *fakeNotificationRepo) Create(n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.rows = append(f.rows, n)
	return nil
}

func (f *fakeNotificationRepo) CreateBatch(ns []*models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.batchCalls++
	f.rows = append(f.rows, ns...)
	return nil
}

func (f *fakeNotificationRepo) FindByID(id string) (*models.Notification, error) {
	for _, n := range f.rows {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) FindUserNotifications(userID string, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) MarkAsRead(id string) error {
	for _, n := range f.rows {
		if n.ID == id {
			f.readIDs = append(f.readIDs, id)
			n.Read = true
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(userID string) error { return nil }

func (f *fakeNotificationRepo) MarkMultipleAsRead(ids []string) error {
	for _, id := range ids {
		if err := f.MarkAsRead(id); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeNotificationRepo) SetResponse(id string, response bool) error {
	f.responses[id] = response
	return nil
}

func (f *fakeNotificationRepo) GetUnreadCount(userID string) (int64, error) {
	return f.unreadCount, nil
}

type fakeEventRepo struct {
	events map[string]*models.Event
}

func (f *fakeEventRepo) Create(e *models.Event) error { f.events[e.ID] = e; return nil }
func (f *fakeEventRepo) FindByID(id string) (*models.Event, error) {
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, repositories.ErrEventNotFound
}
func (f *fakeEventRepo) FindBySlug(slug string) (*models.Event, error) {
	for _, e := range f.events {
		if e.ShareableSlug == slug {
			return e, nil
		}
	}
	return nil, repositories.ErrEventNotFound
}
func (f *fakeEventRepo) FindByCreator(creatorID string) ([]models.Event, error) { return nil, nil }
func (f *fakeEventRepo) FindByInvitee(userID string) ([]models.Event, error)    { return nil, nil }
func (f *fakeEventRepo) Update(e *models.Event) error                           { return nil }
func (f *fakeEventRepo) UpdateStatus(eventID string, status models.EventStatus) error {
	if e, ok := f.events[eventID]; ok {
		e.Status = status
	}
	return nil
}
func (f *fakeEventRepo) SlugExists(slug string) (bool, error) { return false, nil }

type fakeAttendeeRepo struct {
	attendees map[string][]models.Attendee // keyed by event ID
}

func (f *fakeAttendeeRepo) CreateBatch(as []*models.Attendee) error {
	for _, a := range as {
		f.attendees[a.EventID] = append(f.attendees[a.EventID], *a)
	}
	return nil
}
func (f *fakeAttendeeRepo) FindByEvent(eventID string) ([]models.Attendee, error) {
	return f.attendees[eventID], nil
}
func (f *fakeAttendeeRepo) FindByEventAndUser(eventID, userID string) (*models.Attendee, error) {
	for i := range f.attendees[eventID] {
		if f.attendees[eventID][i].UserID == userID {
			return &f.attendees[eventID][i], nil
		}
	}
	return nil, repositories.ErrAttendeeNotFound
}
func (f *fakeAttendeeRepo) UpdateStatus(eventID, userID string, status models.AttendeeStatus, updatedGoing bool) error {
	for i := range f.attendees[eventID] {
		if f.attendees[eventID][i].UserID == userID {
			f.attendees[eventID][i].Status = status
			f.attendees[eventID][i].UpdatedGoing = updatedGoing
			return nil
		}
	}
	return repositories.ErrAttendeeNotFound
}
func (f *fakeAttendeeRepo) CountPendingForUser(userID string) (int64, error) {
	var count int64
	for _, rows := range f.attendees {
		for _, a := range rows {
			if a.UserID == userID && a.Status == models.AttendeeStatusPending {
				count++
			}
		}
	}
	return count, nil
}

type fakeFriendRepo struct {
	pendingCount int64
}

func (f *fakeFriendRepo) Create(*models.Friendship) error { return nil }
func (f *fakeFriendRepo) FindByID(string) (*models.Friendship, error) {
	return nil, repositories.ErrFriendshipNotFound
}
func (f *fakeFriendRepo) FindPair(string, string) (*models.Friendship, error) {
	return nil, repositories.ErrFriendshipNotFound
}
func (f *fakeFriendRepo) Accept(string) error                                  { return nil }
func (f *fakeFriendRepo) Delete(string) error                                  { return nil }
func (f *fakeFriendRepo) FindFriends(string) ([]models.Friendship, error)      { return nil, nil }
func (f *fakeFriendRepo) FindPendingFor(string) ([]models.Friendship, error)   { return nil, nil }
func (f *fakeFriendRepo) CountPendingFor(string) (int64, error)                { return f.pendingCount, nil }

type recordingRelay struct {
	recipients []string
}

func (r *recordingRelay) Relay(recipientID, title, body string, data map[string]interface{}) (bool, error) {
	r.recipients = append(r.recipients, recipientID)
	return true, nil
}

// ---------------- fixtures ----------------

func fanoutFixture() (*notificationService, *fakeNotificationRepo, *fakeEventRepo, *fakeAttendeeRepo, *recordingRelay) {
	notifRepo := newFakeNotificationRepo()
	eventRepo := &fakeEventRepo{events: map[string]*models.Event{}}
	attendeeRepo := &fakeAttendeeRepo{attendees: map[string][]models.Attendee{}}
	relay := &recordingRelay{}

	svc := NewNotificationService(notifRepo, eventRepo, attendeeRepo, &fakeFriendRepo{}, relay).(*notificationService)
	return svc, notifRepo, eventRepo, attendeeRepo, relay
}

func seedEvent(eventRepo *fakeEventRepo, attendeeRepo *fakeAttendeeRepo, creatorID string, attendeeIDs ...string) *models.Event {
	event := &models.Event{
		CreatorID:     creatorID,
		Title:         "Garden Party",
		ShareableSlug: "garden-party",
		Status:        models.EventStatusActive,
	}
	event.ID = "event-1"
	eventRepo.events[event.ID] = event

	for _, id := range attendeeIDs {
		attendeeRepo.attendees[event.ID] = append(attendeeRepo.attendees[event.ID], models.Attendee{
			EventID: event.ID,
			UserID:  id,
			Status:  models.AttendeeStatusGoing,
		})
	}
	return event
}

func payloadOf(t *testing.T, n *models.Notification) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(n.Data, &data))
	return data
}

// ---------------- tests ----------------

func TestNotifyEventChangeCancellationIncludesEveryAttendee(t *testing.T) {
	svc, notifRepo, eventRepo, attendeeRepo, relay := fanoutFixture()
	seedEvent(eventRepo, attendeeRepo, "creator", "alice", "bob", "carol")

	err := svc.NotifyEventChange("event-1", EventChangeCancellation, EventChangeDetails{})
	require.NoError(t, err)

	require.Len(t, notifRepo.rows, 3)
	assert.Equal(t, 1, notifRepo.batchCalls, "fan-out must be one batch insert")

	recipients := map[string]bool{}
	for _, n := range notifRepo.rows {
		recipients[n.UserID] = true
		assert.Equal(t, repositories.NotificationTypeEventCancellation, n.Type)

		data := payloadOf(t, n)
		assert.Equal(t, "event_cancellation", data["type"])
		assert.Equal(t, "event-1", data["event_id"])
	}
	assert.Equal(t, map[string]bool{"alice": true, "bob": true, "carol": true}, recipients)
	assert.Len(t, relay.recipients, 3)
}

func TestNotifyEventChangeUpdateExcludesCreator(t *testing.T) {
	svc, notifRepo, eventRepo, attendeeRepo, _ := fanoutFixture()
	// The creator also appears in the attendee rows and must still be
	// excluded from update fan-out.
	seedEvent(eventRepo, attendeeRepo, "creator", "creator", "alice", "bob")

	err := svc.NotifyEventChange("event-1", EventChangeUpdate, EventChangeDetails{
		Field: "starts_at", OldValue: "2026-09-01T18:00:00Z", NewValue: "2026-09-02T18:00:00Z",
	})
	require.NoError(t, err)

	require.Len(t, notifRepo.rows, 2)
	for _, n := range notifRepo.rows {
		assert.NotEqual(t, "creator", n.UserID)
		assert.Equal(t, repositories.NotificationTypeEventUpdate, n.Type)

		data := payloadOf(t, n)
		assert.Equal(t, "starts_at", data["field"])
		assert.Equal(t, "2026-09-02T18:00:00Z", data["new_value"])
	}
}

func TestNotifyEventChangeEmptyRecipientsIsSuccess(t *testing.T) {
	svc, notifRepo, eventRepo, attendeeRepo, relay := fanoutFixture()
	seedEvent(eventRepo, attendeeRepo, "creator") // no attendees

	err := svc.NotifyEventChange("event-1", EventChangeUpdate, EventChangeDetails{Field: "title"})
	require.NoError(t, err)
	assert.Empty(t, notifRepo.rows)
	assert.Zero(t, notifRepo.batchCalls, "empty fan-out must not write")
	assert.Empty(t, relay.recipients)
}

func TestNotifyEventChangeUnknownEvent(t *testing.T) {
	svc, _, _, _, _ := fanoutFixture()

	err := svc.NotifyEventChange("missing", EventChangeCancellation, EventChangeDetails{})
	require.Error(t, err)
}

func TestNotifyEventChangeBatchFailureSurfaces(t *testing.T) {
	svc, notifRepo, eventRepo, attendeeRepo, relay := fanoutFixture()
	seedEvent(eventRepo, attendeeRepo, "creator", "alice")
	notifRepo.createErr = errors.New("deadlock detected")

	err := svc.NotifyEventChange("event-1", EventChangeCancellation, EventChangeDetails{})
	require.Error(t, err)
	assert.Empty(t, relay.recipients, "no push on a failed insert")
}

func TestMarkAsReadIsIdempotent(t *testing.T) {
	svc, notifRepo, _, _, _ := fanoutFixture()
	n := &models.Notification{UserID: "alice", Type: repositories.NotificationTypeEventUpdate, Title: "x"}
	n.ID = "n-1"
	notifRepo.rows = append(notifRepo.rows, n)

	require.NoError(t, svc.MarkAsRead("alice", "n-1"))
	require.NoError(t, svc.MarkAsRead("alice", "n-1"))
	assert.True(t, n.Read)
}

func TestMarkAsReadRejectsForeignNotification(t *testing.T) {
	svc, notifRepo, _, _, _ := fanoutFixture()
	n := &models.Notification{UserID: "alice", Type: repositories.NotificationTypeEventUpdate, Title: "x"}
	n.ID = "n-1"
	notifRepo.rows = append(notifRepo.rows, n)

	err := svc.MarkAsRead("mallory", "n-1")
	require.Error(t, err)
	assert.False(t, n.Read)
}

func TestRespondToInviteRecordsAnswer(t *testing.T) {
	svc, notifRepo, _, _, _ := fanoutFixture()
	n := &models.Notification{UserID: "alice", Type: repositories.NotificationTypeEventInvite, Title: "x"}
	n.ID = "n-1"
	notifRepo.rows = append(notifRepo.rows, n)

	require.NoError(t, svc.RespondToInvite("alice", "n-1", true))
	assert.True(t, notifRepo.responses["n-1"])
	assert.True(t, n.Read, "responding marks the invite read")
}

func TestRespondToInviteRejectsNonInvite(t *testing.T) {
	svc, notifRepo, _, _, _ := fanoutFixture()
	n := &models.Notification{UserID: "alice", Type: repositories.NotificationTypeEventUpdate, Title: "x"}
	n.ID = "n-1"
	notifRepo.rows = append(notifRepo.rows, n)

	err := svc.RespondToInvite("alice", "n-1", true)
	require.Error(t, err)
}

func TestInviteEventIDValidatesOwnershipAndType(t *testing.T) {
	svc, notifRepo, eventRepo, attendeeRepo, _ := fanoutFixture()
	event := seedEvent(eventRepo, attendeeRepo, "creator")
	require.NoError(t, svc.NotifyEventInvites(event, "carol", []string{"alice"}))
	invite := notifRepo.rows[0]
	invite.ID = "n-1"

	eventID, err := svc.InviteEventID("alice", "n-1")
	require.NoError(t, err)
	assert.Equal(t, "event-1", eventID)

	_, err = svc.InviteEventID("mallory", "n-1")
	require.Error(t, err)

	update := &models.Notification{UserID: "alice", Type: repositories.NotificationTypeEventUpdate}
	update.ID = "n-2"
	notifRepo.rows = append(notifRepo.rows, update)
	_, err = svc.InviteEventID("alice", "n-2")
	require.Error(t, err)
}

// Answering an invite through the notification endpoint must move the
// attendee row off pending, not just annotate the notification.
func TestInviteResponseClearsPendingInvite(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	eventRepo := &fakeEventRepo{events: map[string]*models.Event{}}
	attendeeRepo := &fakeAttendeeRepo{attendees: map[string][]models.Attendee{}}
	profileRepo := newFakeProfileRepo(map[string]string{"creator": "carol_creates", "alice": "alice"})

	notifSvc := NewNotificationService(notifRepo, eventRepo, attendeeRepo, &fakeFriendRepo{}, &recordingRelay{})
	eventSvc := NewEventService(eventRepo, attendeeRepo, profileRepo, NewSlugService(eventRepo, profileRepo), notifSvc)

	event := seedEvent(eventRepo, attendeeRepo, "creator")
	attendeeRepo.attendees[event.ID] = []models.Attendee{{
		EventID: event.ID, UserID: "alice", Status: models.AttendeeStatusPending,
	}}

	require.NoError(t, notifSvc.NotifyEventInvites(event, "carol_creates", []string{"alice"}))
	require.Len(t, notifRepo.rows, 1)
	invite := notifRepo.rows[0]
	invite.ID = "n-1"

	counts, err := notifSvc.GetPendingCounts("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.PendingInvites)

	// The respond endpoint runs the answer through the event flow first,
	// then records it on the notification.
	eventID, err := notifSvc.InviteEventID("alice", "n-1")
	require.NoError(t, err)
	require.NoError(t, eventSvc.Respond("alice", eventID, &dto.RespondRequest{Going: true}))
	require.NoError(t, notifSvc.RespondToInvite("alice", "n-1", true))

	a := attendeeRepo.attendees[event.ID][0]
	assert.Equal(t, models.AttendeeStatusGoing, a.Status)
	assert.False(t, a.UpdatedGoing, "first answer is not a changed mind")

	counts, err = notifSvc.GetPendingCounts("alice")
	require.NoError(t, err)
	assert.Zero(t, counts.PendingInvites)

	assert.True(t, notifRepo.responses["n-1"])
	assert.True(t, invite.Read)
}

func TestGetPendingCounts(t *testing.T) {
	notifRepo := newFakeNotificationRepo()
	notifRepo.unreadCount = 7
	eventRepo := &fakeEventRepo{events: map[string]*models.Event{}}
	attendeeRepo := &fakeAttendeeRepo{attendees: map[string][]models.Attendee{}}
	friendRepo := &fakeFriendRepo{pendingCount: 2}

	svc := NewNotificationService(notifRepo, eventRepo, attendeeRepo, friendRepo, &recordingRelay{})

	counts, err := svc.GetPendingCounts("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.PendingRequests)
	assert.Equal(t, int64(7), counts.UnreadNotifications)
}
