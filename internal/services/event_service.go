package services

import (
	"time"

	"gatherly_backend/internal/logger"
	"gatherly_backend/internal/models"
	"gatherly_backend/internal/repositories"
	"gatherly_backend/internal/services/dto"
	"gatherly_backend/pkg/apperrors"
)

type EventService interface {
	CreateEvent(creatorID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	GetEvent(eventID string) (*dto.EventResponse, error)
	GetEventBySlug(slug string) (*dto.EventResponse, error)
	ListCreatedEvents(userID string) ([]*dto.EventResponse, error)
	ListInvitedEvents(userID string) ([]*dto.EventResponse, error)
	UpdateEvent(userID, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	CancelEvent(userID, eventID string) error
	InviteUsers(userID, eventID string, req *dto.InviteRequest) error
	Respond(userID, eventID string, req *dto.RespondRequest) error
}

type eventService struct {
	eventRepo           repositories.EventRepository
	attendeeRepo        repositories.AttendeeRepository
	profileRepo         repositories.ProfileRepository
	slugService         SlugService
	notificationService NotificationService
}

func NewEventService(
	eventRepo repositories.EventRepository,
	attendeeRepo repositories.AttendeeRepository,
	profileRepo repositories.ProfileRepository,
	slugService SlugService,
	notificationService NotificationService,
) EventService {
	return &eventService{
		eventRepo:           eventRepo,
		attendeeRepo:        attendeeRepo,
		profileRepo:         profileRepo,
		slugService:         slugService,
		notificationService: notificationService,
	}
}

func (s *eventService) CreateEvent(creatorID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	slug, err := s.slugService.Generate(SlugKindEvent, req.Title)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		CreatorID:     creatorID,
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		StartsAt:      req.StartsAt,
		ShareableSlug: slug,
		ImageURL:      req.ImageURL,
		Status:        models.EventStatusActive,
	}
	if err := s.eventRepo.Create(event); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildEventResponse(event, nil), nil
}

func (s *eventService) GetEvent(eventID string) (*dto.EventResponse, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return s.loadWithAttendees(event)
}

func (s *eventService) GetEventBySlug(slug string) (*dto.EventResponse, error) {
	event, err := s.eventRepo.FindBySlug(slug)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return s.loadWithAttendees(event)
}

func (s *eventService) ListCreatedEvents(userID string) ([]*dto.EventResponse, error) {
	events, err := s.eventRepo.FindByCreator(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.buildEventResponses(events), nil
}

func (s *eventService) ListInvitedEvents(userID string) ([]*dto.EventResponse, error) {
	events, err := s.eventRepo.FindByInvitee(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.buildEventResponses(events), nil
}

// UpdateEvent applies the change, then fans a notification out to the
// attendees. The fan-out is not transactional with the update: the
// event row is the source of truth and a missed notification is
// acceptable.
func (s *eventService) UpdateEvent(userID, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.requireCreator(userID, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventStatusCancelled {
		return nil, apperrors.ErrEventCancelled
	}

	changes := collectChanges(event, req)
	if len(changes) == 0 {
		return s.loadWithAttendees(event)
	}

	if err := s.eventRepo.Update(event); err != nil {
		return nil, apperrors.InternalError(err)
	}

	for _, change := range changes {
		if err := s.notificationService.NotifyEventChange(event.ID, EventChangeUpdate, change); err != nil {
			logger.WithError(err).Warn("event update fan-out failed", "event_id", event.ID, "field", change.Field)
		}
	}

	return s.loadWithAttendees(event)
}

func (s *eventService) CancelEvent(userID, eventID string) error {
	event, err := s.requireCreator(userID, eventID)
	if err != nil {
		return err
	}
	if event.Status == models.EventStatusCancelled {
		return apperrors.ErrEventCancelled
	}

	if err := s.eventRepo.UpdateStatus(event.ID, models.EventStatusCancelled); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.notificationService.NotifyEventChange(event.ID, EventChangeCancellation, EventChangeDetails{}); err != nil {
		logger.WithError(err).Warn("event cancellation fan-out failed", "event_id", event.ID)
	}
	return nil
}

// InviteUsers adds the given users as pending attendees. Users already
// attending are skipped rather than rejected so re-inviting a partially
// overlapping list succeeds.
func (s *eventService) InviteUsers(userID, eventID string, req *dto.InviteRequest) error {
	event, err := s.requireCreator(userID, eventID)
	if err != nil {
		return err
	}
	if event.Status == models.EventStatusCancelled {
		return apperrors.ErrEventCancelled
	}

	existing, err := s.attendeeRepo.FindByEvent(event.ID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	already := make(map[string]bool, len(existing))
	for _, a := range existing {
		already[a.UserID] = true
	}

	var attendees []*models.Attendee
	var recipientIDs []string
	for _, inviteeID := range req.UserIDs {
		if inviteeID == event.CreatorID || already[inviteeID] {
			continue
		}
		already[inviteeID] = true
		attendees = append(attendees, &models.Attendee{
			EventID: event.ID,
			UserID:  inviteeID,
			Status:  models.AttendeeStatusPending,
		})
		recipientIDs = append(recipientIDs, inviteeID)
	}
	if len(attendees) == 0 {
		return nil
	}

	if err := s.attendeeRepo.CreateBatch(attendees); err != nil {
		return apperrors.InternalError(err)
	}

	inviterName := s.displayName(userID)
	if err := s.notificationService.NotifyEventInvites(event, inviterName, recipientIDs); err != nil {
		logger.WithError(err).Warn("invite notifications failed", "event_id", event.ID)
	}
	return nil
}

// Respond records a going/declined answer for an invited user and
// notifies the creator. A repeat answer flips updated_going so the
// creator can tell a changed mind from a first response.
func (s *eventService) Respond(userID, eventID string, req *dto.RespondRequest) error {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if event.Status == models.EventStatusCancelled {
		return apperrors.ErrEventCancelled
	}

	attendee, err := s.attendeeRepo.FindByEventAndUser(eventID, userID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	status := models.AttendeeStatusDeclined
	if req.Going {
		status = models.AttendeeStatusGoing
	}
	updatedGoing := attendee.Status != models.AttendeeStatusPending

	if err := s.attendeeRepo.UpdateStatus(eventID, userID, status, updatedGoing); err != nil {
		return apperrors.InternalError(err)
	}

	responderName := s.displayName(userID)
	if err := s.notificationService.NotifyInviteResponse(event, responderName, req.Going); err != nil {
		logger.WithError(err).Warn("invite response notification failed", "event_id", event.ID)
	}
	return nil
}

func (s *eventService) requireCreator(userID, eventID string) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if event.CreatorID != userID {
		return nil, apperrors.ErrNotEventCreator
	}
	return event, nil
}

func (s *eventService) displayName(userID string) string {
	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		return "Someone"
	}
	if profile.FullName != "" {
		return profile.FullName
	}
	return profile.Username
}

func (s *eventService) loadWithAttendees(event *models.Event) (*dto.EventResponse, error) {
	attendees, err := s.attendeeRepo.FindByEvent(event.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.buildEventResponse(event, attendees), nil
}

func (s *eventService) buildEventResponses(events []models.Event) []*dto.EventResponse {
	responses := make([]*dto.EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, s.buildEventResponse(&events[i], nil))
	}
	return responses
}

func (s *eventService) buildEventResponse(event *models.Event, attendees []models.Attendee) *dto.EventResponse {
	response := &dto.EventResponse{
		ID:            event.ID,
		CreatorID:     event.CreatorID,
		Title:         event.Title,
		Description:   event.Description,
		Location:      event.Location,
		StartsAt:      event.StartsAt,
		ShareableSlug: event.ShareableSlug,
		ImageURL:      event.ImageURL,
		Status:        string(event.Status),
		CreatedAt:     event.CreatedAt,
	}

	if len(attendees) > 0 {
		userIDs := make([]string, 0, len(attendees))
		for _, a := range attendees {
			userIDs = append(userIDs, a.UserID)
		}
		byUserID := make(map[string]*models.Profile)
		if profiles, err := s.profileRepo.FindByUserIDs(userIDs); err == nil {
			for i := range profiles {
				byUserID[profiles[i].UserID] = &profiles[i]
			}
		}

		for _, a := range attendees {
			item := dto.AttendeeResponse{
				UserID:       a.UserID,
				Status:       string(a.Status),
				UpdatedGoing: a.UpdatedGoing,
			}
			if profile, ok := byUserID[a.UserID]; ok {
				item.Username = profile.Username
				item.FullName = profile.FullName
			}
			response.Attendees = append(response.Attendees, item)
		}
	}

	return response
}

// collectChanges diffs the request against the stored row, mutating the
// row in place and returning one entry per changed field.
func collectChanges(event *models.Event, req *dto.UpdateEventRequest) []EventChangeDetails {
	var changes []EventChangeDetails

	if req.Title != nil && *req.Title != event.Title {
		changes = append(changes, EventChangeDetails{Field: "title", OldValue: event.Title, NewValue: *req.Title})
		event.Title = *req.Title
	}
	if req.Location != nil && *req.Location != event.Location {
		changes = append(changes, EventChangeDetails{Field: "location", OldValue: event.Location, NewValue: *req.Location})
		event.Location = *req.Location
	}
	if req.StartsAt != nil && !req.StartsAt.Equal(event.StartsAt) {
		changes = append(changes, EventChangeDetails{
			Field:    "starts_at",
			OldValue: event.StartsAt.Format(time.RFC3339),
			NewValue: req.StartsAt.Format(time.RFC3339),
		})
		event.StartsAt = *req.StartsAt
	}
	if req.ImageURL != nil && *req.ImageURL != event.ImageURL {
		changes = append(changes, EventChangeDetails{Field: "image_url", OldValue: event.ImageURL, NewValue: *req.ImageURL})
		event.ImageURL = *req.ImageURL
	}

	return changes
}
