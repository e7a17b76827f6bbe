package services

import (
	"encoding/json"
	"fmt"

	"gatherly_backend/internal/logger"
	"gatherly_backend/internal/models"
	"gatherly_backend/internal/push"
	"gatherly_backend/internal/repositories"
	"gatherly_backend/internal/services/dto"
	"gatherly_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// EventChangeKind distinguishes the two fan-out shapes.
type EventChangeKind string

const (
	EventChangeUpdate       EventChangeKind = "update"
	EventChangeCancellation EventChangeKind = "cancellation"
)

// EventChangeDetails describes a single visible attribute change.
type EventChangeDetails struct {
	Field    string
	OldValue string
	NewValue string
}

type NotificationService interface {
	// Fan-out: one notification row per interested party for a change
	// to a shared event.
	NotifyEventChange(eventID string, changeKind EventChangeKind, details EventChangeDetails) error

	// Factory methods for direct notifications
	NotifyEventInvites(event *models.Event, inviterName string, recipientIDs []string) error
	NotifyInviteResponse(event *models.Event, responderName string, going bool) error
	NotifyFriendRequest(targetUserID, requesterName, requesterID string) error
	NotifyFriendAccepted(requesterID, accepterName, accepterID string) error

	// Recipient-facing operations
	GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
	MarkMultipleAsRead(userID string, notificationIDs []string) error
	InviteEventID(userID, notificationID string) (string, error)
	RespondToInvite(userID, notificationID string, response bool) error
	GetUnreadCount(userID string) (int64, error)
	GetPendingCounts(userID string) (*dto.PendingCountsResponse, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	eventRepo        repositories.EventRepository
	attendeeRepo     repositories.AttendeeRepository
	friendRepo       repositories.FriendRepository
	relay            push.Relay
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	eventRepo repositories.EventRepository,
	attendeeRepo repositories.AttendeeRepository,
	friendRepo repositories.FriendRepository,
	relay push.Relay,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		eventRepo:        eventRepo,
		attendeeRepo:     attendeeRepo,
		friendRepo:       friendRepo,
		relay:            relay,
	}
}

// ---------------- Fan-out ----------------

// NotifyEventChange enumerates the interested parties for an event
// change and batch-inserts one notification per party. Updates exclude
// the creator (the actor already knows); cancellations include every
// attendee. The batch insert and the triggering event mutation are two
// independent operations: this call never touches the event row.
func (s *notificationService) NotifyEventChange(eventID string, changeKind EventChangeKind, details EventChangeDetails) error {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	attendees, err := s.attendeeRepo.FindByEvent(eventID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	var title, body, notifType string
	switch changeKind {
	case EventChangeUpdate:
		title = "Event Updated"
		body = fmt.Sprintf("%s: %s changed: %s → %s", event.Title, details.Field, details.OldValue, details.NewValue)
		notifType = repositories.NotificationTypeEventUpdate
	case EventChangeCancellation:
		title = "Event Cancelled"
		body = fmt.Sprintf("%s has been cancelled", event.Title)
		notifType = repositories.NotificationTypeEventCancellation
	default:
		return apperrors.ErrInvalidOperation("notifications", fmt.Sprintf("unknown change kind: %s", changeKind))
	}

	var notifications []*models.Notification
	for _, attendee := range attendees {
		if changeKind == EventChangeUpdate && attendee.UserID == event.CreatorID {
			continue
		}

		payload := map[string]interface{}{
			"type":         string(notifType),
			"event_id":     event.ID,
			"recipient_id": attendee.UserID,
		}
		if changeKind == EventChangeUpdate {
			payload["field"] = details.Field
			payload["old_value"] = details.OldValue
			payload["new_value"] = details.NewValue
		}

		dataJSON, err := json.Marshal(payload)
		if err != nil {
			return apperrors.InternalError(err)
		}

		notifications = append(notifications, &models.Notification{
			UserID: attendee.UserID,
			Type:   notifType,
			Title:  title,
			Body:   body,
			Data:   datatypes.JSON(dataJSON),
		})
	}

	// Empty recipient set short-circuits to success with no writes.
	if len(notifications) == 0 {
		return nil
	}

	if err := s.notificationRepo.CreateBatch(notifications); err != nil {
		return apperrors.InternalError(err)
	}

	s.relayAll(notifications)
	return nil
}

// ---------------- Factory methods ----------------

func (s *notificationService) NotifyEventInvites(event *models.Event, inviterName string, recipientIDs []string) error {
	var notifications []*models.Notification
	for _, recipientID := range recipientIDs {
		dataJSON, err := json.Marshal(map[string]interface{}{
			"type":         repositories.NotificationTypeEventInvite,
			"event_id":     event.ID,
			"recipient_id": recipientID,
		})
		if err != nil {
			return apperrors.InternalError(err)
		}

		notifications = append(notifications, &models.Notification{
			UserID: recipientID,
			Type:   repositories.NotificationTypeEventInvite,
			Title:  "You're Invited",
			Body:   fmt.Sprintf("%s invited you to %s", inviterName, event.Title),
			Data:   datatypes.JSON(dataJSON),
		})
	}

	if len(notifications) == 0 {
		return nil
	}

	if err := s.notificationRepo.CreateBatch(notifications); err != nil {
		return apperrors.InternalError(err)
	}

	s.relayAll(notifications)
	return nil
}

func (s *notificationService) NotifyInviteResponse(event *models.Event, responderName string, going bool) error {
	verb := "is going to"
	if !going {
		verb = "can't make it to"
	}

	return s.createAndRelay(&models.Notification{
		UserID: event.CreatorID,
		Type:   repositories.NotificationTypeInviteResponse,
		Title:  "Invite Response",
		Body:   fmt.Sprintf("%s %s %s", responderName, verb, event.Title),
	}, map[string]interface{}{
		"type":     repositories.NotificationTypeInviteResponse,
		"event_id": event.ID,
		"going":    going,
	})
}

func (s *notificationService) NotifyFriendRequest(targetUserID, requesterName, requesterID string) error {
	return s.createAndRelay(&models.Notification{
		UserID: targetUserID,
		Type:   repositories.NotificationTypeFriendRequest,
		Title:  "Friend Request",
		Body:   fmt.Sprintf("%s wants to be your friend", requesterName),
	}, map[string]interface{}{
		"type":         repositories.NotificationTypeFriendRequest,
		"requester_id": requesterID,
	})
}

func (s *notificationService) NotifyFriendAccepted(requesterID, accepterName, accepterID string) error {
	return s.createAndRelay(&models.Notification{
		UserID: requesterID,
		Type:   repositories.NotificationTypeFriendAccepted,
		Title:  "Friend Request Accepted",
		Body:   fmt.Sprintf("%s accepted your friend request", accepterName),
	}, map[string]interface{}{
		"type":        repositories.NotificationTypeFriendAccepted,
		"accepter_id": accepterID,
	})
}

func (s *notificationService) createAndRelay(notification *models.Notification, payload map[string]interface{}) error {
	dataJSON, err := json.Marshal(payload)
	if err != nil {
		return apperrors.InternalError(err)
	}
	notification.Data = datatypes.JSON(dataJSON)

	if err := s.notificationRepo.Create(notification); err != nil {
		return apperrors.InternalError(err)
	}

	s.relayAll([]*models.Notification{notification})
	return nil
}

// relayAll forwards persisted rows to the push endpoint, best effort.
// Delivery failures are logged and never fail the triggering call.
func (s *notificationService) relayAll(notifications []*models.Notification) {
	for _, n := range notifications {
		var data map[string]interface{}
		if len(n.Data) > 0 {
			_ = json.Unmarshal(n.Data, &data)
		}

		delivered, err := s.relay.Relay(n.UserID, n.Title, n.Body, data)
		if err != nil {
			logger.WithError(err).Warn("push relay failed", "recipient_id", n.UserID, "type", n.Type)
			continue
		}
		if !delivered {
			logger.Debug("push not delivered", "recipient_id", n.UserID, "type", n.Type)
		}
	}
}

// ---------------- Recipient-facing operations ----------------

func (s *notificationService) GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error) {
	repoCriteria := repositories.NotificationCriteria{
		UnreadOnly: criteria.UnreadOnly,
		Type:       criteria.Type,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
	}

	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, repoCriteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var responses []*dto.NotificationResponse
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
		TotalPages:    calculateTotalPages(total, criteria.PageSize),
	}, nil
}

// MarkAsRead is idempotent; read is monotonic and never reverts.
func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if notification.UserID != userID {
		return apperrors.NewForbiddenError("Notification belongs to another user")
	}
	return s.notificationRepo.MarkAsRead(notificationID)
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	return s.notificationRepo.MarkAllAsRead(userID)
}

func (s *notificationService) MarkMultipleAsRead(userID string, notificationIDs []string) error {
	for _, notificationID := range notificationIDs {
		notification, err := s.notificationRepo.FindByID(notificationID)
		if err != nil {
			return apperrors.ErrNotFound(err)
		}
		if notification.UserID != userID {
			return apperrors.NewForbiddenError("Notification belongs to another user")
		}
	}
	return s.notificationRepo.MarkMultipleAsRead(notificationIDs)
}

// InviteEventID validates that the notification is an invite addressed
// to the user and returns the event it points at. Callers run the
// answer through the event respond flow so the attendee row moves off
// pending; RespondToInvite only records the answer on the row itself.
func (s *notificationService) InviteEventID(userID, notificationID string) (string, error) {
	notification, err := s.inviteFor(userID, notificationID)
	if err != nil {
		return "", err
	}

	var data struct {
		EventID string `json:"event_id"`
	}
	if err := json.Unmarshal(notification.Data, &data); err != nil || data.EventID == "" {
		return "", apperrors.ErrInvalidOperation("notifications", "Invite notification carries no event reference")
	}
	return data.EventID, nil
}

// RespondToInvite records an accept/decline answer on the invite
// notification row itself and marks it read. The attendee row is
// updated separately through the event respond flow.
func (s *notificationService) RespondToInvite(userID, notificationID string, response bool) error {
	if _, err := s.inviteFor(userID, notificationID); err != nil {
		return err
	}

	if err := s.notificationRepo.SetResponse(notificationID, response); err != nil {
		return apperrors.InternalError(err)
	}
	return s.notificationRepo.MarkAsRead(notificationID)
}

func (s *notificationService) inviteFor(userID, notificationID string) (*models.Notification, error) {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if notification.UserID != userID {
		return nil, apperrors.NewForbiddenError("Notification belongs to another user")
	}
	if notification.Type != repositories.NotificationTypeEventInvite {
		return nil, apperrors.ErrInvalidOperation("notifications", "Only invite notifications accept a response")
	}
	return notification, nil
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	return s.notificationRepo.GetUnreadCount(userID)
}

// GetPendingCounts backs the mobile client's fixed-interval poll. The
// three counts are independent queries; the poll tolerates slight skew
// between them.
func (s *notificationService) GetPendingCounts(userID string) (*dto.PendingCountsResponse, error) {
	invites, err := s.attendeeRepo.CountPendingForUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	requests, err := s.friendRepo.CountPendingFor(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	unread, err := s.notificationRepo.GetUnreadCount(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PendingCountsResponse{
		PendingInvites:      invites,
		PendingRequests:     requests,
		UnreadNotifications: unread,
	}, nil
}

// ---------------- Helpers ----------------

func buildNotificationResponse(notification *models.Notification) *dto.NotificationResponse {
	response := &dto.NotificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Type:      notification.Type,
		Title:     notification.Title,
		Body:      notification.Body,
		Read:      notification.Read,
		ReadAt:    notification.ReadAt,
		Response:  notification.Response,
		CreatedAt: notification.CreatedAt,
	}

	if len(notification.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(notification.Data, &data); err == nil {
			response.Data = data
		}
	}

	return response
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
