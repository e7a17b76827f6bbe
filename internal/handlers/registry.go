package handlers

import "gatherly_backend/internal/services"

// AppHandlers bundles every HTTP handler for route registration.
type AppHandlers struct {
	Auth         *AuthHandler
	Profile      *ProfileHandler
	Event        *EventHandler
	Friend       *FriendHandler
	Notification *NotificationHandler
	Upload       *UploadHandler
}

func NewAppHandlers(container *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler()
	return &AppHandlers{
		Auth:         NewAuthHandler(base, container.Auth),
		Profile:      NewProfileHandler(base, container.Profile),
		Event:        NewEventHandler(base, container.Event),
		Friend:       NewFriendHandler(base, container.Friend),
		Notification: NewNotificationHandler(base, container.Notification, container.Event),
		Upload:       NewUploadHandler(base, container.Upload),
	}
}
