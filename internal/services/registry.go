package services

// ServiceContainer aggregates the service layer for handler wiring.
type ServiceContainer struct {
	Auth         AuthService
	Profile      ProfileService
	Event        EventService
	Friend       FriendService
	Notification NotificationService
	Upload       UploadService
}
