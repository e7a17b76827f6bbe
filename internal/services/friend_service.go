package services

import (
	"errors"

	"gatherly_backend/internal/logger"
	"gatherly_backend/internal/models"
	"gatherly_backend/internal/repositories"
	"gatherly_backend/internal/services/dto"
	"gatherly_backend/pkg/apperrors"
)

type FriendService interface {
	SendRequest(userID string, req *dto.FriendRequestRequest) error
	AcceptRequest(userID, friendshipID string) error
	DeclineRequest(userID, friendshipID string) error
	RemoveFriend(userID, friendID string) error
	ListFriends(userID string) ([]*dto.FriendResponse, error)
	ListPendingRequests(userID string) ([]*dto.FriendResponse, error)
}

type friendService struct {
	friendRepo          repositories.FriendRepository
	profileRepo         repositories.ProfileRepository
	notificationService NotificationService
}

func NewFriendService(
	friendRepo repositories.FriendRepository,
	profileRepo repositories.ProfileRepository,
	notificationService NotificationService,
) FriendService {
	return &friendService{
		friendRepo:          friendRepo,
		profileRepo:         profileRepo,
		notificationService: notificationService,
	}
}

func (s *friendService) SendRequest(userID string, req *dto.FriendRequestRequest) error {
	if userID == req.UserID {
		return apperrors.ErrCannotBefriendSelf
	}

	if _, err := s.profileRepo.FindByUserID(req.UserID); err != nil {
		return apperrors.ErrNotFound(err)
	}

	friendship := &models.Friendship{
		UserID:   userID,
		FriendID: req.UserID,
		Status:   models.FriendshipStatusPending,
	}
	if err := s.friendRepo.Create(friendship); err != nil {
		if errors.Is(err, repositories.ErrFriendshipAlreadyExists) {
			return apperrors.ErrConflict(err, "friends", "Friendship or pending request already exists")
		}
		return apperrors.InternalError(err)
	}

	requester, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		logger.WithError(err).Warn("requester profile missing, skipping notification", "user_id", userID)
		return nil
	}

	if err := s.notificationService.NotifyFriendRequest(req.UserID, requester.Username, userID); err != nil {
		logger.WithError(err).Warn("friend request notification failed", "friendship_id", friendship.ID)
	}
	return nil
}

func (s *friendService) AcceptRequest(userID, friendshipID string) error {
	friendship, err := s.findIncoming(userID, friendshipID)
	if err != nil {
		return err
	}

	if err := s.friendRepo.Accept(friendship.ID); err != nil {
		return apperrors.InternalError(err)
	}

	accepter, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		logger.WithError(err).Warn("accepter profile missing, skipping notification", "user_id", userID)
		return nil
	}

	if err := s.notificationService.NotifyFriendAccepted(friendship.UserID, accepter.Username, userID); err != nil {
		logger.WithError(err).Warn("friend accepted notification failed", "friendship_id", friendship.ID)
	}
	return nil
}

func (s *friendService) DeclineRequest(userID, friendshipID string) error {
	friendship, err := s.findIncoming(userID, friendshipID)
	if err != nil {
		return err
	}
	if err := s.friendRepo.Delete(friendship.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *friendService) RemoveFriend(userID, friendID string) error {
	friendship, err := s.friendRepo.FindPair(userID, friendID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if err := s.friendRepo.Delete(friendship.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *friendService) ListFriends(userID string) ([]*dto.FriendResponse, error) {
	friendships, err := s.friendRepo.FindFriends(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.buildFriendResponses(userID, friendships)
}

func (s *friendService) ListPendingRequests(userID string) ([]*dto.FriendResponse, error) {
	friendships, err := s.friendRepo.FindPendingFor(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.buildFriendResponses(userID, friendships)
}

// findIncoming loads a friendship and checks the caller is the party
// the request was sent to.
func (s *friendService) findIncoming(userID, friendshipID string) (*models.Friendship, error) {
	friendship, err := s.friendRepo.FindByID(friendshipID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if friendship.FriendID != userID {
		return nil, apperrors.NewForbiddenError("Friend request belongs to another user")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, apperrors.ErrInvalidStatus("friends", "Friend request is no longer pending")
	}
	return friendship, nil
}

// buildFriendResponses resolves the other party of each friendship and
// joins in their profile.
func (s *friendService) buildFriendResponses(userID string, friendships []models.Friendship) ([]*dto.FriendResponse, error) {
	otherIDs := make([]string, 0, len(friendships))
	for _, f := range friendships {
		otherIDs = append(otherIDs, otherParty(&f, userID))
	}

	profiles, err := s.profileRepo.FindByUserIDs(otherIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byUserID := make(map[string]*models.Profile, len(profiles))
	for i := range profiles {
		byUserID[profiles[i].UserID] = &profiles[i]
	}

	responses := make([]*dto.FriendResponse, 0, len(friendships))
	for i := range friendships {
		f := &friendships[i]
		response := &dto.FriendResponse{
			FriendshipID: f.ID,
			UserID:       otherParty(f, userID),
			Status:       string(f.Status),
			Since:        f.CreatedAt,
		}
		if profile, ok := byUserID[response.UserID]; ok {
			response.Username = profile.Username
			response.FullName = profile.FullName
			response.AvatarURL = profile.AvatarURL
		}
		responses = append(responses, response)
	}
	return responses, nil
}

func otherParty(f *models.Friendship, userID string) string {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}
