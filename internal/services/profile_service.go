package services

import (
	"errors"

	"gatherly_backend/internal/models"
	"gatherly_backend/internal/repositories"
	"gatherly_backend/internal/services/dto"
	"gatherly_backend/pkg/apperrors"
)

type ProfileService interface {
	CreateProfile(userID string, req *dto.CreateProfileRequest) (*dto.ProfileResponse, error)
	GetProfileByUserID(userID string) (*dto.ProfileResponse, error)
	GetProfileBySlug(slug string) (*dto.ProfileResponse, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	RegisterPushToken(userID string, req *dto.RegisterPushTokenRequest) error
	ClearPushToken(userID string) error
	MarkPushPromptSeen(userID string) error
	CompleteOnboarding(userID string) (*dto.ProfileResponse, error)
	SearchProfiles(query string, limit int) ([]*dto.ProfileResponse, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	slugService SlugService
}

func NewProfileService(profileRepo repositories.ProfileRepository, slugService SlugService) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		slugService: slugService,
	}
}

func (s *profileService) CreateProfile(userID string, req *dto.CreateProfileRequest) (*dto.ProfileResponse, error) {
	if existing, err := s.profileRepo.FindByUserID(userID); err == nil && existing != nil {
		return nil, apperrors.ErrConflict(nil, "profile", "User already has a profile")
	}

	slug, err := s.slugService.Generate(SlugKindProfile, req.Username)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		UserID:        userID,
		Username:      req.Username,
		FullName:      req.FullName,
		AvatarURL:     req.AvatarURL,
		ShareableSlug: slug,
	}

	if err := s.profileRepo.Create(profile); err != nil {
		if errors.Is(err, repositories.ErrUsernameAlreadyTaken) {
			return nil, apperrors.ErrConflict(err, "profile", "Username is already taken")
		}
		return nil, apperrors.InternalError(err)
	}

	return buildProfileResponse(profile), nil
}

func (s *profileService) GetProfileByUserID(userID string) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return buildProfileResponse(profile), nil
}

func (s *profileService) GetProfileBySlug(slug string) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindBySlug(slug)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return buildProfileResponse(profile), nil
}

func (s *profileService) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildProfileResponse(profile), nil
}

func (s *profileService) RegisterPushToken(userID string, req *dto.RegisterPushTokenRequest) error {
	if err := s.profileRepo.SetPushToken(userID, req.Token); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// ClearPushToken removes the registered device token, typically after
// the delivery endpoint reports the device unregistered.
func (s *profileService) ClearPushToken(userID string) error {
	if err := s.profileRepo.SetPushToken(userID, ""); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *profileService) MarkPushPromptSeen(userID string) error {
	if err := s.profileRepo.SetPushPromptSeen(userID); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *profileService) CompleteOnboarding(userID string) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	profile.OnboardingDone = true
	if err := s.profileRepo.Update(profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildProfileResponse(profile), nil
}

func (s *profileService) SearchProfiles(query string, limit int) ([]*dto.ProfileResponse, error) {
	profiles, err := s.profileRepo.Search(query, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, buildProfileResponse(&profiles[i]))
	}
	return responses, nil
}

func buildProfileResponse(profile *models.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:             profile.ID,
		UserID:         profile.UserID,
		Username:       profile.Username,
		FullName:       profile.FullName,
		AvatarURL:      profile.AvatarURL,
		ShareableSlug:  profile.ShareableSlug,
		OnboardingDone: profile.OnboardingDone,
		PushPromptSeen: profile.PushPromptSeen,
		CreatedAt:      profile.CreatedAt,
	}
}
