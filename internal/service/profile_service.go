package service

import (
	"strings"
	"time"

	"github.com/unihub-next/internal/models"
	"github.com/unihub-next/internal/repository"
)

// ProfileService 用户资料服务
type ProfileService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

// NewProfileService 创建用户资料服务
func NewProfileService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo, profileRepo: profileRepo}
}

// ProfileUpdateInput 资料更新入参，nil 字段表示不修改
type ProfileUpdateInput struct {
	Bio         *string
	Location    *string
	BirthDate   *time.Time
	PhoneNumber *string
	Website     *string
}

// GetProfile 获取用户资料，不存在则建一行空资料（取或建）
func (s *ProfileService) GetProfile(userID uint) (*models.Profile, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	profile = &models.Profile{UserID: userID, CreatedAt: now, UpdatedAt: now}
	if err := s.profileRepo.Create(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile 更新用户资料
func (s *ProfileService) UpdateProfile(userID uint, input ProfileUpdateInput) (*models.Profile, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if input.Bio != nil {
		profile.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.Location != nil {
		profile.Location = strings.TrimSpace(*input.Location)
	}
	if input.BirthDate != nil {
		profile.BirthDate = input.BirthDate
	}
	if input.PhoneNumber != nil {
		profile.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.Website != nil {
		profile.Website = strings.TrimSpace(*input.Website)
	}

	profile.UpdatedAt = time.Now()
	if err := s.profileRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
