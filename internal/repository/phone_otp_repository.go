package repository

import (
	"errors"

	"github.com/unihub-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PhoneOTPRepository 手机验证码会话数据访问接口
type PhoneOTPRepository interface {
	UpsertSession(session *models.PhoneOTPSession) error
	GetByPhone(phone string) (*models.PhoneOTPSession, error)
	DeleteByPhone(phone string) error
}

// GormPhoneOTPRepository GORM 实现
type GormPhoneOTPRepository struct {
	db *gorm.DB
}

// NewPhoneOTPRepository 创建手机验证码会话仓库
func NewPhoneOTPRepository(db *gorm.DB) *GormPhoneOTPRepository {
	return &GormPhoneOTPRepository{db: db}
}

// UpsertSession 按手机号写入会话，已存在则覆盖 SessionID
func (r *GormPhoneOTPRepository) UpsertSession(session *models.PhoneOTPSession) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"session_id", "updated_at"}),
	}).Create(session).Error
}

// GetByPhone 根据手机号获取会话
func (r *GormPhoneOTPRepository) GetByPhone(phone string) (*models.PhoneOTPSession, error) {
	var session models.PhoneOTPSession
	if err := r.db.Where("phone = ?", phone).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// DeleteByPhone 删除手机号对应的会话
func (r *GormPhoneOTPRepository) DeleteByPhone(phone string) error {
	return r.db.Where("phone = ?", phone).Delete(&models.PhoneOTPSession{}).Error
}
