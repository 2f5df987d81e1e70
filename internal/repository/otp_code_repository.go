package repository

import (
	"errors"
	"time"

	"github.com/unihub-next/internal/models"

	"gorm.io/gorm"
)

// OTPCodeRepository 邮箱验证码数据访问接口
type OTPCodeRepository interface {
	Create(code *models.OTPCode) error
	GetLatestByEmail(email string) (*models.OTPCode, error)
	DeleteByEmail(email string) error
	PurgeOlderThan(cutoff time.Time) error
}

// GormOTPCodeRepository GORM 实现
type GormOTPCodeRepository struct {
	db *gorm.DB
}

// NewOTPCodeRepository 创建验证码仓库
func NewOTPCodeRepository(db *gorm.DB) *GormOTPCodeRepository {
	return &GormOTPCodeRepository{db: db}
}

// Create 创建验证码记录（重发不覆盖旧行，始终追加）
func (r *GormOTPCodeRepository) Create(code *models.OTPCode) error {
	return r.db.Create(code).Error
}

// GetLatestByEmail 获取邮箱最新一条验证码记录，校验只认这一条
func (r *GormOTPCodeRepository) GetLatestByEmail(email string) (*models.OTPCode, error) {
	var record models.OTPCode
	if err := r.db.Where("email = ?", email).
		Order("created_at desc, id desc").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// DeleteByEmail 删除邮箱的全部验证码记录
func (r *GormOTPCodeRepository) DeleteByEmail(email string) error {
	return r.db.Where("email = ?", email).Delete(&models.OTPCode{}).Error
}

// PurgeOlderThan 清理指定时间之前签发的验证码
func (r *GormOTPCodeRepository) PurgeOlderThan(cutoff time.Time) error {
	return r.db.Where("created_at < ?", cutoff).Delete(&models.OTPCode{}).Error
}
