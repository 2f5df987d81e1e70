package repository

import (
	"errors"
	"time"

	"github.com/unihub-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PendingSignupRepository 待验证注册数据访问接口
type PendingSignupRepository interface {
	Upsert(pending *models.PendingSignup) error
	GetByEmail(email string) (*models.PendingSignup, error)
	DeleteByEmail(email string) error
	PurgeOlderThan(cutoff time.Time) error
}

// GormPendingSignupRepository GORM 实现
type GormPendingSignupRepository struct {
	db *gorm.DB
}

// NewPendingSignupRepository 创建待验证注册仓库
func NewPendingSignupRepository(db *gorm.DB) *GormPendingSignupRepository {
	return &GormPendingSignupRepository{db: db}
}

// Upsert 按邮箱写入，已存在则覆盖资料与密码哈希（后写覆盖先写）
func (r *GormPendingSignupRepository) Upsert(pending *models.PendingSignup) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "password_hash", "updated_at"}),
	}).Create(pending).Error
}

// GetByEmail 根据邮箱获取待验证记录
func (r *GormPendingSignupRepository) GetByEmail(email string) (*models.PendingSignup, error) {
	var pending models.PendingSignup
	if err := r.db.Where("email = ?", email).First(&pending).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pending, nil
}

// DeleteByEmail 删除邮箱对应的待验证记录
func (r *GormPendingSignupRepository) DeleteByEmail(email string) error {
	return r.db.Where("email = ?", email).Delete(&models.PendingSignup{}).Error
}

// PurgeOlderThan 清理指定时间之前未完成验证的记录
func (r *GormPendingSignupRepository) PurgeOlderThan(cutoff time.Time) error {
	return r.db.Where("updated_at < ?", cutoff).Delete(&models.PendingSignup{}).Error
}
