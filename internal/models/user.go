package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                 // 主键
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`    // 邮箱（唯一约束是注册竞态的最终裁判）
	Username           string         `gorm:"uniqueIndex;not null" json:"username"` // 用户名
	FirstName          string         `gorm:"default:''" json:"first_name"`         // 名
	LastName           string         `gorm:"default:''" json:"last_name"`          // 姓
	PasswordHash       string         `gorm:"not null;default:''" json:"-"`         // 密码哈希（OAuth 用户为空，不返回给前端）
	Provider           string         `gorm:"default:'email'" json:"provider"`      // 注册来源（email/oauth）
	GoogleID           string         `gorm:"index;default:''" json:"-"`            // Google 账号标识
	AvatarURL          string         `gorm:"default:''" json:"avatar_url"`         // 头像地址
	Status             string         `gorm:"default:'active'" json:"status"`       // 账号状态
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`          // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                       // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                        // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`              // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
