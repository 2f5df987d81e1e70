package models

import "time"

// PendingSignup 待验证注册暂存表
//
// 一个邮箱最多一行：重复发起注册按邮箱覆盖写入（后写覆盖先写）。
// 验证通过后整行晋升为 User 并删除。
type PendingSignup struct {
	ID           uint      `gorm:"primarykey" json:"id"`              // 主键
	Email        string    `gorm:"uniqueIndex;not null" json:"email"` // 邮箱
	FirstName    string    `gorm:"default:''" json:"first_name"`      // 名
	LastName     string    `gorm:"default:''" json:"last_name"`       // 姓
	PasswordHash string    `gorm:"not null" json:"-"`                 // 发起注册时已哈希，晋升时原样写入 users
	CreatedAt    time.Time `json:"created_at"`                        // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                        // 更新时间
}

// TableName 指定表名
func (PendingSignup) TableName() string {
	return "pending_signups"
}
