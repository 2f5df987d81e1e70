package models

import "time"

// OTPCode 邮箱验证码表
//
// 同一邮箱允许多行并存，校验只认最新一行；过期由 CreatedAt 推导，不单独存过期时间。
type OTPCode struct {
	ID        uint      `gorm:"primarykey" json:"id"`          // 主键
	Email     string    `gorm:"index;not null" json:"email"`   // 邮箱
	Code      string    `gorm:"not null" json:"-"`             // 6 位数字验证码
	CreatedAt time.Time `gorm:"index" json:"created_at"`       // 签发时间
}

// TableName 指定表名
func (OTPCode) TableName() string {
	return "otp_codes"
}

// ExpiredAt 给定有效期计算过期时间点
func (c *OTPCode) ExpiredAt(ttl time.Duration) time.Time {
	return c.CreatedAt.Add(ttl)
}
