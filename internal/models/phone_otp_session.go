package models

import "time"

// PhoneOTPSession 手机验证码会话表
//
// 一个手机号只保留一个活跃会话，重发按手机号覆盖 SessionID。
type PhoneOTPSession struct {
	ID        uint      `gorm:"primarykey" json:"id"`              // 主键
	Phone     string    `gorm:"uniqueIndex;not null" json:"phone"` // 手机号
	SessionID string    `gorm:"not null" json:"-"`                 // 短信服务商返回的会话标识
	CreatedAt time.Time `json:"created_at"`                        // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                        // 更新时间
}

// TableName 指定表名
func (PhoneOTPSession) TableName() string {
	return "phone_otp_sessions"
}
