package models

import "time"

// ChatMessage 聊天消息表
type ChatMessage struct {
	ID         uint      `gorm:"primarykey" json:"id"`            // 主键
	SenderID   uint      `gorm:"index;not null" json:"sender_id"` // 发送者
	ReceiverID *uint     `gorm:"index" json:"receiver_id"`        // 接收者（为空表示公共频道）
	Text       string    `gorm:"not null" json:"text"`            // 消息内容
	IsRead     bool      `gorm:"default:false" json:"is_read"`    // 是否已读
	CreatedAt  time.Time `gorm:"index" json:"created_at"`         // 发送时间
}

// TableName 指定表名
func (ChatMessage) TableName() string {
	return "chat_messages"
}
