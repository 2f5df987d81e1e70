package repository

import (
	"github.com/unihub-next/internal/models"

	"gorm.io/gorm"
)

// ChatMessageRepository 聊天消息数据访问接口
type ChatMessageRepository interface {
	Create(message *models.ChatMessage) error
	List(filter ChatMessageListFilter) ([]models.ChatMessage, int64, error)
	MarkRead(messageIDs []uint) error
}

// GormChatMessageRepository GORM 实现
type GormChatMessageRepository struct {
	db *gorm.DB
}

// NewChatMessageRepository 创建聊天消息仓库
func NewChatMessageRepository(db *gorm.DB) *GormChatMessageRepository {
	return &GormChatMessageRepository{db: db}
}

// Create 创建消息
func (r *GormChatMessageRepository) Create(message *models.ChatMessage) error {
	return r.db.Create(message).Error
}

// List 查询消息列表
func (r *GormChatMessageRepository) List(filter ChatMessageListFilter) ([]models.ChatMessage, int64, error) {
	query := r.db.Model(&models.ChatMessage{})

	if filter.SenderID > 0 {
		query = query.Where("sender_id = ?", filter.SenderID)
	}
	if filter.ReceiverID != nil {
		query = query.Where("receiver_id = ?", *filter.ReceiverID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var messages []models.ChatMessage
	if err := query.Order("created_at ASC, id ASC").Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// MarkRead 批量标记消息已读
func (r *GormChatMessageRepository) MarkRead(messageIDs []uint) error {
	if len(messageIDs) == 0 {
		return nil
	}
	return r.db.Model(&models.ChatMessage{}).
		Where("id IN ?", messageIDs).
		Update("is_read", true).Error
}
