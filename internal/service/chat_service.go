package service

import (
	"strings"
	"time"

	"github.com/unihub-next/internal/models"
	"github.com/unihub-next/internal/repository"
)

// ChatService 聊天消息服务
type ChatService struct {
	messageRepo repository.ChatMessageRepository
	userRepo    repository.UserRepository
}

// NewChatService 创建聊天消息服务
func NewChatService(messageRepo repository.ChatMessageRepository, userRepo repository.UserRepository) *ChatService {
	return &ChatService{messageRepo: messageRepo, userRepo: userRepo}
}

// SendMessage 落库一条消息，receiverID 为空表示公共频道
func (s *ChatService) SendMessage(senderID uint, receiverID *uint, text string) (*models.ChatMessage, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrInvalidArgument
	}
	sender, err := s.userRepo.GetByID(senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, ErrNotFound
	}
	if receiverID != nil {
		receiver, err := s.userRepo.GetByID(*receiverID)
		if err != nil {
			return nil, err
		}
		if receiver == nil {
			return nil, ErrNotFound
		}
	}

	message := &models.ChatMessage{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       trimmed,
		CreatedAt:  time.Now(),
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}
	return message, nil
}

// ListMessages 查询消息列表
func (s *ChatService) ListMessages(filter repository.ChatMessageListFilter) ([]models.ChatMessage, int64, error) {
	return s.messageRepo.List(filter)
}

// MarkRead 批量标记已读
func (s *ChatService) MarkRead(messageIDs []uint) error {
	return s.messageRepo.MarkRead(messageIDs)
}
