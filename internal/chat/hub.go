package chat

import (
	"encoding/json"
	"time"

	"github.com/unihub-next/internal/constants"
	"github.com/unihub-next/internal/logger"
	"github.com/unihub-next/internal/models"
	"github.com/unihub-next/internal/service"
)

// InboundMessage 客户端发来的消息帧
type InboundMessage struct {
	Type       string `json:"type"`
	ReceiverID *uint  `json:"receiver_id"`
	Text       string `json:"text"`
}

// OutboundMessage 广播给客户端的消息帧
type OutboundMessage struct {
	Type       string    `json:"type"`
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	ReceiverID *uint     `json:"receiver_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// Hub 聊天连接枢纽：先落库再分发
//
// 私聊消息只投给收发双方的连接，公共消息广播给所有连接。
type Hub struct {
	chatService *service.ChatService

	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundEnvelope
}

type inboundEnvelope struct {
	client  *Client
	message InboundMessage
}

// NewHub 创建聊天枢纽
func NewHub(chatService *service.ChatService) *Hub {
	return &Hub{
		chatService: chatService,
		clients:     make(map[*Client]struct{}),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		inbound:     make(chan inboundEnvelope, 64),
	}
}

// Run 事件循环，由调用方在独立 goroutine 中启动
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case envelope := <-h.inbound:
			h.handleInbound(envelope)
		}
	}
}

func (h *Hub) handleInbound(envelope inboundEnvelope) {
	message, err := h.chatService.SendMessage(envelope.client.userID, envelope.message.ReceiverID, envelope.message.Text)
	if err != nil {
		logger.Warnw("chat_message_rejected", "sender_id", envelope.client.userID, "error", err)
		return
	}
	h.dispatch(message)
}

func (h *Hub) dispatch(message *models.ChatMessage) {
	payload, err := json.Marshal(OutboundMessage{
		Type:       constants.ChatMessageTypeChat,
		ID:         message.ID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Text:       message.Text,
		CreatedAt:  message.CreatedAt,
	})
	if err != nil {
		logger.Errorw("chat_message_marshal_failed", "error", err)
		return
	}

	for client := range h.clients {
		if message.ReceiverID != nil &&
			client.userID != message.SenderID &&
			client.userID != *message.ReceiverID {
			continue
		}
		select {
		case client.send <- payload:
		default:
			// 发送缓冲打满视为连接失活，直接踢掉
			delete(h.clients, client)
			close(client.send)
		}
	}
}
