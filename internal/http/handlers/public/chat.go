package public

import (
	"errors"
	"net/http"

	"github.com/unihub-next/internal/chat"
	"github.com/unihub-next/internal/http/response"
	"github.com/unihub-next/internal/logger"
	"github.com/unihub-next/internal/repository"
	"github.com/unihub-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 跨域控制交给 CORS 中间件，这里放行升级请求
	CheckOrigin: func(r *http.Request) bool { return true },
}

type sendMessageRequest struct {
	ReceiverID *uint  `json:"receiver_id"`
	Text       string `json:"text" binding:"required"`
}

type markReadRequest struct {
	MessageIDs []uint `json:"message_ids" binding:"required,min=1"`
}

// ListChatMessages 查询消息记录
func (h *Handler) ListChatMessages(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePageQuery(c)

	filter := repository.ChatMessageListFilter{Page: page, PageSize: pageSize}
	if c.Query("mine") == "true" {
		filter.SenderID = userID
	}

	messages, total, err := h.ChatService.ListMessages(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.SuccessWithPage(c, messages, response.BuildPagination(page, pageSize, total))
}

// SendChatMessage REST 方式发送消息
func (h *Handler) SendChatMessage(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数不合法")
		return
	}

	message, err := h.ChatService.SendMessage(userID, req.ReceiverID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidArgument):
			response.BadRequest(c, "消息内容不能为空")
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, "用户不存在")
		default:
			respondError(c, response.CodeInternal, "", err)
		}
		return
	}
	response.Success(c, message)
}

// MarkChatMessagesRead 批量标记消息已读
func (h *Handler) MarkChatMessagesRead(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}

	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数不合法")
		return
	}

	if err := h.ChatService.MarkRead(req.MessageIDs); err != nil {
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.SuccessWithMsg(c, "已标记", nil)
}

// ChatWebSocket 升级为 WebSocket 连接并接入聊天枢纽
func (h *Handler) ChatWebSocket(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnw("chat_upgrade_failed", "user_id", userID, "error", err)
		return
	}
	chat.NewClient(h.ChatHub, conn, userID)
}
