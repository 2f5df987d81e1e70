package public

import (
	"strconv"

	"github.com/unihub-next/internal/http/response"
	"github.com/unihub-next/internal/logger"

	"github.com/gin-gonic/gin"
)

// getUserID 从请求上下文取登录用户 ID，缺失或类型不对时直接响应 401
func getUserID(c *gin.Context) (uint, bool) {
	value, ok := c.Get("user_id")
	if !ok {
		response.Unauthorized(c, "未登录")
		return 0, false
	}
	userID, ok := value.(uint)
	if !ok || userID == 0 {
		response.Unauthorized(c, "登录状态异常")
		return 0, false
	}
	return userID, true
}

// parseIDParam 解析路径中的数字 ID
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "参数不合法")
		return 0, false
	}
	return uint(id), true
}

// parsePageQuery 解析分页查询参数
func parsePageQuery(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// respondError 输出错误响应，服务端内部错误只记日志不外传细节
func respondError(c *gin.Context, code int, msg string, err error) {
	if code == response.CodeInternal {
		msg = "服务器开小差了，请稍后再试"
	}
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		logger.Errorw("handler_error",
			"path", c.FullPath(),
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}
