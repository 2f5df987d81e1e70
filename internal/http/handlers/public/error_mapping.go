package public

import (
	"errors"

	"github.com/unihub-next/internal/http/response"
	"github.com/unihub-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var signupErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "邮箱格式不正确"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, msg: "密码强度不足"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, msg: "邮箱已被注册"},
	{target: service.ErrEmailServiceNotConfigured, code: response.CodeInternal, msg: ""},
	{target: service.ErrDeliveryFailed, code: response.CodeInternal, msg: ""},
}

var resendCodeErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "邮箱格式不正确"},
	{target: service.ErrNoPendingSignup, code: response.CodeBadRequest, msg: "没有待验证的注册申请"},
	{target: service.ErrEmailServiceNotConfigured, code: response.CodeInternal, msg: ""},
	{target: service.ErrDeliveryFailed, code: response.CodeInternal, msg: ""},
}

var verifySignupErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "邮箱格式不正确"},
	{target: service.ErrVerifyCodeInvalid, code: response.CodeBadRequest, msg: "验证码不正确"},
	{target: service.ErrVerifyCodeExpired, code: response.CodeBadRequest, msg: "验证码已过期"},
	{target: service.ErrNoPendingSignup, code: response.CodeBadRequest, msg: "没有待验证的注册申请"},
	{target: service.ErrAccountExists, code: response.CodeBadRequest, msg: "账号已存在，请直接登录"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "邮箱或密码不正确"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, msg: "账号已被禁用"},
}

var googleLoginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidGoogleToken, code: response.CodeBadRequest, msg: "Google 凭证无效"},
	{target: service.ErrOAuthNotConfigured, code: response.CodeInternal, msg: ""},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, msg: "账号已被禁用"},
}

var phoneCodeErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidArgument, code: response.CodeBadRequest, msg: "参数不合法"},
	{target: service.ErrSMSServiceNotConfigured, code: response.CodeInternal, msg: ""},
	{target: service.ErrSMSProviderFailed, code: response.CodeInternal, msg: ""},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "请先请求验证码"},
	{target: service.ErrVerifyCodeInvalid, code: response.CodeBadRequest, msg: "验证码不正确"},
}

var logoutErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "用户不存在"},
}

var refreshTokenErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidToken, code: response.CodeUnauthorized, msg: "登录已失效，请重新登录"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, msg: "账号已被禁用"},
}
