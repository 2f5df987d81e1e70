package service

import "errors"

// 业务错误哨兵，handler 层用 errors.Is 映射为响应码
var (
	ErrInvalidEmail       = errors.New("邮箱格式不正确")
	ErrWeakPassword       = errors.New("密码强度不足")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrNoPendingSignup    = errors.New("没有待验证的注册申请")
	ErrVerifyCodeInvalid  = errors.New("验证码不正确")
	ErrVerifyCodeExpired  = errors.New("验证码已过期")
	ErrAccountExists      = errors.New("账号已存在")
	ErrInvalidCredentials = errors.New("邮箱或密码不正确")
	ErrUserDisabled       = errors.New("账号已被禁用")
	ErrInvalidGoogleToken = errors.New("Google 凭证无效")
	ErrInvalidToken       = errors.New("无效的 token")
	ErrDeliveryFailed     = errors.New("验证码发送失败")
	ErrSMSProviderFailed  = errors.New("短信服务暂不可用")
	ErrNotFound           = errors.New("资源不存在")

	ErrEmailServiceNotConfigured = errors.New("邮件服务未配置")
	ErrSMSServiceNotConfigured   = errors.New("短信服务未配置")
	ErrOAuthNotConfigured        = errors.New("第三方登录未配置")

	ErrInvalidArgument = errors.New("参数不合法")
	ErrFileTooLarge    = errors.New("文件超过大小限制")
	ErrFileTypeInvalid = errors.New("文件类型不允许")
	ErrAlreadyApplied  = errors.New("已申请过该职位")
)
