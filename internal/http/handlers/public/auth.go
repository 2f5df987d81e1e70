package public

import (
	"github.com/unihub-next/internal/http/response"
	"github.com/unihub-next/internal/models"
	"github.com/unihub-next/internal/service"

	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type resendCodeRequest struct {
	Email string `json:"email" binding:"required"`
}

type verifySignupRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type googleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type phoneCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type phoneVerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// Signup 发起注册
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数不合法")
		return
	}

	if err := h.UserAuthService.InitiateSignup(req.FirstName, req.LastName, req.Email, req.Password); err != nil {
		respondWithMappedError(c, err, signupErrorRules, response.CodeInternal, "")
		return
	}
	response.SuccessWithMsg(c, "验证码已发送", nil)
}

// ResendCode 重发验证码
func (h *Handler) ResendCode(c *gin.Context) {
	var req resendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数不合法")
		return
	}

	if err := h.UserAuthService.ResendCode(req.Email); err != nil {
		respondWithMappedError(c, err, resendCodeErrorRules, response.CodeInternal, "")
		return
	}
	response.SuccessWithMsg(c, "验证码已重新发送", nil)
}

// VerifySignup 校验验证码并完成注册
func (h *Handler) VerifySignup(c *gin.Context) {
	var req verifySignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数不合法")
		return
	}

	user, pair, err := h.UserAuthService.VerifySignup(req.Email, req.Code)
	if err != nil {
		respondWithMappedError(c, err, verifySignupErrorRules, response.CodeInternal, "")
		return
	}
	response.Success(c, authPayload(user, pair))
}

// Login 邮箱密码登录
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数不合法")
		return
	}

	user, pair, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "")
		return
	}
	response.Success(c, authPayload(user, pair))
}

// GoogleLogin Google 凭证登录
func (h *Handler) GoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数不合法")
		return
	}

	user, pair, err := h.UserAuthService.LoginWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		respondWithMappedError(c, err, googleLoginErrorRules, response.CodeInternal, "")
		return
	}
	response.Success(c, authPayload(user, pair))
}

// RefreshToken 刷新 Token 对
func (h *Handler) RefreshToken(c *gin.Context) {
	var req refreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数不合法")
		return
	}

	pair, err := h.UserAuthService.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		respondWithMappedError(c, err, refreshTokenErrorRules, response.CodeInternal, "")
		return
	}
	response.Success(c, pair)
}

// RequestPhoneCode 请求手机验证码
func (h *Handler) RequestPhoneCode(c *gin.Context) {
	var req phoneCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数不合法")
		return
	}

	if err := h.UserAuthService.RequestPhoneCode(c.Request.Context(), req.Phone); err != nil {
		respondWithMappedError(c, err, phoneCodeErrorRules, response.CodeInternal, "")
		return
	}
	response.SuccessWithMsg(c, "验证码已发送", nil)
}

// VerifyPhoneCode 校验手机验证码
func (h *Handler) VerifyPhoneCode(c *gin.Context) {
	var req phoneVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数不合法")
		return
	}

	if err := h.UserAuthService.VerifyPhoneCode(c.Request.Context(), req.Phone, req.Code); err != nil {
		respondWithMappedError(c, err, phoneCodeErrorRules, response.CodeInternal, "")
		return
	}
	response.SuccessWithMsg(c, "验证通过", nil)
}

// Logout 全端登出，使已签发的 Token 全部失效
func (h *Handler) Logout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.UserAuthService.Logout(userID); err != nil {
		respondWithMappedError(c, err, logoutErrorRules, response.CodeInternal, "")
		return
	}
	response.SuccessWithMsg(c, "已退出登录", nil)
}

// Me 当前登录用户信息
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "", err)
		return
	}
	if user == nil {
		response.NotFound(c, "用户不存在")
		return
	}
	response.Success(c, user)
}

func authPayload(user *models.User, pair *service.TokenPair) gin.H {
	return gin.H{
		"user":  user,
		"token": pair,
	}
}
