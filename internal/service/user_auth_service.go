package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/unihub-next/internal/cache"
	"github.com/unihub-next/internal/config"
	"github.com/unihub-next/internal/constants"
	"github.com/unihub-next/internal/logger"
	"github.com/unihub-next/internal/models"
	"github.com/unihub-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CodeDispatcher 验证码投递接口（邮件实现见 EmailService）
type CodeDispatcher interface {
	DispatchCode(email, code string) error
}

// SMSProvider 外部短信验证码服务接口
type SMSProvider interface {
	RequestCode(ctx context.Context, phone string) (sessionID string, err error)
	CheckCode(ctx context.Context, sessionID, code string) (bool, error)
}

// GoogleVerifier Google 凭证校验接口
type GoogleVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*GoogleTokenInfo, error)
}

// GoogleTokenInfo 校验通过后的 Google 账号信息
type GoogleTokenInfo struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
	Picture   string
}

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg            *config.Config
	db             *gorm.DB
	userRepo       repository.UserRepository
	pendingRepo    repository.PendingSignupRepository
	codeRepo       repository.OTPCodeRepository
	phoneRepo      repository.PhoneOTPRepository
	dispatcher     CodeDispatcher
	smsProvider    SMSProvider
	googleVerifier GoogleVerifier
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(
	cfg *config.Config,
	db *gorm.DB,
	userRepo repository.UserRepository,
	pendingRepo repository.PendingSignupRepository,
	codeRepo repository.OTPCodeRepository,
	phoneRepo repository.PhoneOTPRepository,
	dispatcher CodeDispatcher,
	smsProvider SMSProvider,
	googleVerifier GoogleVerifier,
) *UserAuthService {
	return &UserAuthService{
		cfg:            cfg,
		db:             db,
		userRepo:       userRepo,
		pendingRepo:    pendingRepo,
		codeRepo:       codeRepo,
		phoneRepo:      phoneRepo,
		dispatcher:     dispatcher,
		smsProvider:    smsProvider,
		googleVerifier: googleVerifier,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	TokenType    string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair 一次签发的访问/刷新 Token 对
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// InitiateSignup 发起注册：暂存申请并投递验证码
//
// 暂存行与验证码行先落库、后投递，投递失败时保留已写入的状态，
// 调用方可直接走重发流程恢复。
func (s *UserAuthService) InitiateSignup(firstName, lastName, email, password string) error {
	if s.dispatcher == nil {
		return ErrEmailServiceNotConfigured
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if exist != nil {
		return ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	pending := &models.PendingSignup{
		Email:        normalized,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.pendingRepo.Upsert(pending); err != nil {
		return err
	}

	return s.issueAndDispatchCode(normalized)
}

// ResendCode 重发验证码：总是签发新码，旧码保留但作废于"只认最新"规则
func (s *UserAuthService) ResendCode(email string) error {
	if s.dispatcher == nil {
		return ErrEmailServiceNotConfigured
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	pending, err := s.pendingRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if pending == nil {
		return ErrNoPendingSignup
	}

	return s.issueAndDispatchCode(normalized)
}

// VerifySignup 校验验证码并把暂存申请晋升为正式账号
func (s *UserAuthService) VerifySignup(email, code string) (*models.User, *TokenPair, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, err
	}

	if err := s.verifyLatestCode(normalized, code); err != nil {
		return nil, nil, err
	}

	pending, err := s.pendingRepo.GetByEmail(normalized)
	if err != nil {
		return nil, nil, err
	}
	if pending == nil {
		return nil, nil, ErrNoPendingSignup
	}

	now := time.Now()
	user := &models.User{
		Email:        pending.Email,
		Username:     pending.Email,
		FirstName:    pending.FirstName,
		LastName:     pending.LastName,
		PasswordHash: pending.PasswordHash, // 发起注册时已哈希，这里原样落库
		Provider:     constants.LoginProviderEmail,
		Status:       constants.UserStatusActive,
		LastLoginAt:  &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 晋升在一个事务里完成：建号、清暂存、清验证码要么全部生效要么全部回滚。
	// 并发晋升只靠 users.email 唯一约束裁决，先到者成功，后到者拿到重复键错误。
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if err := tx.Where("email = ?", normalized).Delete(&models.PendingSignup{}).Error; err != nil {
			return err
		}
		return tx.Where("email = ?", normalized).Delete(&models.OTPCode{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrAccountExists
		}
		return nil, nil, err
	}

	pair, err := s.GenerateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, pair, nil
}

// Login 邮箱密码登录
//
// 账号不存在与密码错误返回同一个错误，避免暴露邮箱是否注册。
func (s *UserAuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	// OAuth 账号 PasswordHash 为空，bcrypt 比较必然失败，密码登录天然关闭
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, nil, ErrUserDisabled
	}

	pair, err := s.GenerateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		return nil, nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, pair, nil
}

// LoginWithGoogle Google 凭证登录，按邮箱取或建账号
func (s *UserAuthService) LoginWithGoogle(ctx context.Context, idToken string) (*models.User, *TokenPair, error) {
	if s.googleVerifier == nil {
		return nil, nil, ErrOAuthNotConfigured
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, nil, ErrInvalidGoogleToken
	}

	info, err := s.googleVerifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, nil, ErrInvalidGoogleToken
	}
	normalized, err := normalizeEmail(info.Email)
	if err != nil {
		return nil, nil, ErrInvalidGoogleToken
	}

	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		now := time.Now()
		user = &models.User{
			Email:     normalized,
			Username:  normalized,
			FirstName: info.FirstName,
			LastName:  info.LastName,
			Provider:  constants.LoginProviderOAuth,
			GoogleID:  info.Subject,
			AvatarURL: info.Picture,
			Status:    constants.UserStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.userRepo.Create(user); err != nil {
			// 并发首登撞上唯一约束：回读赢家的行，语义仍是取或建
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				user, err = s.userRepo.GetByEmail(normalized)
				if err != nil {
					return nil, nil, err
				}
				if user == nil {
					return nil, nil, ErrInvalidGoogleToken
				}
			} else {
				return nil, nil, err
			}
		}
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, nil, ErrUserDisabled
	}

	pair, err := s.GenerateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		return nil, nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, pair, nil
}

// RequestPhoneCode 请求手机验证码，会话标识按手机号覆盖保存
func (s *UserAuthService) RequestPhoneCode(ctx context.Context, phone string) error {
	if s.smsProvider == nil {
		return ErrSMSServiceNotConfigured
	}
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return ErrInvalidArgument
	}

	sessionID, err := s.smsProvider.RequestCode(ctx, trimmed)
	if err != nil {
		logger.Warnw("sms_request_code_failed", "phone", trimmed, "error", err)
		return ErrSMSProviderFailed
	}

	now := time.Now()
	return s.phoneRepo.UpsertSession(&models.PhoneOTPSession{
		Phone:     trimmed,
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// VerifyPhoneCode 校验手机验证码
func (s *UserAuthService) VerifyPhoneCode(ctx context.Context, phone, code string) error {
	if s.smsProvider == nil {
		return ErrSMSServiceNotConfigured
	}
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return ErrInvalidArgument
	}

	session, err := s.phoneRepo.GetByPhone(trimmed)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotFound
	}

	ok, err := s.smsProvider.CheckCode(ctx, session.SessionID, strings.TrimSpace(code))
	if err != nil {
		logger.Warnw("sms_check_code_failed", "phone", trimmed, "error", err)
		return ErrSMSProviderFailed
	}
	if !ok {
		return ErrVerifyCodeInvalid
	}
	return nil
}

// GenerateTokenPair 签发访问/刷新 Token 对
func (s *UserAuthService) GenerateTokenPair(user *models.User) (*TokenPair, error) {
	accessToken, accessExpiresAt, err := s.generateToken(user, constants.TokenTypeAccess, resolveAccessExpireHours(s.cfg.UserJWT))
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiresAt, err := s.generateToken(user, constants.TokenTypeRefresh, resolveRefreshExpireHours(s.cfg.UserJWT))
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

// RefreshTokenPair 用刷新 Token 换发新的 Token 对
func (s *UserAuthService) RefreshTokenPair(refreshToken string) (*TokenPair, error) {
	claims, err := s.ParseUserJWT(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != constants.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrInvalidToken
	}
	if user.TokenInvalidBefore != nil && claims.IssuedAt != nil && claims.IssuedAt.Time.Before(*user.TokenInvalidBefore) {
		return nil, ErrInvalidToken
	}

	return s.GenerateTokenPair(user)
}

// Logout 全端登出：版本号自增使存量 Token 全部失效，并清掉鉴权缓存快照
func (s *UserAuthService) Logout(userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	now := time.Now()
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.DelUserAuthState(context.Background(), userID)
	return nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// GetUserByID 获取用户信息
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	return s.userRepo.GetByID(id)
}

func (s *UserAuthService) generateToken(user *models.User, tokenType string, expireHours int) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		TokenType:    tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// issueAndDispatchCode 签发验证码：先落库，后投递。
// 投递失败返回 ErrDeliveryFailed，已落库的码保留，可凭重发恢复。
func (s *UserAuthService) issueAndDispatchCode(email string) error {
	code, err := randomNumericCode(resolveCodeLength(s.cfg.Email.VerifyCode))
	if err != nil {
		return err
	}

	record := &models.OTPCode{
		Email:     email,
		Code:      code,
		CreatedAt: time.Now(),
	}
	if err := s.codeRepo.Create(record); err != nil {
		return err
	}

	if err := s.dispatcher.DispatchCode(email, code); err != nil {
		logger.Warnw("verify_code_dispatch_failed", "email", email, "error", err)
		return ErrDeliveryFailed
	}
	return nil
}

// verifyLatestCode 只认最新一条验证码：先比对，再判过期
func (s *UserAuthService) verifyLatestCode(email, code string) error {
	record, err := s.codeRepo.GetLatestByEmail(email)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrVerifyCodeInvalid
	}
	if strings.TrimSpace(record.Code) != strings.TrimSpace(code) {
		return ErrVerifyCodeInvalid
	}

	ttl := time.Duration(resolveExpireMinutes(s.cfg.Email.VerifyCode)) * time.Minute
	if time.Now().After(record.ExpiredAt(ttl)) {
		return ErrVerifyCodeExpired
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}

func resolveAccessExpireHours(cfg config.JWTConfig) int {
	if cfg.AccessExpireHours <= 0 {
		return 24
	}
	return cfg.AccessExpireHours
}

func resolveRefreshExpireHours(cfg config.JWTConfig) int {
	if cfg.RefreshExpireHours <= 0 {
		return 168
	}
	return cfg.RefreshExpireHours
}

func resolveExpireMinutes(cfg config.VerifyCodeConfig) int {
	if cfg.ExpireMinutes <= 0 {
		return 5
	}
	return cfg.ExpireMinutes
}

func resolveCodeLength(cfg config.VerifyCodeConfig) int {
	if cfg.Length < 4 || cfg.Length > 10 {
		return 6
	}
	return cfg.Length
}

func randomNumericCode(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String(), nil
}
