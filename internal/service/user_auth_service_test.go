package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/unihub-next/internal/config"
	"github.com/unihub-next/internal/constants"
	"github.com/unihub-next/internal/models"
	"github.com/unihub-next/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var authTestDBSeq int64

type fakeDispatcher struct {
	sent []sentCode
	fail bool
}

type sentCode struct {
	email string
	code  string
}

func (d *fakeDispatcher) DispatchCode(email, code string) error {
	if d.fail {
		return errors.New("smtp unreachable")
	}
	d.sent = append(d.sent, sentCode{email: email, code: code})
	return nil
}

func (d *fakeDispatcher) lastCode(t *testing.T) string {
	t.Helper()
	if len(d.sent) == 0 {
		t.Fatalf("no code dispatched")
	}
	return d.sent[len(d.sent)-1].code
}

type fakeSMSProvider struct {
	nextSession string
	acceptCode  string
	requestErr  error
	checkErr    error
	checked     []string
}

func (p *fakeSMSProvider) RequestCode(ctx context.Context, phone string) (string, error) {
	if p.requestErr != nil {
		return "", p.requestErr
	}
	return p.nextSession, nil
}

func (p *fakeSMSProvider) CheckCode(ctx context.Context, sessionID, code string) (bool, error) {
	if p.checkErr != nil {
		return false, p.checkErr
	}
	p.checked = append(p.checked, sessionID)
	return code == p.acceptCode, nil
}

type fakeGoogleVerifier struct {
	info *GoogleTokenInfo
	err  error
}

func (v *fakeGoogleVerifier) VerifyIDToken(ctx context.Context, idToken string) (*GoogleTokenInfo, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.info, nil
}

type authTestEnv struct {
	svc        *UserAuthService
	db         *gorm.DB
	userRepo   repository.UserRepository
	codeRepo   repository.OTPCodeRepository
	pending    repository.PendingSignupRepository
	dispatcher *fakeDispatcher
	sms        *fakeSMSProvider
	google     *fakeGoogleVerifier
}

func setupUserAuthServiceTest(t *testing.T) *authTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%d?mode=memory&cache=shared", atomic.AddInt64(&authTestDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.PendingSignup{}, &models.OTPCode{}, &models.PhoneOTPSession{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.UserJWT = config.JWTConfig{
		SecretKey:          "unit-test-secret-key-0123456789abcdef",
		AccessExpireHours:  24,
		RefreshExpireHours: 168,
	}
	cfg.Email.VerifyCode = config.VerifyCodeConfig{ExpireMinutes: 5, Length: 6}
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{MinLength: 6}

	env := &authTestEnv{
		db:         db,
		userRepo:   repository.NewUserRepository(db),
		codeRepo:   repository.NewOTPCodeRepository(db),
		pending:    repository.NewPendingSignupRepository(db),
		dispatcher: &fakeDispatcher{},
		sms:        &fakeSMSProvider{nextSession: "session-1", acceptCode: "424242"},
		google:     &fakeGoogleVerifier{},
	}
	env.svc = NewUserAuthService(
		cfg,
		db,
		env.userRepo,
		env.pending,
		env.codeRepo,
		repository.NewPhoneOTPRepository(db),
		env.dispatcher,
		env.sms,
		env.google,
	)
	return env
}

func TestSignupVerifyPromotesPendingToUser(t *testing.T) {
	env := setupUserAuthServiceTest(t)

	if err := env.svc.InitiateSignup("San", "Zhang", "Zhang.San@Example.com ", "passw0rd"); err != nil {
		t.Fatalf("initiate signup failed: %v", err)
	}

	pending, err := env.pending.GetByEmail("zhang.san@example.com")
	if err != nil || pending == nil {
		t.Fatalf("pending signup not staged: %v", err)
	}
	stagedHash := pending.PasswordHash

	user, pair, err := env.svc.VerifySignup("zhang.san@example.com", env.dispatcher.lastCode(t))
	if err != nil {
		t.Fatalf("verify signup failed: %v", err)
	}
	if user.Email != "zhang.san@example.com" {
		t.Fatalf("email want zhang.san@example.com got %s", user.Email)
	}
	// 晋升时密码哈希必须原样搬运，不允许二次哈希
	if user.PasswordHash != stagedHash {
		t.Fatalf("password hash changed during promotion")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("passw0rd")) != nil {
		t.Fatalf("promoted hash does not match original password")
	}
	if pair == nil || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("token pair not issued")
	}

	claims, err := env.svc.ParseUserJWT(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.TokenType != constants.TokenTypeAccess {
		t.Fatalf("unexpected access claims: %+v", claims)
	}

	// 晋升后暂存和验证码必须清空
	pending, err = env.pending.GetByEmail("zhang.san@example.com")
	if err != nil || pending != nil {
		t.Fatalf("pending signup not cleared after promotion")
	}
	latest, err := env.codeRepo.GetLatestByEmail("zhang.san@example.com")
	if err != nil || latest != nil {
		t.Fatalf("otp codes not cleared after promotion")
	}
}

func TestInitiateSignupRejectsWeakPasswordAndBadEmail(t *testing.T) {
	env := setupUserAuthServiceTest(t)

	if err := env.svc.InitiateSignup("A", "B", "a@example.com", "123"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("want ErrWeakPassword got %v", err)
	}
	if err := env.svc.InitiateSignup("A", "B", "not-an-email", "passw0rd"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("want ErrInvalidEmail got %v", err)
	}
	if len(env.dispatcher.sent) != 0 {
		t.Fatalf("no code should be dispatched for rejected signup")
	}
}

func TestInitiateSignupRejectsRegisteredEmail(t *testing.T) {
	env := setupUserAuthServiceTest(t)
	createActiveUser(t, env, "taken@example.com", "passw0rd")

	if err := env.svc.InitiateSignup("A", "B", "taken@example.com", "passw0rd"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("want ErrEmailExists got %v", err)
	}
}

func TestResendInvalidatesOlderCode(t *testing.T) {
	env := setupUserAuthServiceTest(t)

	if err := env.svc.InitiateSignup("A", "B", "a@example.com", "passw0rd"); err != nil {
		t.Fatalf("initiate signup failed: %v", err)
	}
	firstCode := env.dispatcher.lastCode(t)

	if err := env.svc.ResendCode("a@example.com"); err != nil {
		t.Fatalf("resend failed: %v", err)
	}
	secondCode := env.dispatcher.lastCode(t)

	// 重发后旧码作废，只认最新一条
	if _, _, err := env.svc.VerifySignup("a@example.com", firstCode); !errors.Is(err, ErrVerifyCodeInvalid) {
		if firstCode != secondCode {
			t.Fatalf("old code should be rejected, got %v", err)
		}
	}
	if _, _, err := env.svc.VerifySignup("a@example.com", secondCode); err != nil {
		t.Fatalf("latest code should verify, got %v", err)
	}
}

func TestResendWithoutPendingSignup(t *testing.T) {
	env := setupUserAuthServiceTest(t)

	if err := env.svc.ResendCode("nobody@example.com"); !errors.Is(err, ErrNoPendingSignup) {
		t.Fatalf("want ErrNoPendingSignup got %v", err)
	}
}

func TestVerifySignupExpiredCode(t *testing.T) {
	env := setupUserAuthServiceTest(t)

	if err := env.svc.InitiateSignup("A", "B", "a@example.com", "passw0rd"); err != nil {
		t.Fatalf("initiate signup failed: %v", err)
	}
	code := env.dispatcher.lastCode(t)

	// 把签发时间拨回过期线之外
	stale := time.Now().Add(-10 * time.Minute)
	if err := env.db.Model(&models.OTPCode{}).Where("email = ?", "a@example.com").Update("created_at", stale).Error; err != nil {
		t.Fatalf("backdate code failed: %v", err)
	}

	if _, _, err := env.svc.VerifySignup("a@example.com", code); !errors.Is(err, ErrVerifyCodeExpired) {
		t.Fatalf("want ErrVerifyCodeExpired got %v", err)
	}
	// 码对不上时先报不正确，过期判定在比对之后
	if _, _, err := env.svc.VerifySignup("a@example.com", "000000x"); !errors.Is(err, ErrVerifyCodeInvalid) {
		t.Fatalf("mismatch should report invalid before expiry, got %v", err)
	}
}

func TestVerifySignupDuplicateAccount(t *testing.T) {
	env := setupUserAuthServiceTest(t)

	if err := env.svc.InitiateSignup("A", "B", "a@example.com", "passw0rd"); err != nil {
		t.Fatalf("initiate signup failed: %v", err)
	}
	// 验证前账号被并发流程抢先建好
	createActiveUser(t, env, "a@example.com", "otherpass1")

	if _, _, err := env.svc.VerifySignup("a@example.com", env.dispatcher.lastCode(t)); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("want ErrAccountExists got %v", err)
	}
}

func TestDeliveryFailureKeepsRecoverableState(t *testing.T) {
	env := setupUserAuthServiceTest(t)
	env.dispatcher.fail = true

	if err := env.svc.InitiateSignup("A", "B", "a@example.com", "passw0rd"); !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("want ErrDeliveryFailed got %v", err)
	}

	// 投递失败时暂存行和验证码行都已落库，重发即可恢复
	pending, err := env.pending.GetByEmail("a@example.com")
	if err != nil || pending == nil {
		t.Fatalf("pending signup should survive delivery failure")
	}
	record, err := env.codeRepo.GetLatestByEmail("a@example.com")
	if err != nil || record == nil {
		t.Fatalf("otp code should survive delivery failure")
	}

	env.dispatcher.fail = false
	if err := env.svc.ResendCode("a@example.com"); err != nil {
		t.Fatalf("resend after delivery failure: %v", err)
	}
	if _, _, err := env.svc.VerifySignup("a@example.com", env.dispatcher.lastCode(t)); err != nil {
		t.Fatalf("verify after recovery: %v", err)
	}
}

func TestLoginCredentialChecks(t *testing.T) {
	env := setupUserAuthServiceTest(t)
	createActiveUser(t, env, "a@example.com", "passw0rd")

	if _, _, err := env.svc.Login("a@example.com", "passw0rd"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// 账号不存在与密码错误必须返回同一个错误
	_, _, errUnknown := env.svc.Login("nobody@example.com", "passw0rd")
	_, _, errWrongPass := env.svc.Login("a@example.com", "wrongpass")
	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials for both, got %v / %v", errUnknown, errWrongPass)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	env := setupUserAuthServiceTest(t)
	user := createActiveUser(t, env, "a@example.com", "passw0rd")

	if err := env.db.Model(&models.User{}).Where("id = ?", user.ID).Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, err := env.svc.Login("a@example.com", "passw0rd"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("want ErrUserDisabled got %v", err)
	}
	// 密码错 + 账号禁用时不暴露禁用状态
	if _, _, err := env.svc.Login("a@example.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
}

func TestLoginRejectsOAuthOnlyAccount(t *testing.T) {
	env := setupUserAuthServiceTest(t)
	env.google.info = &GoogleTokenInfo{Subject: "sub-1", Email: "oauth@example.com", FirstName: "O", LastName: "Auth"}

	if _, _, err := env.svc.LoginWithGoogle(context.Background(), "token"); err != nil {
		t.Fatalf("google login failed: %v", err)
	}
	// OAuth 账号没有密码哈希，密码登录必然失败
	if _, _, err := env.svc.Login("oauth@example.com", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
}

func TestLoginWithGoogleGetOrCreate(t *testing.T) {
	env := setupUserAuthServiceTest(t)
	env.google.info = &GoogleTokenInfo{Subject: "sub-1", Email: "G.User@Example.com", FirstName: "G", LastName: "User", Picture: "https://example.com/p.png"}

	first, pair, err := env.svc.LoginWithGoogle(context.Background(), "token")
	if err != nil {
		t.Fatalf("first google login failed: %v", err)
	}
	if first.Email != "g.user@example.com" || first.Provider != constants.LoginProviderOAuth {
		t.Fatalf("unexpected created user: %+v", first)
	}
	if pair == nil || pair.AccessToken == "" {
		t.Fatalf("token pair not issued")
	}

	second, _, err := env.svc.LoginWithGoogle(context.Background(), "token")
	if err != nil {
		t.Fatalf("second google login failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second login should reuse account, got %d and %d", first.ID, second.ID)
	}

	env.google.err = errors.New("aud mismatch")
	if _, _, err := env.svc.LoginWithGoogle(context.Background(), "token"); !errors.Is(err, ErrInvalidGoogleToken) {
		t.Fatalf("want ErrInvalidGoogleToken got %v", err)
	}
}

func TestPhoneCodeFlow(t *testing.T) {
	env := setupUserAuthServiceTest(t)
	ctx := context.Background()

	if err := env.svc.RequestPhoneCode(ctx, " 13800138000 "); err != nil {
		t.Fatalf("request phone code failed: %v", err)
	}

	if err := env.svc.VerifyPhoneCode(ctx, "13800138000", "424242"); err != nil {
		t.Fatalf("verify phone code failed: %v", err)
	}
	if err := env.svc.VerifyPhoneCode(ctx, "13800138000", "999999"); !errors.Is(err, ErrVerifyCodeInvalid) {
		t.Fatalf("want ErrVerifyCodeInvalid got %v", err)
	}
	if err := env.svc.VerifyPhoneCode(ctx, "13900000000", "424242"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("verify without session want ErrNotFound got %v", err)
	}

	// 重复请求覆盖旧会话
	env.sms.nextSession = "session-2"
	if err := env.svc.RequestPhoneCode(ctx, "13800138000"); err != nil {
		t.Fatalf("re-request phone code failed: %v", err)
	}
	if err := env.svc.VerifyPhoneCode(ctx, "13800138000", "424242"); err != nil {
		t.Fatalf("verify against new session failed: %v", err)
	}
	if got := env.sms.checked[len(env.sms.checked)-1]; got != "session-2" {
		t.Fatalf("should check against latest session, got %s", got)
	}
}

func TestPhoneCodeProviderFailure(t *testing.T) {
	env := setupUserAuthServiceTest(t)
	env.sms.requestErr = errors.New("provider down")

	if err := env.svc.RequestPhoneCode(context.Background(), "13800138000"); !errors.Is(err, ErrSMSProviderFailed) {
		t.Fatalf("want ErrSMSProviderFailed got %v", err)
	}
}

func TestRefreshTokenPair(t *testing.T) {
	env := setupUserAuthServiceTest(t)
	user := createActiveUser(t, env, "a@example.com", "passw0rd")

	pair, err := env.svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("generate token pair failed: %v", err)
	}

	renewed, err := env.svc.RefreshTokenPair(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh token pair failed: %v", err)
	}
	if renewed.AccessToken == "" || renewed.RefreshToken == "" {
		t.Fatalf("renewed pair incomplete")
	}

	// 访问 Token 不能当刷新 Token 用
	if _, err := env.svc.RefreshTokenPair(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token should not refresh, got %v", err)
	}

	// token_version 变更后旧刷新 Token 作废
	if err := env.db.Model(&models.User{}).Where("id = ?", user.ID).Update("token_version", user.TokenVersion+1).Error; err != nil {
		t.Fatalf("bump token version failed: %v", err)
	}
	if _, err := env.svc.RefreshTokenPair(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("stale refresh token should fail, got %v", err)
	}
}

func TestLogoutInvalidatesTokens(t *testing.T) {
	env := setupUserAuthServiceTest(t)
	user := createActiveUser(t, env, "a@example.com", "passw0rd")

	pair, err := env.svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("generate token pair failed: %v", err)
	}

	if err := env.svc.Logout(user.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, err := env.svc.RefreshTokenPair(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh after logout should fail, got %v", err)
	}

	updated, err := env.userRepo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if updated.TokenVersion != user.TokenVersion+1 {
		t.Fatalf("token version = %d, want %d", updated.TokenVersion, user.TokenVersion+1)
	}
	if updated.TokenInvalidBefore == nil {
		t.Fatalf("token invalid before not set")
	}

	if err := env.svc.Logout(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("logout of unknown user should be not found, got %v", err)
	}
}

func createActiveUser(t *testing.T, env *authTestEnv, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := &models.User{
		Email:        email,
		Username:     email,
		PasswordHash: string(hash),
		Provider:     constants.LoginProviderEmail,
		Status:       constants.UserStatusActive,
	}
	if err := env.userRepo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}
