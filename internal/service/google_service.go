package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/unihub-next/internal/config"
)

// GoogleService Google ID Token 校验客户端，实现 GoogleVerifier
//
// 通过 tokeninfo 接口校验签名并核对 aud/iss/exp。
type GoogleService struct {
	clientID     string
	tokenInfoURL string
	httpClient   *http.Client
}

// NewGoogleService 创建 Google 校验服务，未启用或缺少 client_id 时返回 nil
func NewGoogleService(cfg config.GoogleOAuthConfig) *GoogleService {
	if !cfg.Enabled || strings.TrimSpace(cfg.ClientID) == "" {
		return nil
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GoogleService{
		clientID:     strings.TrimSpace(cfg.ClientID),
		tokenInfoURL: strings.TrimSpace(cfg.TokenInfoURL),
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type googleTokenInfoResponse struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Audience      string `json:"aud"`
	Issuer        string `json:"iss"`
	Expiry        string `json:"exp"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// VerifyIDToken 校验 ID Token 并返回账号信息
func (s *GoogleService) VerifyIDToken(ctx context.Context, idToken string) (*GoogleTokenInfo, error) {
	endpoint := fmt.Sprintf("%s?id_token=%s", s.tokenInfoURL, url.QueryEscape(idToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	httpResp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo rejected token: status %d", httpResp.StatusCode)
	}

	var parsed googleTokenInfoResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode tokeninfo response failed: %w", err)
	}

	if parsed.Audience != s.clientID {
		return nil, fmt.Errorf("token audience mismatch")
	}
	switch parsed.Issuer {
	case "accounts.google.com", "https://accounts.google.com":
	default:
		return nil, fmt.Errorf("unexpected token issuer: %s", parsed.Issuer)
	}
	if exp, err := strconv.ParseInt(parsed.Expiry, 10, 64); err != nil || time.Now().Unix() >= exp {
		return nil, fmt.Errorf("token expired")
	}
	if strings.TrimSpace(parsed.Email) == "" || parsed.EmailVerified != "true" {
		return nil, fmt.Errorf("token email not verified")
	}

	return &GoogleTokenInfo{
		Subject:   parsed.Subject,
		Email:     parsed.Email,
		FirstName: parsed.GivenName,
		LastName:  parsed.FamilyName,
		Picture:   parsed.Picture,
	}, nil
}
