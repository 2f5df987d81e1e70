package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/unihub-next/internal/config"
)

// SMSService 外部短信验证码服务客户端，实现 SMSProvider
//
// 对接 2factor 风格的接口：
//   GET {base}/{api_key}/SMS/{phone}/AUTOGEN          -> 返回会话标识
//   GET {base}/{api_key}/SMS/VERIFY/{session}/{code}  -> 校验验证码
type SMSService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewSMSService 创建短信服务，未启用或缺少密钥时返回 nil
func NewSMSService(cfg config.SMSConfig) *SMSService {
	if !cfg.Enabled || strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	return &SMSService{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type smsAPIResponse struct {
	Status  string `json:"Status"`
	Details string `json:"Details"`
}

// RequestCode 请求服务商下发验证码，返回会话标识
func (s *SMSService) RequestCode(ctx context.Context, phone string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/SMS/%s/AUTOGEN", s.baseURL, s.apiKey, url.PathEscape(phone))
	resp, err := s.call(ctx, endpoint)
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(resp.Status, "Success") {
		return "", fmt.Errorf("sms provider rejected request: %s", resp.Details)
	}
	return resp.Details, nil
}

// CheckCode 向服务商校验验证码
func (s *SMSService) CheckCode(ctx context.Context, sessionID, code string) (bool, error) {
	endpoint := fmt.Sprintf("%s/%s/SMS/VERIFY/%s/%s", s.baseURL, s.apiKey, url.PathEscape(sessionID), url.PathEscape(code))
	resp, err := s.call(ctx, endpoint)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(resp.Status, "Success"), nil
}

func (s *SMSService) call(ctx context.Context, endpoint string) (*smsAPIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	httpResp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	var parsed smsAPIResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode sms provider response failed: %w", err)
	}
	return &parsed, nil
}
