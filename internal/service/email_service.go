package service

import (
	"fmt"
	"strings"

	"github.com/unihub-next/internal/config"
	"github.com/unihub-next/internal/logger"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件发送服务，实现 CodeDispatcher
type EmailService struct {
	cfg config.EmailConfig
}

// NewEmailService 创建邮件服务，未启用或缺少 SMTP 配置时返回 nil
func NewEmailService(cfg config.EmailConfig) *EmailService {
	if !cfg.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.Host) == "" || strings.TrimSpace(cfg.From) == "" {
		logger.Warnw("email_service_incomplete_config")
		return nil
	}
	return &EmailService{cfg: cfg}
}

// DispatchCode 投递注册验证码邮件
func (s *EmailService) DispatchCode(email, code string) error {
	subject := "注册验证码"
	body := fmt.Sprintf("您的验证码是 %s，%d 分钟内有效。如非本人操作请忽略。", code, s.cfg.VerifyCode.ExpireMinutes)
	return s.send(email, subject, body)
}

func (s *EmailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.SSL = s.cfg.UseSSL

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email failed: %w", err)
	}
	return nil
}
