package service

import (
	"strings"
	"unicode"

	"github.com/unihub-next/internal/config"
)

// validatePassword 按配置的密码策略校验明文密码
func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	minLength := policy.MinLength
	if minLength <= 0 {
		minLength = 6
	}
	if len(password) < minLength {
		return ErrWeakPassword
	}
	if strings.TrimSpace(password) == "" {
		return ErrWeakPassword
	}
	if policy.RequireNumber && !containsFunc(password, unicode.IsDigit) {
		return ErrWeakPassword
	}
	if policy.RequireLetter && !containsFunc(password, unicode.IsLetter) {
		return ErrWeakPassword
	}
	return nil
}

func containsFunc(value string, match func(rune) bool) bool {
	for _, r := range value {
		if match(r) {
			return true
		}
	}
	return false
}
