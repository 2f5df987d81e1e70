package service

import (
	"errors"
	"testing"

	"github.com/unihub-next/internal/config"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		policy   config.PasswordPolicyConfig
		password string
		wantErr  bool
	}{
		{"默认策略通过", config.PasswordPolicyConfig{}, "passw0rd", false},
		{"长度不足", config.PasswordPolicyConfig{MinLength: 8}, "short1", true},
		{"全空白", config.PasswordPolicyConfig{MinLength: 6}, "       ", true},
		{"缺数字", config.PasswordPolicyConfig{MinLength: 6, RequireNumber: true}, "password", true},
		{"缺字母", config.PasswordPolicyConfig{MinLength: 6, RequireLetter: true}, "12345678", true},
		{"满足全部要求", config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true, RequireLetter: true}, "passw0rd", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(tc.policy, tc.password)
			if tc.wantErr && !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("want ErrWeakPassword got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("want nil got %v", err)
			}
		})
	}
}
