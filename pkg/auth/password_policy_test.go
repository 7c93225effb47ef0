package auth

import (
	"errors"
	"testing"

	"github.com/tendant/simple-blog/internal/config"
	"github.com/tendant/simple-blog/pkg/domain"
)

func TestPasswordPolicy_ValidatePassword(t *testing.T) {
	strict := PasswordPolicy{MinLength: 12, RequireUppercase: true, RequireLowercase: true, RequireNumber: true, RequireSpecial: true}

	tests := []struct {
		name     string
		policy   PasswordPolicy
		password string
		wantErr  bool
	}{
		{name: "no rules", password: "a"},
		{name: "no rules still rejects empty", password: "", wantErr: true},
		{name: "length met", policy: PasswordPolicy{MinLength: 5}, password: "pw123"},
		{name: "length short", policy: PasswordPolicy{MinLength: 6}, password: "pw123", wantErr: true},
		{name: "length counts characters", policy: PasswordPolicy{MinLength: 4}, password: "äöü", wantErr: true},
		{name: "uppercase missing", policy: PasswordPolicy{RequireUppercase: true}, password: "blogger", wantErr: true},
		{name: "lowercase missing", policy: PasswordPolicy{RequireLowercase: true}, password: "BLOGGER", wantErr: true},
		{name: "number missing", policy: PasswordPolicy{RequireNumber: true}, password: "Blogger", wantErr: true},
		{name: "special missing", policy: PasswordPolicy{RequireSpecial: true}, password: "Blogger1", wantErr: true},
		{name: "special present", policy: PasswordPolicy{RequireSpecial: true}, password: "Blogger1!"},
		{name: "all rules met", policy: strict, password: "Correct-Horse-9"},
		{name: "all rules one missing", policy: strict, password: "CorrectHorse9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrWeakPassword) {
				t.Errorf("ValidatePassword(%q) error = %v, want wrapped ErrWeakPassword", tt.password, err)
			}
		})
	}
}

func TestPasswordPolicy_ListsEveryUnmetRule(t *testing.T) {
	policy := PasswordPolicy{MinLength: 8, RequireNumber: true}

	err := policy.ValidatePassword("short")
	want := "password does not meet requirements: password must contain at least 8 characters, one number"
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}

func TestNewPasswordPolicy(t *testing.T) {
	policy := NewPasswordPolicy(config.PasswordPolicyConfig{MinLength: 10, RequireNumber: true})

	if policy.MinLength != 10 || !policy.RequireNumber {
		t.Errorf("policy = %+v, want MinLength 10 and RequireNumber", *policy)
	}
	if policy.RequireUppercase || policy.RequireLowercase || policy.RequireSpecial {
		t.Errorf("policy = %+v, unset rules must stay off", *policy)
	}
}

func TestPasswordPolicy_GetRequirements(t *testing.T) {
	tests := []struct {
		policy PasswordPolicy
		want   string
	}{
		{policy: PasswordPolicy{}, want: "No password requirements"},
		{policy: PasswordPolicy{MinLength: 8}, want: "Password must contain at least 8 characters"},
		{
			policy: PasswordPolicy{RequireLowercase: true, RequireSpecial: true},
			want:   "Password must contain one lowercase letter, one special character",
		},
	}

	for _, tt := range tests {
		if got := tt.policy.GetRequirements(); got != tt.want {
			t.Errorf("GetRequirements() = %q, want %q", got, tt.want)
		}
		if got, want := tt.policy.HasRequirements(), tt.want != "No password requirements"; got != want {
			t.Errorf("HasRequirements() = %v, want %v", got, want)
		}
	}
}
