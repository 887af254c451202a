package services

import (
	"errors"
	"testing"
	"time"

	"github.com/HSouheill/yoga_blog_backend/security"
)

func TestAdminGateVerify(t *testing.T) {
	gate, err := NewAdminGate("2580", "", "test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		pin  string
		want error
	}{
		{pin: "2580", want: nil},
		{pin: "2581", want: ErrIncorrectPin},
		{pin: "258", want: ErrInvalidPinFormat},
		{pin: "25800", want: ErrInvalidPinFormat},
		{pin: "abcd", want: ErrInvalidPinFormat},
	}
	for _, tt := range tests {
		if err := gate.Verify(tt.pin); !errors.Is(err, tt.want) {
			t.Errorf("Verify(%q) = %v, want %v", tt.pin, err, tt.want)
		}
	}
}

func TestAdminGateVerifyHash(t *testing.T) {
	hash, err := security.HashPin("1357")
	if err != nil {
		t.Fatal(err)
	}
	gate, err := NewAdminGate("", hash, "test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := gate.Verify("1357"); err != nil {
		t.Errorf("Verify(correct) = %v", err)
	}
	if err := gate.Verify("7531"); !errors.Is(err, ErrIncorrectPin) {
		t.Errorf("Verify(wrong) = %v, want ErrIncorrectPin", err)
	}
}

func TestNewAdminGateRejectsBadConfig(t *testing.T) {
	if _, err := NewAdminGate("12", "", "secret", time.Hour); !errors.Is(err, ErrInvalidPinFormat) {
		t.Errorf("short pin accepted: %v", err)
	}
	if _, err := NewAdminGate("1234", "", "", time.Hour); err == nil {
		t.Error("empty secret accepted")
	}
}

func TestAdminGateTokens(t *testing.T) {
	gate, _ := NewAdminGate("2580", "", "test-secret", time.Hour)
	now := time.Now()
	gate.now = func() time.Time { return now }

	token, expiresAt, err := gate.IssueToken()
	if err != nil {
		t.Fatal(err)
	}
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("expiresAt = %v, want one hour from now", expiresAt)
	}
	if err := gate.ValidateToken(token); err != nil {
		t.Errorf("fresh token rejected: %v", err)
	}

	gate.now = func() time.Time { return now.Add(2 * time.Hour) }
	if err := gate.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token = %v, want ErrInvalidToken", err)
	}

	other, _ := NewAdminGate("2580", "", "other-secret", time.Hour)
	if err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token from another secret = %v, want ErrInvalidToken", err)
	}
	if err := gate.ValidateToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token = %v, want ErrInvalidToken", err)
	}
}
