package jwt

import (
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/tdjunwei/lostark-raid-schedule/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		Issuer:         "lostark-auth",
		AccessTokenTTL: 15 * time.Minute,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", "ADMIN", "阿福")
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("期望 UserID=user-1，实际=%s", claims.UserID)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("期望 Role=ADMIN，实际=%s", claims.Role)
	}
	if claims.Name != "阿福" {
		t.Errorf("期望 Name=阿福，实际=%s", claims.Name)
	}
	if claims.Issuer != "lostark-auth" {
		t.Errorf("期望 Issuer=lostark-auth，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}

	remaining := claims.Remaining(time.Now())
	if remaining < 14*time.Minute || remaining > 16*time.Minute {
		t.Errorf("剩余有效期期望约15分钟，实际=%v", remaining)
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	m := newTestManager()

	_, err := m.ParseToken("invalid.token.string")
	if err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m1 := newTestManager()
	m2 := NewManager(&config.AuthConfig{
		JWTSecret:      "different-secret-key",
		Issuer:         "lostark-auth",
		AccessTokenTTL: 15 * time.Minute,
	})

	token, _ := m1.GenerateAccessToken("user-1", "ADMIN", "")
	if _, err := m2.ParseToken(token); err == nil {
		t.Error("不同密钥签名的 token 不应通过验证")
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	other := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		Issuer:         "someone-else",
		AccessTokenTTL: 15 * time.Minute,
	})

	token, _ := other.GenerateAccessToken("user-1", "PLAYER", "")
	if _, err := newTestManager().ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("签发方不符应返回 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_ExpiredToken(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: -time.Minute,
	})

	token, _ := m.GenerateAccessToken("user-1", "ADMIN", "")

	_, err := m.ParseToken(token)
	if err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestParseToken_SubjectFallback(t *testing.T) {
	m := newTestManager()

	claims := jwtv5.RegisteredClaims{
		Subject:   "user-9",
		Issuer:    "lostark-auth",
		ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		t.Fatalf("签名失败: %v", err)
	}

	parsed, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}
	if parsed.UserID != "user-9" {
		t.Errorf("缺少 user_id 时应回退到 sub，实际=%s", parsed.UserID)
	}
}

func TestParseToken_MissingExpiry(t *testing.T) {
	m := newTestManager()

	claims := jwtv5.RegisteredClaims{Subject: "user-9", Issuer: "lostark-auth"}
	token, _ := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(m.secret)

	if _, err := m.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("缺少 exp 的令牌应被拒绝，实际: %v", err)
	}
}
