// Package auth 驗證外部身分提供者簽發的 bearer token。
//
// 服務本身不簽發 token，只判斷 token 是否有效並取出呼叫者身分。
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"vtuber_wiki/pkg/config"
)

var (
	// ErrInvalidToken 表示 token 無效、過期或被身分提供者拒絕
	ErrInvalidToken = errors.New("auth: invalid or expired token")
	// ErrProviderUnavailable 表示無法取得身分提供者的判定結果
	ErrProviderUnavailable = errors.New("auth: identity provider unavailable")
)

// Identity 是通過驗證的呼叫者
type Identity struct {
	Subject string
	Email   string
	Role    string
}

// Verifier 驗證 bearer token
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// NewVerifier 依設定建立對應模式的 Verifier
func NewVerifier(cfg config.AuthConfig) (Verifier, error) {
	switch cfg.Mode {
	case config.AuthModeJWT:
		return NewJWTVerifier([]byte(cfg.JWTSecret), cfg.Audience), nil
	case config.AuthModeRemote:
		client := &http.Client{Timeout: cfg.Timeout}
		return NewRemoteVerifier(cfg.SupabaseURL, cfg.APIKey, client), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}
