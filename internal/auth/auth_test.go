package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtuber_wiki/pkg/config"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		Email: "gura@example.com",
		Role:  "authenticated",
		StandardClaims: jwt.StandardClaims{
			Subject:   "user-1",
			Audience:  "authenticated",
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Hour).Unix(),
		},
	}
}

func TestJWTVerifier_Valid(t *testing.T) {
	v := NewJWTVerifier(testSecret, "authenticated")

	identity, err := v.Verify(context.Background(), signToken(t, testSecret, jwt.SigningMethodHS256, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.Subject)
	assert.Equal(t, "gura@example.com", identity.Email)
	assert.Equal(t, "authenticated", identity.Role)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := NewJWTVerifier(testSecret, "authenticated")

	expired := validClaims()
	expired.ExpiresAt = time.Now().Add(-time.Minute).Unix()

	wrongAudience := validClaims()
	wrongAudience.Audience = "anon"

	noSubject := validClaims()
	noSubject.Subject = ""

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", signToken(t, []byte("other"), jwt.SigningMethodHS256, validClaims())},
		{"expired", signToken(t, testSecret, jwt.SigningMethodHS256, expired)},
		{"wrong audience", signToken(t, testSecret, jwt.SigningMethodHS256, wrongAudience)},
		{"missing subject", signToken(t, testSecret, jwt.SigningMethodHS256, noSubject)},
		{"none algorithm", func() string {
			s, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims()).SignedString(jwt.UnsafeAllowNoneSignatureType)
			require.NoError(t, err)
			return s
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTVerifier_NoAudienceCheck(t *testing.T) {
	claims := validClaims()
	claims.Audience = "anything"

	_, err := NewJWTVerifier(testSecret, "").Verify(context.Background(), signToken(t, testSecret, jwt.SigningMethodHS256, claims))
	assert.NoError(t, err)
}

func TestRemoteVerifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		switch r.Header.Get("Authorization") {
		case "Bearer good":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"user-1","email":"gura@example.com","role":"authenticated"}`))
		case "Bearer broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	v := NewRemoteVerifier(server.URL+"/", "anon-key", server.Client())

	identity, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.Subject)

	_, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestRemoteVerifier_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewRemoteVerifier(url, "k", &http.Client{Timeout: time.Second}).Verify(context.Background(), "t")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestNewVerifier(t *testing.T) {
	v, err := NewVerifier(config.AuthConfig{Mode: config.AuthModeJWT, JWTSecret: "s"})
	require.NoError(t, err)
	assert.IsType(t, &JWTVerifier{}, v)

	v, err = NewVerifier(config.AuthConfig{Mode: config.AuthModeRemote, SupabaseURL: "http://x", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &RemoteVerifier{}, v)

	_, err = NewVerifier(config.AuthConfig{Mode: "basic"})
	assert.Error(t, err)
}
