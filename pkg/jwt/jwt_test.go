package jwt_test

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-inventory-audit/pkg/jwt"
)

func newService(t *testing.T, secret string) *jwt.TokenService {
	t.Helper()
	svc, err := jwt.NewTokenService(jwt.Config{
		Secret:    []byte(secret),
		Algorithm: "HS256",
		TTL:       30 * time.Minute,
		Issuer:    "test-issuer",
	})
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := jwt.NewTokenService(jwt.Config{})
		assert.Error(t, err)
	})

	t.Run("rejects non HMAC algorithm", func(t *testing.T) {
		_, err := jwt.NewTokenService(jwt.Config{Secret: []byte("s"), Algorithm: "RS256"})
		assert.Error(t, err)
	})

	t.Run("defaults algorithm and ttl", func(t *testing.T) {
		svc, err := jwt.NewTokenService(jwt.Config{Secret: []byte("s")})
		require.NoError(t, err)
		assert.Equal(t, jwt.DefaultTTL, svc.TTL())
	})
}

func TestIssueThenVerify(t *testing.T) {
	svc := newService(t, "test-signing-key")

	token, err := svc.IssueDefault("ana@x.com")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	subject, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", subject)
}

func TestIssueProducesDistinctTokens(t *testing.T) {
	svc := newService(t, "test-signing-key")

	first, err := svc.IssueDefault("ana@x.com")
	require.NoError(t, err)
	second, err := svc.IssueDefault("ana@x.com")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyFailures(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newService(t, "test-signing-key").WithClock(func() time.Time { return now })

	valid, err := svc.Issue("ana@x.com", now.Add(time.Minute))
	require.NoError(t, err)

	expired, err := svc.Issue("ana@x.com", now.Add(-time.Second))
	require.NoError(t, err)

	foreign, err := newService(t, "another-secret").Issue("ana@x.com", now.Add(time.Minute))
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	forged := fmt.Sprintf(`{"sub":"eve@x.com","exp":%d}`, now.Add(time.Hour).Unix())
	tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte(forged)) + "." + parts[2]

	noneToken, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.RegisteredClaims{
		Subject:   "ana@x.com",
		ExpiresAt: gojwt.NewNumericDate(now.Add(time.Minute)),
	}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, gojwt.RegisteredClaims{
		Subject:   "ana@x.com",
		ExpiresAt: gojwt.NewNumericDate(now.Add(time.Minute)),
	}).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	noSubject, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		ExpiresAt: gojwt.NewNumericDate(now.Add(time.Minute)),
	}).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	noExpiry, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject: "ana@x.com",
	}).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "", wantErr: jwt.ErrMissingToken},
		{name: "garbage", token: "not-a-token", wantErr: jwt.ErrMalformedToken},
		{name: "bad base64 payload", token: "a.b.c", wantErr: jwt.ErrMalformedToken},
		{name: "expired", token: expired, wantErr: jwt.ErrTokenExpired},
		{name: "signed with another secret", token: foreign, wantErr: jwt.ErrBadSignature},
		{name: "tampered payload", token: tampered, wantErr: jwt.ErrBadSignature},
		{name: "none algorithm", token: noneToken, wantErr: jwt.ErrBadSignature},
		{name: "different HMAC algorithm", token: hs512, wantErr: jwt.ErrBadSignature},
		{name: "missing subject", token: noSubject, wantErr: jwt.ErrMalformedToken},
		{name: "missing expiry", token: noExpiry, wantErr: jwt.ErrMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, subject)
		})
	}
}

func TestVerifyAfterExpiryInstant(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	current := issuedAt
	svc := newService(t, "test-signing-key").WithClock(func() time.Time { return current })

	token, err := svc.IssueDefault("ana@x.com")
	require.NoError(t, err)

	current = issuedAt.Add(29 * time.Minute)
	_, err = svc.Verify(token)
	require.NoError(t, err)

	current = issuedAt.Add(31 * time.Minute)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
