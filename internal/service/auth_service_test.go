package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-inventory-audit/internal/service"
	"go-inventory-audit/pkg/apperror"
	"go-inventory-audit/pkg/jwt"
)

func TestRegister(t *testing.T) {
	e := newEnv(t)

	user := e.register(t, "Ana", "ana@x.com", "pw1234")
	assert.NotZero(t, user.ID)
	assert.Equal(t, "Ana", user.Name)
	assert.NotEqual(t, "pw1234", user.Password)
	assert.Nil(t, user.UpdatedAt)

	logs := e.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, "User registered: ana@x.com", logs[0].Action)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, user.ID, *logs[0].UserID)
	assert.Equal(t, 1, e.publisher.count())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	e.register(t, "Ana", "ana@x.com", "pw1234")

	_, err := e.auth.Register(&service.RegisterRequest{Name: "Other", Email: "ana@x.com", Password: "secret1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrEmailExists)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	assert.EqualValues(t, 1, e.countUsers(t))
	assert.Len(t, e.logs(t), 1)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		req  service.RegisterRequest
	}{
		{name: "missing name", req: service.RegisterRequest{Email: "a@x.com", Password: "pw1234"}},
		{name: "bad email", req: service.RegisterRequest{Name: "A", Email: "not-an-email", Password: "pw1234"}},
		{name: "missing password", req: service.RegisterRequest{Name: "A", Email: "a@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			_, err := e.auth.Register(&tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, service.ErrValidation)
			assert.Zero(t, e.countUsers(t))
		})
	}
}

func TestRegisterPasswordOverBcryptLimit(t *testing.T) {
	e := newEnv(t)

	// 40 runes pass validation but encode to 80 bytes.
	_, err := e.auth.Register(&service.RegisterRequest{Name: "Ana", Email: "ana@x.com", Password: strings.Repeat("é", 40)})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrPasswordTooLong)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Zero(t, e.countUsers(t))
}

func TestRegisterRollsBackWhenAuditFails(t *testing.T) {
	e := newEnv(t)
	e.failLogWrites(t)

	_, err := e.auth.Register(&service.RegisterRequest{Name: "Ana", Email: "ana@x.com", Password: "pw1234"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.ErrorIs(t, err, errStorage)

	assert.Zero(t, e.countUsers(t))
	assert.Empty(t, e.logs(t))
	assert.Zero(t, e.publisher.count())
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	user := e.register(t, "Ana", "ana@x.com", "pw1234")

	res, err := e.auth.Login(&service.LoginRequest{Email: "ana@x.com", Password: "pw1234"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)

	subject, err := e.tokens.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", subject)

	logs := e.logs(t)
	require.Len(t, logs, 2)
	assert.Equal(t, "User logged in: ana@x.com", logs[1].Action)
	assert.Equal(t, user.ID, *logs[1].UserID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	e := newEnv(t)
	e.register(t, "Ana", "ana@x.com", "pw1234")

	_, wrongPassword := e.auth.Login(&service.LoginRequest{Email: "ana@x.com", Password: "nope123"})
	_, unknownEmail := e.auth.Login(&service.LoginRequest{Email: "bob@x.com", Password: "pw1234"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.ErrorIs(t, wrongPassword, service.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, service.ErrInvalidCredentials)

	assert.Len(t, e.logs(t), 1, "failed logins are not audited")
}

func TestLoginWithholdsTokenWhenAuditFails(t *testing.T) {
	e := newEnv(t)
	e.register(t, "Ana", "ana@x.com", "pw1234")
	e.failLogWrites(t)

	res, err := e.auth.Login(&service.LoginRequest{Email: "ana@x.com", Password: "pw1234"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func TestValidateToken(t *testing.T) {
	e := newEnv(t)
	user := e.register(t, "Ana", "ana@x.com", "pw1234")

	token, err := e.tokens.IssueDefault("ana@x.com")
	require.NoError(t, err)

	got, err := e.auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	t.Run("malformed", func(t *testing.T) {
		_, err := e.auth.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, service.ErrUnauthenticated)
		assert.ErrorIs(t, err, jwt.ErrMalformedToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := jwt.NewTokenService(jwt.Config{Secret: []byte("another-secret")})
		require.NoError(t, err)
		forged, err := other.IssueDefault("ana@x.com")
		require.NoError(t, err)

		_, err = e.auth.ValidateToken(forged)
		assert.ErrorIs(t, err, service.ErrUnauthenticated)
		assert.ErrorIs(t, err, jwt.ErrBadSignature)
	})

	t.Run("orphaned subject", func(t *testing.T) {
		orphan, err := e.tokens.IssueDefault("ghost@x.com")
		require.NoError(t, err)

		_, err = e.auth.ValidateToken(orphan)
		assert.ErrorIs(t, err, service.ErrUnauthenticated)
		assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
	})
}

func TestResolve(t *testing.T) {
	e := newEnv(t)
	e.register(t, "Ana", "ana@x.com", "pw1234")

	user, err := e.auth.Resolve("ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)

	_, err = e.auth.Resolve("bob@x.com")
	assert.True(t, errors.Is(err, service.ErrUserNotFound))
}
