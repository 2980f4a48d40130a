package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ai-gateway-be/internal/apperr"
	"ai-gateway-be/internal/dto"
)

const testJwtSecret = "test-secret"

func newTestAuthService(t *testing.T) IAuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService("admin", string(hash), testJwtSecret, nopLogger{})
}

func TestLoginIssuesAdminToken(t *testing.T) {
	svc := newTestAuthService(t)

	res, err := svc.Login(context.Background(), &dto.AdminLoginRequest{
		Username: "admin",
		Password: "correct horse",
	})

	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	token, err := jwt.Parse(res.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(testJwtSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.AdminLoginRequest{
		Username: "admin",
		Password: "wrong",
	})

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Status)
}

func TestLoginRejectsUnknownUsername(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.AdminLoginRequest{
		Username: "root",
		Password: "correct horse",
	})

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Status)
}

func TestLoginUnconfiguredIsUnavailable(t *testing.T) {
	svc := NewAuthService("admin", "", "", nopLogger{})

	_, err := svc.Login(context.Background(), &dto.AdminLoginRequest{
		Username: "admin",
		Password: "anything",
	})

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 503, appErr.Status)
}
