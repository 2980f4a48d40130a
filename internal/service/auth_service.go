package service

import (
	"context"
	"time"

	"ai-gateway-be/internal/apperr"
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
}

type authService struct {
	adminUsername     string
	adminPasswordHash string
	jwtSecret         string
	log               logger.ILogger
}

func NewAuthService(adminUsername, adminPasswordHash, jwtSecret string, log logger.ILogger) IAuthService {
	return &authService{
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
		jwtSecret:         jwtSecret,
		log:               log,
	}
}

func (as *authService) Login(_ context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if as.adminPasswordHash == "" || as.jwtSecret == "" {
		return nil, apperr.ServiceUnavailable("Admin login is not configured")
	}

	if req.Username != as.adminUsername {
		as.log.Warn("auth", "Admin login rejected", map[string]interface{}{"username": req.Username})
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(as.adminPasswordHash), []byte(req.Password)); err != nil {
		as.log.Warn("auth", "Admin login rejected", map[string]interface{}{"username": req.Username})
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  req.Username,
		"role": "admin",
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(as.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.AdminLoginResponse{Token: signed}, nil
}
