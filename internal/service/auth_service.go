package service

import (
	"context"
	"time"

	"market-insights-be/internal/config"
	"market-insights-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

// authService authenticates the research-team account configured via
// environment. The deployment is single-tenant per client, so there is no
// user table: one admin credential gates the whole API.
type authService struct {
	cfg config.AuthConfig
}

func NewAuthService(cfg config.AuthConfig) IAuthService {
	return &authService{cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Email != s.cfg.AdminEmail {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	ttl := time.Duration(s.cfg.TokenTTLHours) * time.Hour
	claims := jwt.MapClaims{
		"user_id": "admin",
		"email":   req.Email,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     signed,
		ExpiresIn: int(ttl.Seconds()),
	}, nil
}
