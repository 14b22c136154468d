// 운영자 API 인증 (로그인 + 액세스 토큰)
// 웹훅 엔드포인트는 별도의 HMAC 인증을 사용하고, 이 서비스는 운영자용
// /api/v1 경로에만 적용됨

package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/itil-bridge/backend/internal/config"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrMisconfigured = errors.New("auth config invalid")
)

// AuthService 구조체 정의
type AuthService struct {
	jwtSecret    []byte
	accessTTL    time.Duration
	passwordHash string
}

type operatorClaims struct {
	jwt.RegisteredClaims
}

func NewAuthService(cfg config.AuthConfig) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}
	if cfg.OperatorPasswordHash == "" {
		return nil, fmt.Errorf("%w: OPERATOR_PASSWORD_HASH is required", ErrMisconfigured)
	}

	accessTTL, err := time.ParseDuration(cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWT_ACCESS_TTL", ErrMisconfigured)
	}

	return &AuthService{
		jwtSecret:    []byte(cfg.JWTSecret),
		accessTTL:    accessTTL,
		passwordHash: cfg.OperatorPasswordHash,
	}, nil
}

// Login - 운영자 비밀번호 검증 후 액세스 토큰 발급
func (s *AuthService) Login(password string) (token string, expiresIn int64, err error) {
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", 0, ErrUnauthorized
	}

	now := time.Now()
	claims := operatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, int64(s.accessTTL.Seconds()), nil
}

// ParseAccessToken - Bearer 토큰 검증
func (s *AuthService) ParseAccessToken(token string) error {
	parsed, err := jwt.ParseWithClaims(token, &operatorClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return ErrUnauthorized
	}
	return nil
}
