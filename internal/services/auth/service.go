package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cryptopay/internal/models"
	"cryptopay/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
)

type Service interface {
	Register(ctx context.Context, email, password, fullName string) (*models.Account, string, error)
	Login(ctx context.Context, email, password string) (*models.Account, string, error)
	VerifyToken(tokenString string) (*models.UserClaims, error)
}

type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type service struct {
	ledger repositories.LedgerStore
	config Config
}

func NewService(ledger repositories.LedgerStore, cfg Config) Service {
	if ledger == nil {
		panic("ledger store is required")
	}
	if cfg.JWTSecret == "" {
		panic("jwt secret is required")
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &service{ledger: ledger, config: cfg}
}

func (s *service) Register(ctx context.Context, email, password, fullName string) (*models.Account, string, error) {
	if len(password) < 8 {
		return nil, "", errors.New("password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hashed),
		Status:       models.AccountStatusActive,
	}
	if err := s.ledger.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicateAccount) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.issueToken(account)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*models.Account, string, error) {
	account, err := s.ledger.GetAccountByEmail(ctx, email)
	if err != nil {
		log.Printf("auth: login failed, no account for %s", email)
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		log.Printf("auth: login failed, bad password for account %s", account.ID)
		return nil, "", ErrInvalidCredentials
	}
	if account.Status != models.AccountStatusActive {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(account)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

func (s *service) VerifyToken(tokenString string) (*models.UserClaims, error) {
	claims := &models.UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *service) issueToken(account *models.Account) (string, error) {
	now := time.Now()
	claims := &models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
		},
		AccountID: account.ID,
		Email:     account.Email,
		IsAdmin:   account.IsAdmin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
