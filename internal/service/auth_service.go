package service

import (
	"errors"
	"fmt"
	"time"

	"taller-service/internal/auth"
	"taller-service/internal/model"
)

type AuthService struct {
	directory *auth.Directory
	issuer    *auth.Issuer
}

func NewAuthService(directory *auth.Directory, issuer *auth.Issuer) *AuthService {
	return &AuthService{
		directory: directory,
		issuer:    issuer,
	}
}

type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      model.Principal `json:"user"`
}

// Login identifies a user by email alone and issues a session token.
func (s *AuthService) Login(email string) (*LoginResult, error) {
	principal, err := s.directory.Principal(email)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidEmail) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}

	token, expiresAt, err := s.issuer.Issue(principal)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      principal,
	}, nil
}
