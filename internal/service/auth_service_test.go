package service

import (
	"errors"
	"testing"
	"time"

	"taller-service/internal/auth"
)

func TestAuthService_Login(t *testing.T) {
	svc := NewAuthService(
		auth.NewDirectory([]string{"admin@municipalidad.gov.ar"}),
		auth.NewIssuer("secret", time.Hour),
	)

	res, err := svc.Login("Admin@Municipalidad.gov.ar")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" || !res.User.IsAdmin {
		t.Errorf("result = %+v", res)
	}

	claims, err := auth.NewParser("secret").Parse(res.Token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Email != "Admin@Municipalidad.gov.ar" {
		t.Errorf("Email = %q", claims.Email)
	}

	if _, err := svc.Login("no-es-un-email"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
