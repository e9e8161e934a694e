package auth

import (
	"errors"
	"strings"

	"taller-service/internal/model"
)

var ErrInvalidEmail = errors.New("invalid email")

// Directory resolves an email into a principal. Identity is the email
// alone; administrators come from a configured allowlist.
type Directory struct {
	admins map[string]struct{}
}

func NewDirectory(adminEmails []string) *Directory {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			admins[email] = struct{}{}
		}
	}
	return &Directory{admins: admins}
}

func (d *Directory) IsAdmin(email string) bool {
	_, ok := d.admins[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

func (d *Directory) Principal(email string) (model.Principal, error) {
	email = strings.TrimSpace(email)
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t\n") {
		return model.Principal{}, ErrInvalidEmail
	}
	return model.Principal{
		Email:   email,
		IsAdmin: d.IsAdmin(email),
	}, nil
}
