package model

// Principal is the identity attached to an authenticated request.
type Principal struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func (p Principal) CanEdit() bool {
	return p.IsAdmin
}

// Usuario is the name sent to the spreadsheet as the author of a change.
func (p Principal) Usuario() string {
	if p.Email == "" {
		return "Sistema"
	}
	return p.Email
}
