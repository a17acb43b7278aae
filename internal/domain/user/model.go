package user

// Principal is the authenticated caller resolved from an access token.
type Principal struct {
	UserID   string
	Email    string
	Username string
}

// DisplayName is the name shown to other viewers.
func (p Principal) DisplayName() string {
	if p.Username != "" {
		return p.Username
	}
	if p.Email != "" {
		return p.Email
	}
	return p.UserID
}
