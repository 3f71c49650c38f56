package domain

import "time"

// User models a marketplace account as persisted by the credential store.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CompanyID    string    `json:"companyId,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the authenticated identity attached to a single request by
// the access gate.
type Principal struct {
	UserID    string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
}

// PrincipalFromUser builds the request identity from a stored user.
func PrincipalFromUser(u *User) *Principal {
	return &Principal{
		UserID:    u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Email:     u.Email,
		CompanyID: u.CompanyID,
	}
}

// Claims are the facts embedded in a session token.
type Claims struct {
	SubjectID string
	Username  string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
