package domain

import "time"

type Account struct {
	ID           string
	Username     string
	Email        string
	Phone        string
	ProfileImage string
	PasswordHash string // encoded by the configured hasher, never serialised
	Role         Role

	ResetTokenHash *string    // fingerprint of the outstanding reset token
	ResetExpiresAt *time.Time // validity of ResetTokenHash

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Profile is the read model of an account. It is what gets cached and what
// leaves the service; it carries no credential material.
type Profile struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	ProfileImage string     `json:"profile_image,omitempty"`
	Role         Role       `json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (a Account) Profile() Profile {
	return Profile{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		Phone:        a.Phone,
		ProfileImage: a.ProfileImage,
		Role:         a.Role,
		LastLoginAt:  a.LastLoginAt,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// ResetTicket returns the embedded password-reset ticket, if any.
func (a Account) ResetTicket() (Ticket, bool) {
	if a.ResetTokenHash == nil || a.ResetExpiresAt == nil {
		return Ticket{}, false
	}
	return Ticket{Hash: *a.ResetTokenHash, ExpiresAt: *a.ResetExpiresAt}, true
}

// AccountPatch carries optional field updates. Nil means unchanged.
type AccountPatch struct {
	Username     *string
	Email        *string
	Phone        *string
	ProfileImage *string
	PasswordHash *string
	Role         *Role
}

// Empty reports whether the patch changes nothing.
func (p AccountPatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Phone == nil &&
		p.ProfileImage == nil && p.PasswordHash == nil && p.Role == nil
}
