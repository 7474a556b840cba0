package domain

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 30
	PasswordMinLen = 8
	PasswordMaxLen = 72 // bcrypt input limit, enforced for every hasher
)

var (
	phonePattern    = regexp.MustCompile(`^[0-9]{10}$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsEmailIdentifier decides whether a login identifier names an email
// address. Anything containing "@" does; the rest are usernames.
func IsEmailIdentifier(identifier string) bool {
	return strings.Contains(identifier, "@")
}

func ValidateEmail(s string) error {
	if s == "" {
		return Invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || !strings.Contains(s[strings.LastIndex(s, "@"):], ".") {
		return Invalid("email", "must be a valid address")
	}
	return nil
}

func ValidateUsername(s string) error {
	n := utf8.RuneCountInString(s)
	switch {
	case n == 0:
		return Invalid("username", "is required")
	case n < UsernameMinLen || n > UsernameMaxLen:
		return Invalid("username", "must be between 3 and 30 characters")
	case !usernamePattern.MatchString(s):
		return Invalid("username", "may only contain letters, digits, '.', '_' and '-'")
	}
	return nil
}

func ValidatePassword(s string) error {
	switch {
	case s == "":
		return Invalid("password", "is required")
	case len(s) < PasswordMinLen:
		return Invalid("password", "must be at least 8 characters")
	case len(s) > PasswordMaxLen:
		return Invalid("password", "must be at most 72 bytes")
	}
	return nil
}

func ValidatePhone(field, s string) error {
	if !phonePattern.MatchString(s) {
		return Invalid(field, "must be a 10-digit number")
	}
	return nil
}

// Validate checks the fields every stored listing must carry.
func (p Property) Validate() error {
	required := []struct{ field, value string }{
		{"title", p.Title},
		{"description", p.Description},
		{"type", p.Type},
		{"city", p.City},
		{"state", p.State},
		{"country", p.Country},
		{"owner.name", p.Owner.Name},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return Invalid(r.field, "is required")
		}
	}

	if len(p.ImageURLs) == 0 {
		return Invalid("image_urls", "at least one image URL is required")
	}
	for _, raw := range p.ImageURLs {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return Invalid("image_urls", "must be absolute http(s) URLs")
		}
	}

	switch {
	case p.Sqft < 0:
		return Invalid("sqft", "must not be negative")
	case p.Bedrooms < 0:
		return Invalid("bedrooms", "must not be negative")
	case p.Bathrooms < 0:
		return Invalid("bathrooms", "must not be negative")
	case p.RegularPrice < 0:
		return Invalid("regular_price", "must not be negative")
	case p.DiscountPrice < 0 || p.DiscountPrice > p.RegularPrice:
		return Invalid("discount_price", "must be between 0 and the regular price")
	}

	if err := ValidateEmail(p.Owner.Email); err != nil {
		return Invalid("owner.email", "must be a valid address")
	}
	return ValidatePhone("owner.phone", p.Owner.Phone)
}
