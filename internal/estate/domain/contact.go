package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const ContactMessageMaxLen = 1000

var contactPhonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// Contact is an enquiry left through the public contact form.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return Invalid("name", "is required")
	}
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}
	if !contactPhonePattern.MatchString(c.Phone) {
		return Invalid("phone", "must be 7 to 15 digits, optionally prefixed by +")
	}
	switch n := utf8.RuneCountInString(c.Message); {
	case strings.TrimSpace(c.Message) == "":
		return Invalid("message", "is required")
	case n > ContactMessageMaxLen:
		return Invalid("message", "must be at most 1000 characters")
	}
	return nil
}
