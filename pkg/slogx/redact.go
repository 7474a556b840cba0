package slogx

import (
	"log/slog"
	"strings"
)

// Email returns an attribute holding a masked address ("a***@example.com")
// so log lines can be correlated without storing the full address.
func Email(key, addr string) slog.Attr {
	return slog.String(key, MaskEmail(addr))
}

// MaskEmail keeps the first rune of the local part and the domain.
func MaskEmail(addr string) string {
	local, domain, ok := strings.Cut(addr, "@")
	if !ok || local == "" {
		return "***"
	}
	first := []rune(local)[0]
	return string(first) + "***@" + domain
}
