package utils

import (
	"crypto/rand"
	"encoding/base32"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	nonSlugChars = regexp.MustCompile("[^a-z0-9-]")
	dashRuns     = regexp.MustCompile("-+")
)

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateInvitationCode returns a short, unambiguous code such as "K7QX-M2PA"
func GenerateInvitationCode() (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
	return code[:4] + "-" + code[4:], nil
}

// GenerateTicketNumber returns a tombola ticket number
func GenerateTicketNumber() string {
	return "T-" + strings.ToUpper(uuid.New().String()[:8])
}
