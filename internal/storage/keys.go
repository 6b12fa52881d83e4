package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserPrefix is the key prefix that owns every object of a user.
func UserPrefix(userID uint) string {
	return fmt.Sprintf("users/%d/", userID)
}

// NewUserKey returns a fresh, date-partitioned key for a file uploaded by
// userID. Only the base name of filename is kept.
func NewUserKey(userID uint, filename string, now time.Time) string {
	name := sanitize(path.Base(strings.ReplaceAll(filename, "\\", "/")))
	return fmt.Sprintf("%s%04d/%02d/%02d/%s-%s",
		UserPrefix(userID), now.Year(), now.Month(), now.Day(), uuid.NewString(), name)
}

// OwnedBy reports whether key lives under userID's prefix.
func OwnedBy(key string, userID uint) bool {
	return strings.HasPrefix(key, UserPrefix(userID)) && !strings.Contains(key, "..")
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if s := strings.Trim(b.String(), "."); s != "" {
		return s
	}
	return "file"
}
