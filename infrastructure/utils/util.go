package utils

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"

	"mytube/infrastructure/logger"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateToken signs an HS256 token over the given claims. Used by tests to
// mint identity-service-shaped bearer tokens.
func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	var claims jwt.MapClaims = payload
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}

// FormatViewCount renders a raw view count the way the player shows it:
// comma-grouped integer plus a " views" suffix.
func FormatViewCount(count uint64) string {
	return groupDigits(strconv.FormatUint(count, 10)) + " views"
}

// FormatPublishDate converts an RFC 3339 publish timestamp into the display
// date. Unparseable input is passed through unchanged.
func FormatPublishDate(publishedAt string) string {
	t, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return publishedAt
	}
	return t.Format("1/2/2006")
}

func groupDigits(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b []byte
	head := n % 3
	if head > 0 {
		b = append(b, s[:head]...)
	}
	for i := head; i < n; i += 3 {
		if len(b) > 0 {
			b = append(b, ',')
		}
		b = append(b, s[i:i+3]...)
	}
	return string(b)
}
