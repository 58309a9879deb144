package backend

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiryWarning inspects the configured bearer token without verifying
// its signature (the backend owns verification) and returns a human-readable
// warning when the token is expired or expires within the hour. Opaque
// (non-JWT) tokens produce no warning.
func TokenExpiryWarning(token string, now time.Time) string {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return ""
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ""
	}
	switch {
	case exp.Time.Before(now):
		return "bearer token is expired; backend calls will likely be rejected"
	case exp.Time.Before(now.Add(time.Hour)):
		return fmt.Sprintf("bearer token expires soon (%s)", exp.Time.UTC().Format(time.RFC3339))
	}
	return ""
}
