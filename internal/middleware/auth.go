// internal/middleware/auth.go
// Authentication for the adapter's mutating debug endpoints. There are no
// user accounts - a single operator credential, hashed with bcrypt and
// checked against a bearer header, guards anything that isn't pure
// read-only presentation.

package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// RequireOperator validates the Authorization header against the bcrypt
// hash of the configured operator token.
func RequireOperator(tokenHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenHash == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "operator endpoint disabled"})
			c.Abort()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid operator token"}) //nolint:errcheck
			c.Abort()
			return
		}

		c.Set("operator", true)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// sessionViewClaims is embedded in the short-lived JWTs issued to websocket
// viewers so a presentation client can prove which session it subscribed to
// without re-sending the operator token on every reconnect.
type sessionViewClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// IssueViewToken signs a short-lived, read-only token scoped to one session.
func IssueViewToken(secret, sessionID string, ttl time.Duration) (string, error) {
	claims := sessionViewClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateViewToken parses a view token and returns the session id it is
// scoped to.
func ValidateViewToken(secret, tokenString string) (string, error) {
	claims := &sessionViewClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	return claims.SessionID, nil
}

// HashOperatorToken bcrypt-hashes a plaintext operator token for storage in
// configuration.
func HashOperatorToken(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	return string(hash), err
}
