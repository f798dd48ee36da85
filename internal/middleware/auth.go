package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"invoicedesk/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Gatekeeper answers whether the app password gate is enabled.
type Gatekeeper interface {
	PasswordProtected(ctx context.Context) (bool, error)
}

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Single-user desktop deployment; the token only guards the
		// localhost API while the app password gate is enabled.
		secret = "invoicedesk_local_secret"
	}
	return []byte(secret)
}

// IssueSessionToken mints the short-lived token handed out after a
// successful password unlock.
func IssueSessionToken(ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": "local",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(GetJWTSecret())
}

// RequireUnlocked guards a route group behind the app password. With no
// password configured every request passes; otherwise a valid session
// token from /api/auth/unlock is required.
func RequireUnlocked(gate Gatekeeper) gin.HandlerFunc {
	return func(c *gin.Context) {
		protected, err := gate.PasswordProtected(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to check password gate: "+err.Error()))
			return
		}
		if !protected {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Application is locked; unlock first"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return GetJWTSecret(), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid or expired session token"))
			return
		}

		c.Next()
	}
}
