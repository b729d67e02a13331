package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/farellandr/eventgate/internal/helpers"
	"github.com/farellandr/eventgate/internal/requestctx"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the access token body issued by the identity collaborator.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// SignAccessToken issues an HS256 token for email valid for ttl.
func SignAccessToken(secret, email, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("signing secret is empty")
	}
	now := time.Now()
	claims := Claims{
		Email: helpers.NormalizeEmail(email),
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseAccessToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("token has no email claim")
	}
	return claims, nil
}

// JWTAuthMiddleware resolves the bearer token into a request-scoped identity.
// With an empty secret authentication is disabled and requests pass through.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			helpers.RespondWithError(c, http.StatusUnauthorized, helpers.CodeUnauthorized, "Missing bearer token.")
			return
		}

		claims, err := parseAccessToken(secret, strings.TrimSpace(raw))
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, helpers.CodeUnauthorized, "Invalid or expired token.")
			return
		}

		identity := requestctx.Identity{Email: helpers.NormalizeEmail(claims.Email), Role: claims.Role}
		c.Request = c.Request.WithContext(requestctx.WithIdentity(c.Request.Context(), identity))
		c.Set("user_email", identity.Email)
		c.Next()
	}
}
