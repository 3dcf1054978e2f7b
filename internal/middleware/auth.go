package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jengzang/survival-explorer-go/pkg/response"
)

// UserIDKey is the gin context key holding the authenticated player id
const UserIDKey = "userID"

// Auth verifies HS256 bearer tokens and stores the subject claim as the player id
func Auth(secret []byte) gin.HandlerFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			response.Unauthorized(c, "Missing bearer token")
			return
		}

		token, err := parser.Parse(raw, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token expired"
			}
			response.Unauthorized(c, msg)
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			response.Unauthorized(c, "Token has no subject")
			return
		}

		c.Set(UserIDKey, sub)
		c.Next()
	}
}

// IssueToken signs an HS256 token for userID valid for ttl
func IssueToken(secret []byte, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(secret)
}
