package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	authorizationHeader = "Authorization"
	authorizationType   = "Bearer"
	ContextUserIDKey    = "userID"
)

var (
	errMissingHeader = errors.New("authorization header required")
	errBadHeader     = errors.New("invalid authorization header format")
)

// TokenValidator resolves a bearer token to the user it was issued for.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	fields := strings.Fields(header)
	if len(fields) != 2 || fields[0] != authorizationType {
		return "", errBadHeader
	}
	return fields[1], nil
}

// AuthMiddleware rejects the request with 401 unless it carries a valid
// bearer token, and stores the token's user ID in the gin context.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader(authorizationHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		userID, err := tokens.ValidateToken(token)
		if err != nil {
			log.Debug().Err(err).Str("ip", c.ClientIP()).Msg("Rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	idStr, ok := id.(string)
	return idStr, ok
}
