package delivery

import (
	"net/http"
	"strings"

	authdomain "examprep-backend/internal/auth/domain"
	"examprep-backend/internal/auth/token"
	"examprep-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// identityKey is the gin context key holding the verified TokenPayload
const identityKey = "identity"

// AccessVerifier checks access tokens
type AccessVerifier interface {
	VerifyAccessToken(tokenString string) token.AccessResult
}

// AuthMiddleware requires a valid bearer access token and attaches its payload
func AuthMiddleware(verifier AccessVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortFail(c, http.StatusUnauthorized, "Unauthorized", "Authorization header is missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.AbortFail(c, http.StatusUnauthorized, "Unauthorized", "Bearer token is missing")
			return
		}

		res := verifier.VerifyAccessToken(strings.TrimSpace(parts[1]))
		switch res.Status {
		case token.StatusValid:
		case token.StatusExpired:
			response.AbortFail(c, http.StatusUnauthorized, "Token verification failed", "Token has expired")
			return
		default:
			response.AbortFail(c, http.StatusUnauthorized, "Token verification failed", "Invalid token")
			return
		}

		payload := res.Payload
		c.Set(identityKey, &payload)
		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := Identity(c)
		if !ok || identity.Role != authdomain.RoleAdmin {
			response.AbortFail(c, http.StatusForbidden, "Forbidden", "Admin access is required")
			return
		}
		c.Next()
	}
}

// Identity returns the payload attached by AuthMiddleware
func Identity(c *gin.Context) (*authdomain.TokenPayload, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*authdomain.TokenPayload)
	return identity, ok && identity != nil
}
