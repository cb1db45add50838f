package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hdp-service/internal/services"
)

const identityKey = "identity"

type JWTMiddleware struct {
	jwtService *services.JWTService
	logger     *zap.Logger
}

func NewJWTMiddleware(jwtService *services.JWTService, logger *zap.Logger) *JWTMiddleware {
	return &JWTMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// OptionalAuth lets anonymous requests through. A request carrying a token
// must carry a valid one.
func (m *JWTMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Set(identityKey, services.Anonymous{})
			c.Next()
			return
		}
		m.authenticate(c, token)
	}
}

func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}
		m.authenticate(c, token)
	}
}

func (m *JWTMiddleware) authenticate(c *gin.Context, token string) {
	claims, err := m.jwtService.ValidateToken(token)
	if err != nil {
		m.logger.Warn("Invalid token", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	c.Set(identityKey, services.IdentityFromClaims(claims))
	c.Next()
}

// IdentityFrom returns the caller identity set by the auth middleware.
func IdentityFrom(c *gin.Context) services.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(services.Identity); ok {
			return id
		}
	}
	return services.Anonymous{}
}

func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if bearerToken != "" {
		tokenParts := strings.Split(bearerToken, " ")
		if len(tokenParts) == 2 && strings.ToLower(tokenParts[0]) == "bearer" {
			return tokenParts[1]
		}
	}
	return ""
}
