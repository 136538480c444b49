package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/arpitmofficial/fest-management-system/config"
	"github.com/arpitmofficial/fest-management-system/internal/auth"
)

const principalKey = "principal"

// AuthMiddleware verifies the bearer token and resolves the caller into
// an explicit auth.Principal for downstream handlers. A valid token whose
// account has since been deleted is rejected the same as a bad token.
func AuthMiddleware(cfg *config.Config, authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		idFloat, ok := claims["user_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_id missing in token"})
			return
		}
		role, ok := claims["role"].(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "role missing in token"})
			return
		}

		principal, err := authSvc.ResolvePrincipal(role, uint(idFloat))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		c.Set(principalKey, *principal)
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller set by AuthMiddleware.
// The second return is false when the middleware did not run; the helper
// already wrote the 401 in that case.
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	raw, exists := c.Get(principalKey)
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "principal missing"})
		return auth.Principal{}, false
	}
	principal, ok := raw.(auth.Principal)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid principal"})
		return auth.Principal{}, false
	}
	return principal, true
}

// OptionalAuth resolves the principal when a bearer token is present but
// lets anonymous requests through. Used on public listings that behave
// differently for logged-in participants (followed-organizer filter).
func OptionalAuth(cfg *config.Config, authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.Next()
			return
		}
		idFloat, okID := claims["user_id"].(float64)
		role, okRole := claims["role"].(string)
		if !okID || !okRole {
			c.Next()
			return
		}

		if principal, err := authSvc.ResolvePrincipal(role, uint(idFloat)); err == nil {
			c.Set(principalKey, *principal)
		}
		c.Next()
	}
}

// PeekPrincipal is GetPrincipal without the abort, for routes where
// authentication is optional.
func PeekPrincipal(c *gin.Context) (auth.Principal, bool) {
	raw, exists := c.Get(principalKey)
	if !exists {
		return auth.Principal{}, false
	}
	principal, ok := raw.(auth.Principal)
	return principal, ok
}
