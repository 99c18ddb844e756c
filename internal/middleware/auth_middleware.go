package middleware

import (
	"net/http"
	"strings"

	"github.com/ArowuTest/fundme-backend/pkg/jwt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// callerAddressKey is the gin context key holding the authenticated address
const callerAddressKey = "callerAddress"

// JWTAuthMiddleware rejects requests without a valid bearer token and stores
// the token subject as the caller address
func JWTAuthMiddleware(tokens *jwt.TokenService, logger *zap.SugaredLogger) gin.HandlerFunc {
	const bearerSchema = "Bearer "
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		addr, err := tokens.Parse(strings.TrimSpace(authHeader[len(bearerSchema):]))
		if err != nil {
			logger.Debugw("Bearer token rejected", "error", err, "path", c.FullPath())
			if jwt.IsExpired(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		c.Set(callerAddressKey, addr)
		c.Next()
	}
}

// CallerAddress returns the address set by JWTAuthMiddleware
func CallerAddress(c *gin.Context) (common.Address, bool) {
	v, ok := c.Get(callerAddressKey)
	if !ok {
		return common.Address{}, false
	}
	addr, ok := v.(common.Address)
	return addr, ok
}
