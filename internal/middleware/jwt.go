package middleware

import (
	"net/http"
	"strings"
	"time"

	"oneflow/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret = []byte("oneflow-dev-secret")

// SetSecret overrides the signing key from config. Call before the router starts.
func SetSecret(s string) {
	if s != "" {
		jwtSecret = []byte(s)
	}
}

func SignToken(u *model.User) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  u.ID,
		"name": u.Name,
		"role": u.Role,
		"exp":  time.Now().Add(7 * 24 * time.Hour).Unix(),
	}).SignedString(jwtSecret)
}

func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := ""
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			raw = auth[7:]
		} else if t := c.Query("token"); t != "" {
			// Browsers cannot set headers on websocket upgrades.
			raw = t
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		claims := token.Claims.(jwt.MapClaims)
		c.Set("user_id", int(claims["uid"].(float64)))
		c.Set("user_name", claims["name"].(string))
		role, _ := claims["role"].(string)
		c.Set("user_role", role)

		// renew when less than a day remains
		if exp, ok := claims["exp"].(float64); ok {
			if time.Until(time.Unix(int64(exp), 0)) < 24*time.Hour {
				newToken, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"uid":  claims["uid"],
					"name": claims["name"],
					"role": claims["role"],
					"exp":  time.Now().Add(7 * 24 * time.Hour).Unix(),
				}).SignedString(jwtSecret)
				c.Header("X-New-Token", newToken)
			}
		}

		c.Next()
	}
}

// Caller rebuilds the request identity from the gin context.
func Caller(c *gin.Context) model.Identity {
	return model.Identity{
		UserID: c.GetInt("user_id"),
		Name:   c.GetString("user_name"),
		Role:   c.GetString("user_role"),
	}
}

// RequireRoles rejects the request unless the caller holds one of the roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("user_role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}
