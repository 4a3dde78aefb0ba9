package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

// Context keys set for downstream handlers.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
)

// CachedUserData is the per-user blob kept in Redis so token validation
// doesn't hit the database on every request.
type CachedUserData struct {
	UserID uint   `json:"user_id"`
	Login  string `json:"login"`
	Role   string `json:"role"`
}

// Auth validates JWTs and resolves the caller's role, with a Redis cache in
// front of the users table. A nil Redis client disables caching.
type Auth struct {
	db     *gorm.DB
	rdb    *redis.Client
	secret []byte
}

func NewAuth(db *gorm.DB, rdb *redis.Client, secret []byte) *Auth {
	return &Auth{db: db, rdb: rdb, secret: secret}
}

func (a *Auth) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				abortUnauthorized(c, "Authorization token not provided")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				abortUnauthorized(c, "Invalid Authorization header format")
				return
			}
			tokenStr = parts[1]
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "Invalid token claims")
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			abortUnauthorized(c, "Invalid user ID format in token")
			return
		}
		userID := uint(userIDFloat)

		userData, err := a.loadUser(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c, "User not found")
			return
		}

		c.Set(CtxUserID, userData.UserID)
		c.Set(CtxRole, userData.Role)
		c.Next()
	}
}

func (a *Auth) loadUser(ctx context.Context, userID uint) (*CachedUserData, error) {
	cacheKey := fmt.Sprintf("user:%d:data", userID)
	if a.rdb != nil {
		if cached, err := a.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var data CachedUserData
			if json.Unmarshal([]byte(cached), &data) == nil {
				return &data, nil
			}
		}
	}

	var user models.User
	if err := a.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	data := &CachedUserData{UserID: user.ID, Login: user.Login, Role: user.Role}

	if a.rdb != nil {
		if blob, err := json.Marshal(data); err == nil {
			a.rdb.Set(ctx, cacheKey, blob, 15*time.Minute)
		}
	}
	return data, nil
}

// RequireRole gates a route group to one role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

// UserID reads the authenticated user's id from the context.
func UserID(c *gin.Context) uint {
	return c.GetUint(CtxUserID)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
