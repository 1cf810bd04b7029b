package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tnqbao/gau-game-panel/config"
)

func ExtractToken(c *gin.Context) string {
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.Fields(authHeader)
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}

func ParseToken(tokenString string, config *config.EnvConfig) (*jwt.Token, error) {
	secret := []byte(config.JWT.SecretKey)
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{config.JWT.Algorithm}))
}

// InjectClaimsToContext stores the numeric panel user id. Session tokens may
// carry it as a JSON number or a decimal string.
func InjectClaimsToContext(c *gin.Context, claims jwt.MapClaims) error {
	var userID uint64
	switch v := claims["user_id"].(type) {
	case float64:
		if v <= 0 || v != float64(uint64(v)) {
			return errors.New("invalid user_id format")
		}
		userID = uint64(v)
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil || parsed == 0 {
			return errors.New("invalid user_id format")
		}
		userID = parsed
	default:
		return errors.New("invalid user_id format")
	}

	c.Set("user_id", uint(userID))
	return nil
}

func GetUserIDFromContext(c *gin.Context) (uint, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, errors.New("user_id is missing from context")
	}

	id, ok := userID.(uint)
	if !ok {
		return 0, fmt.Errorf("invalid user_id type in context: %T", userID)
	}
	return id, nil
}
