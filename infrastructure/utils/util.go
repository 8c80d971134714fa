package utils

import (
	"crypto/md5"
	"fmt"
	"time"

	"ted-mirror/infrastructure/logger"

	"github.com/golang-jwt/jwt"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// HashPassword applies the legacy md5 scheme used by the account store.
func HashPassword(plain string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(plain)))
}

func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	var claims jwt.MapClaims = payload
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}
