package authUtils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// GenerateAndSetToken generates a JWT token for a given user ID and role
// ("citizen" or "official")
func GenerateAndSetToken(userID, role string) (string, error) {
	secretStr := os.Getenv("JWT_SECRET")
	if secretStr == "" {
		return "", fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	jwtSecret := []byte(secretStr)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour * 72).Unix(), // Token expires in 72 hours
	})

	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GenerateQRToken returns an opaque URL-safe token of the requested length,
// used to link a printed QR sticker to its issue record
func GenerateQRToken(length int) string {
	buf := make([]byte, (length*3+3)/4)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	if len(token) > length {
		token = token[:length]
	}
	return token
}
