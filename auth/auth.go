package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/deckforge/deckforge-api/models"
)

// CreateToken issues the first-party session token set as a cookie by the
// users endpoint.
func CreateToken(ident models.Identity) (string, error) {
	secretKeyStr := os.Getenv("JWT_SECRET_KEY")
	if secretKeyStr == "" {
		return "", fmt.Errorf("auth.go: JWT_SECRET_KEY not set")
	}

	secretKey := []byte(secretKeyStr)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"sub":   ident.ID,
			"name":  ident.DisplayName,
			"email": ident.Email,
			"exp":   time.Now().Add(time.Hour * 24).Unix(),
		})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyToken checks a session token and rebuilds the identity snapshot
// carried in its claims.
func VerifyToken(tokenString string) (models.Identity, error) {
	secretKeyStr := os.Getenv("JWT_SECRET_KEY")
	if secretKeyStr == "" {
		return models.Identity{}, fmt.Errorf("auth.go: JWT secret key not set")
	}

	secretKey := []byte(secretKeyStr)
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return models.Identity{}, err
	}
	if !token.Valid {
		return models.Identity{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, fmt.Errorf("unexpected claims type")
	}

	ident := models.Identity{}
	if sub, ok := claims["sub"].(string); ok {
		ident.ID = sub
	}
	if name, ok := claims["name"].(string); ok {
		ident.DisplayName = name
	}
	if email, ok := claims["email"].(string); ok {
		ident.Email = email
	}
	if ident.ID == "" {
		return models.Identity{}, fmt.Errorf("token missing subject")
	}
	return ident, nil
}
