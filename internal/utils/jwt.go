package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type jwtCustomClaims struct {
	MobilePhone string `json:"mobile_phone"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for the provided mobile phone number.
func GenerateToken(secret, mobilePhone string, ttl time.Duration) (string, error) {
	claims := &jwtCustomClaims{
		MobilePhone: mobilePhone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   mobilePhone,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the embedded mobile phone number.
// Expired, malformed and badly signed tokens all fail here.
func ParseToken(secret, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(*jwtCustomClaims); ok && token.Valid {
		return claims.MobilePhone, nil
	}

	return "", jwt.ErrTokenInvalidClaims
}
