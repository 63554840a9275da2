// Package auth mints and parses the HS256 JWTs issued by CreateJWT.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the standard claims plus the user and session the token
// was minted for. Subject holds the user ID as well.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

func GenerateToken(userID, sessionID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:    userID,
		SessionID: sessionID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies tokenString and returns its claims. Expired tokens
// yield common.ErrTokenExpired; any other failure common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
