package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "pharmafhe-client"
	tokenValidity = 5 * time.Minute
)

// Claims identify the active account to the relayer.
type Claims struct {
	jwt.RegisteredClaims
	Account string `json:"account"`
}

// GenerateToken signs a short-lived HS256 bearer token for account.
func GenerateToken(account string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   account,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Account: account,
	})

	return token.SignedString(secretKey)
}

// AccountFromToken validates tokenString and returns the account it was
// issued for. The relayer side of the handshake; used by tests.
func AccountFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	return claims.Account, nil
}
