package models

import "github.com/golang-jwt/jwt/v4"

// JwtClaims are the claims carried by tokens issued to dashboard operators.
type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
