package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims identifies the reviewer owning a review session
type Claims struct {
	ReviewerID string `json:"reviewer_id"`
	jwt.RegisteredClaims
}
