package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the caller identity carried in JWTs. The transfer
// engine only ever sees the resolved account id; token issuance and
// verification live in the auth service and middleware.
type UserClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
}
