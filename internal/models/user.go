package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the administrator account stored in the 'users' table. Only
// one row ever exists; it is seeded at startup from configuration.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Claims defines the structure of the JWT session claims.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
