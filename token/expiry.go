// Package token reads and issues the bearer tokens used against the todo API.
package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Expiry reports the exp claim of a JWT without verifying its signature. ok is false
// for opaque tokens and JWTs without an exp claim.
func Expiry(rawToken string) (exp time.Time, ok bool) {
	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return time.Time{}, false
	}
	numericDate, err := claims.GetExpirationTime()
	if err != nil || numericDate == nil {
		return time.Time{}, false
	}
	return numericDate.Time, true
}

// Expired is true only for tokens that carry an exp claim in the past. Opaque tokens
// are never considered expired locally; the API decides.
func Expired(rawToken string, now time.Time) bool {
	exp, ok := Expiry(rawToken)
	return ok && !now.Before(exp)
}
