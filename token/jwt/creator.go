package jwt

import (
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-todo-client/token/keys"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Creator handles access token creation for the mock API.
type Creator struct {
	issuer string
	expiry time.Duration
	signer keys.Signer
}

// NewCreator creates a new JWT creator
func NewCreator(issuer string, expiry time.Duration, signer keys.Signer) *Creator {
	return &Creator{
		issuer: issuer,
		expiry: expiry,
		signer: signer,
	}
}

// CreateAccessToken creates a bearer access token for a user
func (c *Creator) CreateAccessToken(userID int, email string) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"iss":        c.issuer,                 // The issuer of the token
		"sub":        strconv.Itoa(userID),     // The user the token was issued to
		"email":      email,                    // Convenience claim for clients
		"token_type": "access",                 // Matches the simplejwt convention
		"iat":        now.Unix(),               // Issued At
		"exp":        now.Add(c.expiry).Unix(), // Expiry
		"jti":        uuid.New().String(),      // Unique token ID for revocation
	}

	signedToken, err := c.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign JWT token")
	}
	return signedToken, nil
}
