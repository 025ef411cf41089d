package jwt

import (
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-todo-client/token/keys"
)

var (
	ErrInvalidToken = errors.New("token not valid")
	ErrRevokedToken = errors.New("token has been revoked")
)

// Claims are the verified contents of an access token.
type Claims struct {
	UserID    int       // sub claim
	Email     string    // email claim
	JTI       string    // Unique token id
	ExpiresAt time.Time // exp claim
}

// RevokedChecker is an interface for checking if a token has been revoked
type RevokedChecker interface {
	IsRevoked(jti string) bool
}

// Inspector verifies access tokens issued by a Creator with the same signer.
type Inspector struct {
	issuer  string
	signer  keys.Signer
	revoked RevokedChecker
}

// NewInspector creates an inspector. An empty issuer skips the iss check and a nil
// revoked skips the revocation check.
func NewInspector(issuer string, signer keys.Signer, revoked RevokedChecker) *Inspector {
	return &Inspector{
		issuer:  issuer,
		signer:  signer,
		revoked: revoked,
	}
}

// Verify checks the signature, expiry, issuer and revocation of rawToken. Revoked
// tokens still return their claims alongside ErrRevokedToken.
func (i *Inspector) Verify(rawToken string) (Claims, error) {
	opts := []jwtlib.ParserOption{
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
	}
	if i.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(i.issuer))
	}

	mapClaims := jwtlib.MapClaims{}
	if _, err := jwtlib.ParseWithClaims(rawToken, mapClaims, i.signer.GetVerificationKey, opts...); err != nil {
		return Claims{}, errors.Wrap(ErrInvalidToken, err.Error())
	}

	sub, err := mapClaims.GetSubject()
	if err != nil {
		return Claims{}, errors.Wrap(ErrInvalidToken, err.Error())
	}
	userID, err := strconv.Atoi(sub)
	if err != nil {
		return Claims{}, errors.Wrapf(ErrInvalidToken, "subject %q is not a user id", sub)
	}
	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, errors.Wrap(ErrInvalidToken, "missing exp")
	}

	claims := Claims{UserID: userID, ExpiresAt: exp.Time}
	claims.Email, _ = mapClaims["email"].(string)
	claims.JTI, _ = mapClaims["jti"].(string)

	if claims.JTI != "" && i.revoked != nil && i.revoked.IsRevoked(claims.JTI) {
		return claims, ErrRevokedToken
	}
	return claims, nil
}
