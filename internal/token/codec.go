package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tisk/backend/internal/model"
)

// minSecretBytes is the smallest key HS256 is allowed to run with here.
const minSecretBytes = 32

var (
	ErrBadSecret    = errors.New("jwt secret invalid")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// AccessClaims is the payload of a short-lived access token. The subject is
// the account email; id/role/names ride along so the request layer never has
// to hit the store to render the caller.
type AccessClaims struct {
	AccountID string     `json:"id"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the account id next to the registered claims.
type RefreshClaims struct {
	AccountID string `json:"id"`
	jwt.RegisteredClaims
}

// Codec signs and verifies both token kinds with a single shared secret.
// The secret is validated once at construction and immutable afterwards.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(base64Secret string, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	secret, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid base64", ErrBadSecret)
	}
	if len(secret) < minSecretBytes {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrBadSecret, minSecretBytes, len(secret))
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("%w: token TTLs must be positive", ErrBadSecret)
	}
	return &Codec{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

func (c *Codec) AccessTTL() time.Duration {
	return c.accessTTL
}

func (c *Codec) IssueAccess(acct *model.Account) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		AccountID: acct.ID.String(),
		Email:     acct.Email,
		Role:      acct.Role,
		FirstName: acct.FirstName,
		LastName:  acct.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *Codec) IssueRefresh(acct *model.Account) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		AccountID: acct.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// DecodeAccess verifies signature and expiry and returns the typed claims.
// Expiry is reported as ErrTokenExpired only when the signature checked out;
// everything else collapses to ErrTokenInvalid.
func (c *Codec) DecodeAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := c.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.AccountID == "" || claims.Email == "" || claims.Role == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (c *Codec) DecodeRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := c.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// IsValidFor reports whether the token verifies, is unexpired, and was
// issued to the given account. Decode failures are swallowed; callers that
// need the expired/invalid distinction use DecodeAccess/DecodeRefresh.
func (c *Codec) IsValidFor(tokenStr string, acct *model.Account) bool {
	claims := &RefreshClaims{}
	if err := c.parse(tokenStr, claims); err != nil {
		return false
	}
	return claims.Subject == acct.Email
}

func (c *Codec) parse(tokenStr string, claims jwt.Claims) error {
	tok, err := jwt.ParseWithClaims(tokenStr, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !tok.Valid {
		return ErrTokenInvalid
	}
	return nil
}

func (c *Codec) keyFunc(*jwt.Token) (interface{}, error) {
	return c.secret, nil
}
