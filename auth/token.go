package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/errs"
)

// Token lifetimes.
const (
	AccessTokenTTL  = 300 * time.Minute
	RefreshTokenTTL = 1440 * time.Minute
	ResetTokenTTL   = 2 * time.Hour
	VerifyTokenTTL  = 2 * time.Hour
)

// Purpose scopes a token to one use; a reset link cannot be replayed as a bearer token.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
	PurposeReset   Purpose = "reset"
	PurposeVerify  Purpose = "verify"
)

// Identity is what a verified token proves.
type Identity struct {
	ID       uuid.UUID
	Username string
}

type claims struct {
	ID      string  `json:"id"`
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens with one symmetric secret.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Issue signs {sub: username, id, purpose, exp}.
func (i *Issuer) Issue(id Identity, purpose Purpose, ttl time.Duration) (string, error) {
	now := i.now()
	c := claims{
		ID:      id.ID.String(),
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
}

// Pair is the login response: a short access token and a longer refresh token.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func (i *Issuer) IssuePair(id Identity) (Pair, error) {
	access, err := i.Issue(id, PurposeAccess, AccessTokenTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := i.Issue(id, PurposeRefresh, RefreshTokenTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// Verify checks signature, expiry, purpose and required claims. Every failure is the same Unauthorized error.
func (i *Issuer) Verify(raw string, purpose Purpose) (Identity, error) {
	if raw == "" {
		return Identity{}, errs.NewUnauthorizedError()
	}

	c := &claims{}
	tok, err := jwt.ParseWithClaims(raw, c, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || tok == nil || !tok.Valid {
		return Identity{}, errs.NewUnauthorizedError()
	}

	if c.Subject == "" || c.ID == "" || c.Purpose != purpose {
		return Identity{}, errs.NewUnauthorizedError()
	}
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return Identity{}, errs.NewUnauthorizedError()
	}

	return Identity{ID: id, Username: c.Subject}, nil
}
