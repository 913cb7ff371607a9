package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	flashCookie = "alert_data"
	flashTTL    = 10 * time.Second
)

type cookieJar struct {
	secure bool
}

func (c cookieJar) set(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c cookieJar) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flash kinds map onto alert styles in the layout.
const (
	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)

// Flash is a one-shot alert shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type flashClaims struct {
	Flash
	jwt.RegisteredClaims
}

// flasher stores alerts in a signed, short-lived cookie so any server process can render them.
type flasher struct {
	secret  []byte
	cookies cookieJar
	now     func() time.Time
}

func newFlasher(secret []byte, cookies cookieJar) flasher {
	return flasher{secret: secret, cookies: cookies, now: time.Now}
}

func (f flasher) set(w http.ResponseWriter, kind, message string) {
	now := f.now()
	claims := flashClaims{
		Flash: Flash{Kind: kind, Message: message},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.secret)
	if err != nil {
		log.Error().Err(err).Msg("failed to sign flash cookie")
		return
	}
	f.cookies.set(w, flashCookie, signed, flashTTL)
}

// pop returns the pending alert, if any, and clears the cookie.
func (f flasher) pop(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		if !errors.Is(err, http.ErrNoCookie) {
			log.Debug().Err(err).Msg("unreadable flash cookie")
		}
		return nil
	}
	f.cookies.clear(w, flashCookie)

	claims := &flashClaims{}
	tok, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
		return f.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(f.now),
	)
	if err != nil || !tok.Valid || claims.Message == "" {
		return nil
	}
	flash := claims.Flash
	return &flash
}
