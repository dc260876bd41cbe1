package auth

import (
	"net/http"
	"strings"
	"time"
)

// Cookie names carrying the session tokens.
const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

// CookieConfig scopes the session cookies.
type CookieConfig struct {
	// Secure is set in production so cookies only travel over HTTPS.
	Secure bool
	Path   string
	Domain string

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// SessionCookies moves session tokens between HTTP messages and cookies.
// Cookies are always HttpOnly and SameSite=Strict.
type SessionCookies struct {
	cfg CookieConfig
}

// NewSessionCookies returns an adapter for cfg. An empty Path becomes "/".
func NewSessionCookies(cfg CookieConfig) *SessionCookies {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTokenTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTokenTTL
	}
	return &SessionCookies{cfg: cfg}
}

// Write sets a cookie for each non-empty token, with Max-Age equal to the
// token lifetime. Pass "" to leave a cookie untouched.
func (c *SessionCookies) Write(w http.ResponseWriter, access, refresh string) {
	if access != "" {
		http.SetCookie(w, c.cookie(AccessCookieName, access, int(c.cfg.AccessTTL/time.Second)))
	}
	if refresh != "" {
		http.SetCookie(w, c.cookie(RefreshCookieName, refresh, int(c.cfg.RefreshTTL/time.Second)))
	}
}

// Clear expires both cookies regardless of whether the client sent them.
func (c *SessionCookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(AccessCookieName, "", -1))
	http.SetCookie(w, c.cookie(RefreshCookieName, "", -1))
}

// Read returns the raw tokens, with "" for an absent or blank cookie.
func (c *SessionCookies) Read(r *http.Request) (access, refresh string) {
	return cookieValue(r, AccessCookieName), cookieValue(r, RefreshCookieName)
}

func (c *SessionCookies) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     c.cfg.Path,
		Domain:   c.cfg.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func cookieValue(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(ck.Value)
}
