package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func responseCookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestSessionCookies_Write(t *testing.T) {
	for _, secure := range []bool{false, true} {
		cookies := NewSessionCookies(CookieConfig{Secure: secure})
		rec := httptest.NewRecorder()

		cookies.Write(rec, "access-value", "refresh-value")

		got := responseCookies(rec)
		tests := []struct {
			name   string
			value  string
			maxAge int
		}{
			{AccessCookieName, "access-value", int((15 * time.Minute).Seconds())},
			{RefreshCookieName, "refresh-value", int((7 * 24 * time.Hour).Seconds())},
		}
		for _, tt := range tests {
			c, ok := got[tt.name]
			if !ok {
				t.Fatalf("cookie %s not set", tt.name)
			}
			if c.Value != tt.value {
				t.Errorf("%s value = %q, want %q", tt.name, c.Value, tt.value)
			}
			if c.MaxAge != tt.maxAge {
				t.Errorf("%s MaxAge = %d, want %d", tt.name, c.MaxAge, tt.maxAge)
			}
			if !c.HttpOnly {
				t.Errorf("%s must be HttpOnly", tt.name)
			}
			if c.SameSite != http.SameSiteStrictMode {
				t.Errorf("%s SameSite = %v, want Strict", tt.name, c.SameSite)
			}
			if c.Secure != secure {
				t.Errorf("%s Secure = %v, want %v", tt.name, c.Secure, secure)
			}
			if c.Path != "/" {
				t.Errorf("%s Path = %q, want /", tt.name, c.Path)
			}
		}
	}
}

func TestSessionCookies_WriteSkipsEmptyToken(t *testing.T) {
	cookies := NewSessionCookies(CookieConfig{})
	rec := httptest.NewRecorder()

	cookies.Write(rec, "access-only", "")

	got := responseCookies(rec)
	if len(got) != 1 || got[AccessCookieName] == nil {
		t.Fatalf("cookies = %v, want only %s", got, AccessCookieName)
	}
}

func TestSessionCookies_Clear(t *testing.T) {
	cookies := NewSessionCookies(CookieConfig{Secure: true})
	rec := httptest.NewRecorder()

	cookies.Clear(rec)

	got := responseCookies(rec)
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		c, ok := got[name]
		if !ok {
			t.Fatalf("Clear() did not emit %s", name)
		}
		if c.MaxAge >= 0 || c.Value != "" {
			t.Errorf("%s not expired: MaxAge=%d value=%q", name, c.MaxAge, c.Value)
		}
	}
}

func TestSessionCookies_Read(t *testing.T) {
	cookies := NewSessionCookies(CookieConfig{})

	tests := []struct {
		name        string
		cookies     []*http.Cookie
		wantAccess  string
		wantRefresh string
	}{
		{"none", nil, "", ""},
		{"both", []*http.Cookie{{Name: AccessCookieName, Value: "a"}, {Name: RefreshCookieName, Value: "r"}}, "a", "r"},
		{"refresh only", []*http.Cookie{{Name: RefreshCookieName, Value: "r"}}, "", "r"},
		{"blank access", []*http.Cookie{{Name: AccessCookieName, Value: ""}, {Name: RefreshCookieName, Value: "r"}}, "", "r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, c := range tt.cookies {
				req.AddCookie(c)
			}
			access, refresh := cookies.Read(req)
			if access != tt.wantAccess || refresh != tt.wantRefresh {
				t.Errorf("Read() = (%q, %q), want (%q, %q)", access, refresh, tt.wantAccess, tt.wantRefresh)
			}
		})
	}
}
