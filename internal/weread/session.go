package weread

import (
	"net/http"
	"strings"
)

// DefaultUserAgent mimics a desktop browser; the API refuses requests with
// an obviously non-browser identity.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Session carries the cookie-derived credentials and the client identity
// header used for every request within one export run. After Warmup it is
// shared read-only between all fetchers.
type Session struct {
	cookies   []*http.Cookie
	userAgent string
}

// NewSession parses a semicolon-delimited cookie header string into a
// session. Returns ErrEmptyCookie when no name=value pair can be extracted.
func NewSession(cookieString, userAgent string) (*Session, error) {
	cookies := parseCookieString(cookieString)
	if len(cookies) == 0 {
		return nil, ErrEmptyCookie
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Session{cookies: cookies, userAgent: userAgent}, nil
}

// Credentials returns the parsed name=value pairs.
func (s *Session) Credentials() map[string]string {
	creds := make(map[string]string, len(s.cookies))
	for _, c := range s.cookies {
		creds[c.Name] = c.Value
	}
	return creds
}

// UserAgent returns the client identity header value.
func (s *Session) UserAgent() string {
	return s.userAgent
}

// apply attaches the session's cookies and identity header to a request.
func (s *Session) apply(req *http.Request) {
	req.Header.Set("User-Agent", s.userAgent)
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
}

// absorb merges server-set cookies into the session, replacing any pair
// with the same name. Called once, from Warmup.
func (s *Session) absorb(cookies []*http.Cookie) {
	for _, c := range cookies {
		replaced := false
		for i, existing := range s.cookies {
			if existing.Name == c.Name {
				s.cookies[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			s.cookies = append(s.cookies, c)
		}
	}
}

func parseCookieString(cookieString string) []*http.Cookie {
	var cookies []*http.Cookie
	for _, pair := range strings.Split(cookieString, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, found := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: name, Value: strings.TrimSpace(value)})
	}
	return cookies
}
