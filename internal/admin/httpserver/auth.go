package httpserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-admincustomizer/internal/config"
	"github.com/goliatone/go-admincustomizer/pkg/host"
)

const sessionUserKey = "user"

// ErrInvalidCredentials is returned when a login does not match an account.
var ErrInvalidCredentials = errors.New("httpserver: invalid username or password")

// Authenticator resolves accounts for the login screen and the session.
type Authenticator interface {
	Authenticate(ctx context.Context, login, password string) (host.User, error)
	Lookup(ctx context.Context, login string) (host.User, bool)
}

type userAuthenticator struct {
	users map[string]config.User
}

// NewUserAuthenticator authenticates against the accounts of the
// configuration file.
func NewUserAuthenticator(users []config.User) Authenticator {
	index := make(map[string]config.User, len(users))
	for _, u := range users {
		index[strings.ToLower(strings.TrimSpace(u.Login))] = u
	}
	return &userAuthenticator{users: index}
}

func (a *userAuthenticator) Authenticate(_ context.Context, login, password string) (host.User, error) {
	u, ok := a.users[strings.ToLower(strings.TrimSpace(login))]
	if !ok || password == "" {
		return host.User{}, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return host.User{}, ErrInvalidCredentials
	}
	return u.HostUser(), nil
}

func (a *userAuthenticator) Lookup(_ context.Context, login string) (host.User, bool) {
	u, ok := a.users[strings.ToLower(strings.TrimSpace(login))]
	if !ok {
		return host.User{}, false
	}
	return u.HostUser(), true
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if stateFrom(r.Context()).user == nil {
			target := s.loginPath + "?redirect_to=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// safeRedirect keeps redirects on this site: relative paths and absolute
// URLs under the site URL pass, anything else becomes fallback.
func (s *Server) safeRedirect(target, fallback string) string {
	target = strings.TrimSpace(target)
	switch {
	case target == "":
		return fallback
	case strings.HasPrefix(target, "/"):
		if localPath(target) {
			return target
		}
		return fallback
	case s.cfg.Site.URL != "" && (target == s.cfg.Site.URL || strings.HasPrefix(target, s.cfg.Site.URL+"/")):
		return target
	default:
		return fallback
	}
}

// localPath reports whether target stays on this host once browsers read
// backslashes as slashes.
func localPath(target string) bool {
	normalized := strings.ReplaceAll(target, `\`, "/")
	if strings.HasPrefix(normalized, "//") {
		return false
	}
	u, err := url.Parse(normalized)
	return err == nil && u.Scheme == "" && u.Host == ""
}
