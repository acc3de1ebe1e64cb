package httpserver

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"

	"github.com/goliatone/go-admincustomizer/pkg/render"
)

const (
	sessionNonceKey = "nonce"
	flashKey        = "flash"
	flashTypeKey    = "flash_type"
)

// nonce returns the form token of the session, creating it on first use.
func (s *Server) nonce(ctx context.Context) string {
	token := s.sessions.GetString(ctx, sessionNonceKey)
	if token == "" {
		token = uuid.NewString()
		s.sessions.Put(ctx, sessionNonceKey, token)
	}
	return token
}

func (s *Server) validNonce(r *http.Request) bool {
	expected := s.sessions.GetString(r.Context(), sessionNonceKey)
	got := r.PostFormValue(render.NonceField)
	if expected == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

func (s *Server) flash(ctx context.Context, notice render.Notice) {
	s.sessions.Put(ctx, flashKey, notice.Message)
	s.sessions.Put(ctx, flashTypeKey, string(notice.Kind))
}

func (s *Server) popFlash(ctx context.Context) []render.Notice {
	message := s.sessions.PopString(ctx, flashKey)
	kind := s.sessions.PopString(ctx, flashTypeKey)
	if message == "" {
		return nil
	}
	return []render.Notice{{Kind: render.NoticeKind(kind), Message: message}}
}

func (s *Server) expired(w http.ResponseWriter) {
	http.Error(w, "The link you followed has expired.", http.StatusForbidden)
}
