package httpserver

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-admincustomizer/pkg/features"
	"github.com/goliatone/go-admincustomizer/pkg/hooks"
	"github.com/goliatone/go-admincustomizer/pkg/host"
	"github.com/goliatone/go-admincustomizer/pkg/interfaces"
	"github.com/goliatone/go-admincustomizer/pkg/shortcode"
)

type stateKey struct{}

// requestState is built once per request: a fresh hook registry with the
// core handlers, the toggles activated from the stored settings and the
// signed in user, if any.
type requestState struct {
	hooks      *hooks.Registry
	shortcodes *shortcode.Registry
	features   *features.Config
	active     []string
	user       *host.User
}

func stateFrom(ctx context.Context) *requestState {
	if st, ok := ctx.Value(stateKey{}).(*requestState); ok {
		return st
	}
	return &requestState{hooks: hooks.NewRegistry(), shortcodes: shortcode.NewRegistry(), features: &features.Config{}}
}

func (s *Server) withState(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, ok := ctx.Value(stateKey{}).(*requestState); ok {
			next.ServeHTTP(w, r)
			return
		}

		st := &requestState{
			hooks:      hooks.NewRegistry(),
			shortcodes: shortcode.NewRegistry(),
		}
		s.registerCore(st.hooks)

		cfg, active, err := s.gen.Features(ctx, features.Env{
			Hooks:      st.hooks,
			Shortcodes: st.shortcodes,
			Site:       s.cfg.Site,
			Content:    s.currentContent(),
			Logger:     s.logger,
			Now:        s.now,
			Random:     s.random,
		})
		if err != nil {
			s.logger.Error("http.features_failed", "error", err, "request_id", chimw.GetReqID(ctx))
		}
		if cfg == nil {
			cfg = &features.Config{}
		}
		st.features = cfg
		st.active = active

		if login := s.sessions.GetString(ctx, sessionUserKey); login != "" {
			if user, ok := s.auth.Lookup(ctx, login); ok {
				st.user = &user
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, stateKey{}, st)))
	})
}

func requestLogger(logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http.request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}
