package httpserver

import (
	"net"
	"net/http"
	"strings"

	"github.com/goliatone/go-admincustomizer/pkg/hooks"
	"github.com/goliatone/go-admincustomizer/pkg/host"
)

const loginTemplate = "templates/login.tmpl"

// Messages shown on the login screen.
const (
	MessageInvalidLogin = "Invalid username or password."
	MessageCaptcha      = "Please verify that you are not a robot."
	MessageLoggedOut    = "You are now logged out."
)

type loginState struct {
	Login      string
	RedirectTo string
	Remember   bool
	Error      string
	Message    string
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	redirectTo := r.URL.Query().Get("redirect_to")
	if st.user != nil {
		http.Redirect(w, r, s.loginRedirect(r, *st.user, redirectTo), http.StatusFound)
		return
	}
	state := loginState{RedirectTo: redirectTo}
	if r.URL.Query().Get("loggedout") == "true" {
		state.Message = MessageLoggedOut
	}
	s.renderLogin(w, r, http.StatusOK, state)
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		s.renderLogin(w, r, http.StatusBadRequest, loginState{Error: MessageInvalidLogin})
		return
	}
	state := loginState{
		Login:      strings.TrimSpace(r.PostFormValue("log")),
		RedirectTo: r.PostFormValue("redirect_to"),
		Remember:   r.PostFormValue("rememberme") != "",
	}

	google := stateFrom(ctx).features.Google
	if google.RecaptchaSiteKey != "" && google.RecaptchaSecretKey != "" {
		ok, err := s.captcha.Verify(ctx, google.RecaptchaSecretKey, r.PostFormValue("g-recaptcha-response"), remoteIP(r))
		if err != nil {
			s.logger.Warn("http.captcha_failed", "error", err)
		}
		if !ok {
			state.Error = MessageCaptcha
			s.renderLogin(w, r, http.StatusUnauthorized, state)
			return
		}
	}

	user, err := s.auth.Authenticate(ctx, state.Login, r.PostFormValue("pwd"))
	if err != nil {
		s.logger.Info("http.login_failed", "login", state.Login)
		state.Error = MessageInvalidLogin
		s.renderLogin(w, r, http.StatusUnauthorized, state)
		return
	}

	if err := s.sessions.RenewToken(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	s.sessions.Put(ctx, sessionUserKey, user.Login)
	s.sessions.RememberMe(ctx, state.Remember)
	s.logger.Info("http.login", "login", user.Login, "role", user.Role)

	http.Redirect(w, r, s.loginRedirect(r, user, state.RedirectTo), http.StatusFound)
}

func (s *Server) loginRedirect(r *http.Request, user host.User, requested string) string {
	admin := s.adminURL("")
	to := s.safeRedirect(requested, admin)
	redirect := hooks.ApplyFilters(r.Context(), stateFrom(r.Context()).hooks, hooks.LoginRedirect, host.Redirect{
		To:        to,
		Requested: requested,
		User:      user,
	})
	return s.safeRedirect(redirect.To, admin)
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, state loginState) {
	ctx := r.Context()
	st := stateFrom(ctx)

	assets := &host.Assets{}
	if err := hooks.DoAction(ctx, st.hooks, hooks.LoginEnqueue, assets); err != nil {
		s.fail(w, r, err)
		return
	}
	sections := map[string]string{}
	for key, event := range map[string]hooks.Event{
		"head":   hooks.LoginHead,
		"header": hooks.LoginHeader,
		"form":   hooks.LoginForm,
		"footer": hooks.LoginFooter,
	} {
		out, err := renderAction(ctx, st.hooks, event)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		sections[key] = out
	}

	s.renderPage(w, r, status, loginTemplate, map[string]any{
		"action":       s.loginPath,
		"styles":       assets.Styles,
		"scripts":      assets.Scripts,
		"head":         sections["head"],
		"header":       sections["header"],
		"form_extra":   sections["form"],
		"footer":       sections["footer"],
		"header_url":   hooks.ApplyFilters(ctx, st.hooks, hooks.LoginHeaderURL, s.cfg.Site.URL),
		"header_title": hooks.ApplyFilters(ctx, st.hooks, hooks.LoginHeaderTitle, "Powered by "+s.cfg.Site.Name),
		"login":        state.Login,
		"redirect_to":  state.RedirectTo,
		"remember":     state.Remember,
		"error":        state.Error,
		"message":      state.Message,
	})
}

func remoteIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
