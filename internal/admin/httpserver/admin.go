package httpserver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-admincustomizer/pkg/hooks"
	"github.com/goliatone/go-admincustomizer/pkg/host"
	"github.com/goliatone/go-admincustomizer/pkg/orchestrator"
	"github.com/goliatone/go-admincustomizer/pkg/render"
	"github.com/goliatone/go-admincustomizer/pkg/settings"
)

const adminTemplate = "templates/admin.tmpl"

// ProfileUpdatedNotice is flashed after the profile form was saved.
var ProfileUpdatedNotice = render.Notice{Kind: render.NoticeSuccess, Message: "Profile updated."}

// contactsKeyPrefix prefixes the store key holding a user's contact methods.
const contactsKeyPrefix = "user_contacts_"

// adminInit runs admin_init for the requested screen; handlers may divert
// the request.
func (s *Server) adminInit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := stateFrom(r.Context())
		req := &host.AdminRequest{Screen: screenOf(r.URL.Path, s.base)}
		if err := hooks.DoAction(r.Context(), st.hooks, hooks.AdminInit, req); err != nil {
			s.fail(w, r, err)
			return
		}
		if req.Redirect != "" {
			http.Redirect(w, r, req.Redirect, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func screenOf(path, base string) string {
	screen := strings.Trim(strings.TrimPrefix(path, base), "/")
	if screen == "" {
		return "index.php"
	}
	return screen
}

type adminScreen struct {
	Title   string
	Screen  string
	Body    string
	Notices []render.Notice
}

func (s *Server) renderAdmin(w http.ResponseWriter, r *http.Request, status int, screen adminScreen) {
	ctx := r.Context()
	st := stateFrom(ctx)
	user := host.User{}
	if st.user != nil {
		user = *st.user
	}

	head, err := renderAction(ctx, st.hooks, hooks.AdminHead)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	notices, err := renderAction(ctx, st.hooks, hooks.AdminNotices)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	bar, err := s.adminBar(ctx, st.hooks, user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	menu, err := s.adminMenu(ctx, st.hooks)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.renderPage(w, r, status, adminTemplate, map[string]any{
		"title":         screen.Title,
		"screen":        screen.Screen,
		"head":          head,
		"admin_notices": notices,
		"notices":       render.MergeNotices(screen.Notices),
		"bar":           bar.Nodes,
		"menu":          menu.Items,
		"updates":       s.pendingUpdates(ctx, st.hooks),
		"body":          screen.Body,
		"user":          user,
		"nonce":         s.nonce(ctx),
		"logout_url":    s.adminURL("logout"),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dash, err := s.dashboard(ctx, stateFrom(ctx).hooks)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var b strings.Builder
	b.WriteString(`<div id="dashboard-widgets" class="metabox-holder">` + "\n")
	for _, widget := range dash.Widgets {
		b.WriteString(`<div id="` + escape(widget.ID) + `" class="postbox context-` + escape(widget.Context) + `">`)
		b.WriteString(`<h2 class="hndle">` + escape(widget.Title) + `</h2>`)
		if widget.Body != "" {
			b.WriteString(`<div class="inside"><p>` + escape(widget.Body) + `</p></div>`)
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</div>\n")

	s.renderAdmin(w, r, http.StatusOK, adminScreen{
		Title:   "Dashboard",
		Screen:  "index.php",
		Body:    b.String(),
		Notices: s.popFlash(ctx),
	})
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := strings.TrimSpace(r.URL.Query().Get("page"))
	tab := strings.TrimSpace(r.URL.Query().Get("tab"))

	req := orchestrator.Request{
		Page: slug,
		Tab:  tab,
		RenderOptions: render.RenderOptions{
			Hidden: render.MergeHiddenFields(nil,
				render.Nonce(s.nonce(ctx)),
				render.Referer(r.URL.RequestURI()),
			),
			Theme:   s.cfg.Theme,
			Variant: s.cfg.Variant,
		},
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		if !s.validNonce(r) {
			s.expired(w)
			return
		}
		req.Submission = r.PostForm
	} else {
		req.RenderOptions.Notices = s.popFlash(ctx)
	}

	result, err := s.gen.Handle(ctx, req)
	if err != nil {
		if errors.Is(err, settings.ErrPageNotFound) {
			http.Error(w, "Sorry, you are not allowed to access this page.", http.StatusNotFound)
			return
		}
		s.fail(w, r, err)
		return
	}

	if result.Saved {
		s.flash(ctx, render.SavedNotice)
		target := s.safeRedirect(r.PostFormValue(render.RefererField), result.View.Action)
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	s.renderAdmin(w, r, http.StatusOK, adminScreen{
		Title:  result.View.PageTitle,
		Screen: slug,
		Body:   string(result.Output),
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)
	user := *st.user
	store := s.gen.Directory().Store()
	key := contactsKeyPrefix + user.Login

	methods := hooks.ApplyFilters(ctx, st.hooks, hooks.ContactMethods, host.ContactMethods{})
	stored, _, err := store.Get(ctx, key)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		if !s.validNonce(r) {
			s.expired(w)
			return
		}
		next := settings.Blob{}
		for k, v := range stored {
			next[k] = v
		}
		for _, method := range methods {
			next[method.Key] = strings.TrimSpace(r.PostFormValue(method.Key))
		}
		if err := store.Set(ctx, key, next); err != nil {
			s.fail(w, r, err)
			return
		}
		s.flash(ctx, ProfileUpdatedNotice)
		http.Redirect(w, r, s.adminURL("profile.php"), http.StatusSeeOther)
		return
	}

	value := func(k string) string {
		if v, ok := stored[k]; ok {
			return v
		}
		return user.Contacts[k]
	}

	var b strings.Builder
	b.WriteString(`<form method="post" action="` + escape(s.adminURL("profile.php")) + `" id="your-profile">` + "\n")
	b.WriteString(`<input type="hidden" name="` + render.NonceField + `" value="` + escape(s.nonce(ctx)) + `">` + "\n")
	b.WriteString(`<h2>Contact Info</h2>` + "\n" + `<table class="form-table"><tbody>` + "\n")
	b.WriteString(`<tr class="user-email-wrap"><th>Email</th><td>` + escape(user.Email) + `</td></tr>` + "\n")
	for _, method := range methods {
		id := escape(method.Key)
		b.WriteString(`<tr class="user-` + id + `-wrap"><th><label for="` + id + `">` + escape(method.Label) + `</label></th>`)
		b.WriteString(`<td><input type="text" name="` + id + `" id="` + id + `" value="` + escape(value(method.Key)) + `" class="regular-text"></td></tr>` + "\n")
	}
	b.WriteString("</tbody></table>\n")
	b.WriteString(`<p class="submit"><input type="submit" name="submit" id="submit" class="button button-primary" value="Update Profile"></p>` + "\n</form>\n")

	s.renderAdmin(w, r, http.StatusOK, adminScreen{
		Title:   "Profile",
		Screen:  "profile.php",
		Body:    b.String(),
		Notices: s.popFlash(ctx),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	if !s.validNonce(r) {
		s.expired(w)
		return
	}
	if err := s.sessions.Destroy(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, s.loginPath+"?loggedout=true", http.StatusFound)
}

// handleScreen serves admin screens owned by the host application with an
// empty body, so menu links and admin_init redirects resolve.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	screen := chi.URLParam(r, "screen")
	s.renderAdmin(w, r, http.StatusOK, adminScreen{
		Title:  screen,
		Screen: screen,
		Body:   `<p class="description">This screen is provided by the host application.</p>`,
	})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	out, err := s.templates.RenderTemplate(name, data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, out)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("http.handler_failed",
		"path", r.URL.Path,
		"error", err,
		"request_id", chimw.GetReqID(r.Context()),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// renderAction runs a markup action and returns what its handlers wrote.
func renderAction(ctx context.Context, reg *hooks.Registry, event hooks.Event) (string, error) {
	var buf bytes.Buffer
	var w io.Writer = &buf
	if err := hooks.DoAction(ctx, reg, event, w); err != nil {
		return "", err
	}
	return buf.String(), nil
}
