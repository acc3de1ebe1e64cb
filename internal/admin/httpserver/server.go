package httpserver

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-admincustomizer/internal/logging"
	"github.com/goliatone/go-admincustomizer/pkg/host"
	"github.com/goliatone/go-admincustomizer/pkg/interfaces"
	"github.com/goliatone/go-admincustomizer/pkg/orchestrator"
	rendertemplate "github.com/goliatone/go-admincustomizer/pkg/render/template"
	gotemplate "github.com/goliatone/go-admincustomizer/pkg/render/template/gotemplate"
	"github.com/goliatone/go-admincustomizer/pkg/renderers/vanilla"
	"github.com/goliatone/go-admincustomizer/pkg/sitemap"
)

// SettingsScreen is the admin screen that serves settings pages.
const SettingsScreen = "admin.php"

// Config holds runtime options for the admin HTTP server.
type Config struct {
	Address         string
	AdminPath       string
	LoginPath       string
	SessionLifetime time.Duration
	SecureCookies   bool
	Site            host.Site
	Theme           string
	Variant         string
}

// SettingsPath returns the URL settings pages are served at for an admin
// path. Directories handed to the server must build page URLs against it.
func SettingsPath(adminPath string) string {
	base := normalizeBasePath(adminPath)
	if base == "/" {
		return "/" + SettingsScreen
	}
	return base + "/" + SettingsScreen
}

// Option customises the server.
type Option func(*Server)

// WithAuthenticator replaces the account backend.
func WithAuthenticator(auth Authenticator) Option {
	return func(s *Server) {
		if auth != nil {
			s.auth = auth
		}
	}
}

// WithSessionManager injects the session manager, for example one backed by
// a shared store.
func WithSessionManager(sm *scs.SessionManager) Option {
	return func(s *Server) {
		if sm != nil {
			s.sessions = sm
		}
	}
}

// WithContent sets the site content used by the sitemap shortcode.
func WithContent(src sitemap.Source) Option {
	return func(s *Server) {
		if src != nil {
			s.content = src
		}
	}
}

// WithCaptchaVerifier replaces the reCAPTCHA verification client.
func WithCaptchaVerifier(v CaptchaVerifier) Option {
	return func(s *Server) {
		if v != nil {
			s.captcha = v
		}
	}
}

// WithUpdateChecker sets the source of pending core, plugin and theme
// updates shown in the update nag.
func WithUpdateChecker(fn UpdateChecker) Option {
	return func(s *Server) {
		if fn != nil {
			s.updates = fn
		}
	}
}

// WithMaintenanceNotice shows message as the maintenance nag on admin
// screens.
func WithMaintenanceNotice(message string) Option {
	return func(s *Server) {
		s.maintenance = strings.TrimSpace(message)
	}
}

// WithLogger sets the logger used for request and failure logs.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source handed to feature toggles.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRandom overrides the random source handed to feature toggles.
func WithRandom(fn func(n int) int) Option {
	return func(s *Server) {
		if fn != nil {
			s.random = fn
		}
	}
}

// WithTemplateRenderer replaces the engine used for the admin chrome, the
// login screen and the front pages.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.templates = renderer
		}
	}
}

// Server serves the admin area, the login screen and the public pages whose
// output feature toggles change.
type Server struct {
	cfg         Config
	base        string
	loginPath   string
	gen         *orchestrator.Orchestrator
	auth        Authenticator
	sessions    *scs.SessionManager
	templates   rendertemplate.TemplateRenderer
	captcha     CaptchaVerifier
	updates     UpdateChecker
	maintenance string
	logger      interfaces.Logger
	now         func() time.Time
	random      func(n int) int

	mu      sync.RWMutex
	content sitemap.Source

	handler http.Handler
}

// New wires the router, sessions and templates around gen.
func New(cfg Config, gen *orchestrator.Orchestrator, opts ...Option) (*Server, error) {
	if gen == nil {
		return nil, fmt.Errorf("httpserver: orchestrator is required")
	}
	s := &Server{
		cfg:     cfg,
		base:    normalizeBasePath(cfg.AdminPath),
		gen:     gen,
		auth:    NewUserAuthenticator(nil),
		captcha: NewRecaptchaVerifier(nil),
		updates: noUpdates,
		logger:  logging.NoOp(),
		now:     time.Now,
		content: &sitemap.StaticSource{},
	}
	s.loginPath = resolveLoginPath(cfg.LoginPath)
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.sessions == nil {
		s.sessions = scs.New()
		s.sessions.Cookie.Name = "admincustomizer_session"
		s.sessions.Cookie.Path = "/"
		s.sessions.Cookie.HttpOnly = true
		s.sessions.Cookie.SameSite = http.SameSiteLaxMode
		s.sessions.Cookie.Secure = cfg.SecureCookies
		if cfg.SessionLifetime > 0 {
			s.sessions.Lifetime = cfg.SessionLifetime
		}
	}
	globals := map[string]any{"site": cfg.Site}
	if s.templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(templatesFS()),
			gotemplate.WithGlobalData(globals),
		)
		if err != nil {
			return nil, fmt.Errorf("httpserver: configure templates: %w", err)
		}
		s.templates = engine
	} else if err := s.templates.GlobalContext(globals); err != nil {
		return nil, fmt.Errorf("httpserver: template globals: %w", err)
	}

	s.handler = s.sessions.LoadAndSave(s.routes())
	return s, nil
}

// Handler returns the root handler including session loading.
func (s *Server) Handler() http.Handler { return s.handler }

// HTTPServer returns an http.Server for the configured address.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// SetContent swaps the site content, e.g. after the configuration file
// changed.
func (s *Server) SetContent(src sitemap.Source) {
	if src == nil {
		return
	}
	s.mu.Lock()
	s.content = src
	s.mu.Unlock()
}

func (s *Server) currentContent() sitemap.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(60 * time.Second))

	router.Handle(assetsPrefix(s.cfg.Site.AssetsURL)+"*", http.StripPrefix(
		assetsPrefix(s.cfg.Site.AssetsURL),
		http.FileServer(http.FS(layeredFS{staticFS(), vanilla.AssetsFS()})),
	))

	router.Group(func(r chi.Router) {
		r.Use(s.withState)
		r.Get("/", s.handleFront)
		r.Get("/sitemap", s.handleSitemap)
		r.Get(s.loginPath, s.handleLoginForm)
		r.Post(s.loginPath, s.handleLoginSubmit)
	})

	router.Route(s.base, func(r chi.Router) {
		r.Use(noStore)
		r.Use(s.withState)
		r.Use(s.requireUser)
		r.Use(s.adminInit)

		r.Get("/", s.handleDashboard)
		r.Get("/index.php", s.handleDashboard)
		r.Get("/"+SettingsScreen, s.handleSettings)
		r.Post("/"+SettingsScreen, s.handleSettings)
		r.Get("/profile.php", s.handleProfile)
		r.Post("/profile.php", s.handleProfile)
		r.Post("/logout", s.handleLogout)
		r.Get("/{screen}", s.handleScreen)
	})
	return router
}

func (s *Server) adminURL(screen string) string {
	if s.base == "/" {
		return "/" + screen
	}
	return s.base + "/" + screen
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func normalizeBasePath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return "/admin"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}

func resolveLoginPath(override string) string {
	if p := strings.TrimSpace(override); p != "" {
		return normalizeBasePath(p)
	}
	return "/login"
}

func assetsPrefix(assetsURL string) string {
	p := strings.TrimSpace(assetsURL)
	if p == "" || strings.Contains(p, "://") {
		p = "/assets"
	}
	return normalizeBasePath(p) + "/"
}

// layeredFS serves the first file found across its layers.
type layeredFS []fs.FS

func (l layeredFS) Open(name string) (fs.File, error) {
	var lastErr error = fs.ErrNotExist
	for _, layer := range l {
		f, err := layer.Open(name)
		if err == nil {
			return f, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
