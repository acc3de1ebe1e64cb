package httpserver

import (
	"html"
	"net/http"
	"sort"
	"strings"

	"github.com/goliatone/go-admincustomizer/pkg/features"
	"github.com/goliatone/go-admincustomizer/pkg/hooks"
	"github.com/goliatone/go-admincustomizer/pkg/host"
)

const frontTemplate = "templates/front.tmpl"

// SitemapContent is the body of the sitemap page.
const SitemapContent = "[" + features.SitemapShortcodeTag + "]"

func escape(value string) string { return html.EscapeString(value) }

func (s *Server) handleFront(w http.ResponseWriter, r *http.Request) {
	pages, err := s.currentContent().Pages(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].MenuOrder < pages[j].MenuOrder })

	var b strings.Builder
	b.WriteString(`<ul class="pages">` + "\n")
	for _, p := range pages {
		if p.Parent != 0 {
			continue
		}
		b.WriteString(`<li><a href="` + escape(p.URL) + `">` + escape(p.Title) + "</a></li>\n")
	}
	b.WriteString("</ul>\n")
	s.renderFront(w, r, s.cfg.Site.Name, b.String())
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	body, err := stateFrom(r.Context()).shortcodes.Expand(r.Context(), SitemapContent)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderFront(w, r, "Sitemap", body)
}

func (s *Server) renderFront(w http.ResponseWriter, r *http.Request, title, body string) {
	ctx := r.Context()
	st := stateFrom(ctx)

	assets := &host.Assets{}
	if err := hooks.DoAction(ctx, st.hooks, hooks.EnqueueScripts, assets); err != nil {
		s.fail(w, r, err)
		return
	}
	head, err := renderAction(ctx, st.hooks, hooks.SiteHead)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	footer, err := renderAction(ctx, st.hooks, hooks.SiteFooter)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.renderPage(w, r, http.StatusOK, frontTemplate, map[string]any{
		"title":   title,
		"styles":  assets.Styles,
		"scripts": assets.Scripts,
		"head":    head,
		"body":    body,
		"footer":  footer,
	})
}
