// Package sitemap renders the HTML sitemap shown by the html_sitemap
// shortcode: a nested page list, blog categories and, when a store is
// active, product categories and products.
package sitemap

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
)

// CommerceExcludedTitles are the store pages hidden from the sitemap when a
// store is active and the shortcode carries no exclude attribute.
var CommerceExcludedTitles = []string{
	"Cart", "Checkout", "Shipping Addresses", "My Account", "Payment", "Thank you", "Sitemap",
}

const (
	defaultTitleLI         = "<h2>Pages</h2>"
	categoriesTitle        = "Blog's Categories"
	productCategoriesTitle = "Product's Categories"
	productsTitle          = "Products"
	uncategorizedID        = 1
)

// Options mirrors the page list arguments accepted by the shortcode.
type Options struct {
	ChildOf int
	Depth   int
	Exclude []int
	// ExcludeSet records an explicit exclude attribute. It replaces the
	// commerce page exclusions.
	ExcludeSet    bool
	Include       []int
	PostType      string
	PostStatus    string
	SortColumn    string
	TitleLI       string
	ExcludeTitles []string
}

// Defaults returns the shortcode attribute defaults. exclude has none: when
// absent the commerce pages are excluded.
func Defaults() map[string]string {
	return map[string]string{
		"child_of":    "0",
		"depth":       "0",
		"include":     "",
		"post_type":   "page",
		"post_status": "publish",
		"sort_column": "menu_order",
		"title_li":    defaultTitleLI,
	}
}

// OptionsFromAttributes converts merged shortcode attributes into Options.
func OptionsFromAttributes(attrs map[string]string) Options {
	exclude, excludeSet := attrs["exclude"]
	return Options{
		ChildOf:    atoi(attrs["child_of"]),
		Depth:      atoi(attrs["depth"]),
		Exclude:    parseIDs(exclude),
		ExcludeSet: excludeSet,
		Include:    parseIDs(attrs["include"]),
		PostType:   strings.TrimSpace(attrs["post_type"]),
		PostStatus: strings.TrimSpace(attrs["post_status"]),
		SortColumn: strings.TrimSpace(attrs["sort_column"]),
		TitleLI:    attrs["title_li"],
	}
}

// ParseExcludedTitles splits a textarea value into page titles, one per line
// or comma separated.
func ParseExcludedTitles(raw string) []string {
	var out []string
	for _, line := range strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == '\r' || r == ',' }) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Render builds the sitemap markup.
func Render(ctx context.Context, src Source, opts Options) (string, error) {
	if src == nil {
		return "", fmt.Errorf("sitemap: source is required")
	}
	commerce := src.CommerceActive(ctx)

	pages, err := src.Pages(ctx)
	if err != nil {
		return "", fmt.Errorf("sitemap: load pages: %w", err)
	}
	excludedTitles := append([]string(nil), opts.ExcludeTitles...)
	if commerce && !opts.ExcludeSet {
		excludedTitles = append(excludedTitles, CommerceExcludedTitles...)
	}
	pages = filterPages(pages, opts, excludedTitles)

	var b strings.Builder
	b.WriteString(`<div class="html-sitemap-links pages"><ul class="html-sitemap-links">`)
	writePageList(&b, pages, opts)
	b.WriteString(`</ul></div>`)

	categories, err := src.Categories(ctx)
	if err != nil {
		return "", fmt.Errorf("sitemap: load categories: %w", err)
	}
	b.WriteString(`<div class="html-sitemap-links categories"><ul>`)
	writeCategoryList(&b, categories, categoriesTitle)
	b.WriteString(`</ul></div>`)

	if commerce {
		productCategories, err := src.ProductCategories(ctx)
		if err != nil {
			return "", fmt.Errorf("sitemap: load product categories: %w", err)
		}
		b.WriteString(`<div class="html-sitemap-links product-categories"><ul>`)
		writeCategoryList(&b, productCategories, productCategoriesTitle)
		b.WriteString(`</ul></div>`)

		products, err := src.Products(ctx)
		if err != nil {
			return "", fmt.Errorf("sitemap: load products: %w", err)
		}
		b.WriteString(`<div class="html-sitemap-links products"><ul><li><h2>`)
		b.WriteString(productsTitle)
		b.WriteString(`</h2><ul>`)
		for _, product := range products {
			writeLink(&b, "", product.URL, product.Title)
		}
		b.WriteString(`</ul></li></ul></div>`)
	}
	return b.String(), nil
}

func filterPages(pages []Page, opts Options, excludedTitles []string) []Page {
	exclude := toSet(opts.Exclude)
	include := toSet(opts.Include)
	titles := make(map[string]struct{}, len(excludedTitles))
	for _, title := range excludedTitles {
		titles[strings.ToLower(title)] = struct{}{}
	}
	postType := opts.PostType
	if postType == "" {
		postType = "page"
	}
	status := opts.PostStatus
	if status == "" {
		status = "publish"
	}

	out := make([]Page, 0, len(pages))
	for _, page := range pages {
		if page.Type != "" && page.Type != postType {
			continue
		}
		if page.Status != "" && page.Status != status {
			continue
		}
		if _, skip := exclude[page.ID]; skip {
			continue
		}
		if len(include) > 0 {
			if _, keep := include[page.ID]; !keep {
				continue
			}
		}
		if _, skip := titles[strings.ToLower(page.Title)]; skip {
			continue
		}
		out = append(out, page)
	}

	switch opts.SortColumn {
	case "post_title":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	case "ID":
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	default:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].MenuOrder != out[j].MenuOrder {
				return out[i].MenuOrder < out[j].MenuOrder
			}
			return out[i].Title < out[j].Title
		})
	}
	return out
}

func writePageList(b *strings.Builder, pages []Page, opts Options) {
	children := make(map[int][]Page)
	known := make(map[int]struct{}, len(pages))
	for _, page := range pages {
		known[page.ID] = struct{}{}
	}
	for _, page := range pages {
		parent := page.Parent
		if _, ok := known[parent]; !ok && opts.ChildOf == 0 {
			parent = 0
		}
		children[parent] = append(children[parent], page)
	}

	title := opts.TitleLI
	if title != "" {
		b.WriteString(`<li class="pagenav">`)
		b.WriteString(title)
		b.WriteString(`<ul>`)
	}
	writePageLevel(b, children, opts.ChildOf, 1, opts.Depth)
	if title != "" {
		b.WriteString(`</ul></li>`)
	}
}

func writePageLevel(b *strings.Builder, children map[int][]Page, parent, level, depth int) {
	for _, page := range children[parent] {
		class := "page_item page-item-" + strconv.Itoa(page.ID)
		b.WriteString(`<li class="`)
		b.WriteString(class)
		b.WriteString(`"><a href="`)
		b.WriteString(html.EscapeString(page.URL))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(page.Title))
		b.WriteString(`</a>`)
		if len(children[page.ID]) > 0 && (depth <= 0 || level < depth) {
			b.WriteString(`<ul class="children">`)
			writePageLevel(b, children, page.ID, level+1, depth)
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</li>`)
	}
}

func writeCategoryList(b *strings.Builder, categories []Category, title string) {
	filtered := make([]Category, 0, len(categories))
	for _, category := range categories {
		if category.ID == uncategorizedID {
			continue
		}
		filtered = append(filtered, category)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })

	b.WriteString(`<li class="categories"><h2>`)
	b.WriteString(html.EscapeString(title))
	b.WriteString(`</h2><ul>`)
	if len(filtered) == 0 {
		b.WriteString(`<li class="cat-item-none">No categories</li>`)
	}
	for _, category := range filtered {
		writeLink(b, "cat-item cat-item-"+strconv.Itoa(category.ID), category.URL, category.Name)
	}
	b.WriteString(`</ul></li>`)
}

func writeLink(b *strings.Builder, class, href, text string) {
	b.WriteString(`<li`)
	if class != "" {
		b.WriteString(` class="`)
		b.WriteString(class)
		b.WriteString(`"`)
	}
	b.WriteString(`><a href="`)
	b.WriteString(html.EscapeString(href))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(text))
	b.WriteString(`</a></li>`)
}

func toSet(ids []int) map[int]struct{} {
	out := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func parseIDs(raw string) []int {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func atoi(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
