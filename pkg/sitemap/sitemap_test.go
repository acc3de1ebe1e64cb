package sitemap

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

func fixtureSource(commerce bool) *StaticSource {
	return &StaticSource{
		PageList: []Page{
			{ID: 10, Title: "About", URL: "/about", MenuOrder: 2},
			{ID: 11, Title: "Team", URL: "/about/team", Parent: 10},
			{ID: 12, Title: "History", URL: "/about/team/history", Parent: 11},
			{ID: 20, Title: "Home", URL: "/", MenuOrder: 1},
			{ID: 30, Title: "Cart", URL: "/cart", MenuOrder: 3},
			{ID: 40, Title: "Draft", URL: "/draft", Status: "draft"},
		},
		CategoryList: []Category{
			{ID: 1, Name: "Uncategorized", URL: "/c/uncategorized"},
			{ID: 3, Name: "News", URL: "/c/news"},
			{ID: 2, Name: "Guides", URL: "/c/guides"},
		},
		ProductCategoryList: []Category{{ID: 7, Name: "Shirts", URL: "/pc/shirts"}},
		ProductList:         []Product{{ID: 100, Title: "Blue Shirt", URL: "/p/blue"}},
		Commerce:            commerce,
	}
}

func parse(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func TestRenderWithoutCommerce(t *testing.T) {
	markup, err := Render(context.Background(), fixtureSource(false), OptionsFromAttributes(Defaults()))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := parse(t, markup)

	pages := texts(doc.Find("div.pages li.pagenav > ul > li > a"))
	if diff := cmp.Diff([]string{"Home", "About", "Cart"}, pages); diff != "" {
		t.Fatalf("top-level pages mismatch (-want +got):\n%s", diff)
	}
	if got := doc.Find("li.page-item-10 ul.children li.page-item-11 ul.children li.page-item-12").Length(); got != 1 {
		t.Fatalf("expected nested history page, got %d", got)
	}
	if doc.Find("li.pagenav h2").Text() != "Pages" {
		t.Fatalf("missing pages heading")
	}

	cats := texts(doc.Find("div.categories li.cat-item a"))
	if diff := cmp.Diff([]string{"Guides", "News"}, cats); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}
	if doc.Find("div.products").Length() != 0 || doc.Find("div.product-categories").Length() != 0 {
		t.Fatal("store sections rendered without commerce")
	}
}

func TestRenderWithCommerceExcludesStorePages(t *testing.T) {
	markup, err := Render(context.Background(), fixtureSource(true), OptionsFromAttributes(Defaults()))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := parse(t, markup)

	if doc.Find("li.page-item-30").Length() != 0 {
		t.Fatal("cart page should be excluded when commerce is active")
	}
	if got := texts(doc.Find("div.product-categories li.cat-item a")); len(got) != 1 || got[0] != "Shirts" {
		t.Fatalf("unexpected product categories %v", got)
	}
	if got := texts(doc.Find("div.products li ul li a")); len(got) != 1 || got[0] != "Blue Shirt" {
		t.Fatalf("unexpected products %v", got)
	}
}

func TestRenderExplicitExcludeReplacesCommercePages(t *testing.T) {
	attrs := Defaults()
	attrs["exclude"] = "20"
	markup, err := Render(context.Background(), fixtureSource(true), OptionsFromAttributes(attrs))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := parse(t, markup)

	if doc.Find("li.page-item-30").Length() != 1 {
		t.Fatal("cart page should render when exclude is given")
	}
	if doc.Find("li.page-item-20").Length() != 0 {
		t.Fatal("explicitly excluded page rendered")
	}
}

func TestRenderHonoursDepthExcludeAndTitles(t *testing.T) {
	attrs := Defaults()
	attrs["depth"] = "2"
	attrs["exclude"] = "20"
	attrs["title_li"] = ""
	opts := OptionsFromAttributes(attrs)
	opts.ExcludeTitles = ParseExcludedTitles("Cart\n")

	markup, err := Render(context.Background(), fixtureSource(false), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := parse(t, markup)

	if doc.Find("li.pagenav").Length() != 0 {
		t.Fatal("empty title_li should drop the wrapper")
	}
	if doc.Find("li.page-item-20").Length() != 0 || doc.Find("li.page-item-30").Length() != 0 {
		t.Fatal("excluded pages rendered")
	}
	if doc.Find("li.page-item-11").Length() != 1 || doc.Find("li.page-item-12").Length() != 0 {
		t.Fatal("depth limit not applied")
	}
}

func TestParseHelpers(t *testing.T) {
	if diff := cmp.Diff([]int{4, 5}, parseIDs("4, x, 5,")); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Cart", "My Account", "Sitemap"}, ParseExcludedTitles("Cart\r\n My Account ,Sitemap\n\n")); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}
}
