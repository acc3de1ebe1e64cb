package sitemap

import (
	"context"
	"slices"
)

// Page is a published page of the site.
type Page struct {
	ID        int    `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	URL       string `json:"url" yaml:"url"`
	Parent    int    `json:"parent,omitempty" yaml:"parent"`
	MenuOrder int    `json:"menuOrder,omitempty" yaml:"menu_order"`
	Status    string `json:"status,omitempty" yaml:"status"`
	Type      string `json:"type,omitempty" yaml:"type"`
}

// Category is a blog or product category.
type Category struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	URL    string `json:"url" yaml:"url"`
	Parent int    `json:"parent,omitempty" yaml:"parent"`
}

// Product is a store product.
type Product struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// Source supplies site content to the sitemap renderer.
type Source interface {
	Pages(ctx context.Context) ([]Page, error)
	Categories(ctx context.Context) ([]Category, error)
	ProductCategories(ctx context.Context) ([]Category, error)
	Products(ctx context.Context) ([]Product, error)
	CommerceActive(ctx context.Context) bool
}

// StaticSource serves content declared up front, typically from the
// configuration file.
type StaticSource struct {
	PageList            []Page     `yaml:"pages"`
	CategoryList        []Category `yaml:"categories"`
	ProductCategoryList []Category `yaml:"product_categories"`
	ProductList         []Product  `yaml:"products"`
	Commerce            bool       `yaml:"commerce"`
}

var _ Source = (*StaticSource)(nil)

func (s *StaticSource) Pages(context.Context) ([]Page, error) {
	return slices.Clone(s.PageList), nil
}

func (s *StaticSource) Categories(context.Context) ([]Category, error) {
	return slices.Clone(s.CategoryList), nil
}

func (s *StaticSource) ProductCategories(context.Context) ([]Category, error) {
	return slices.Clone(s.ProductCategoryList), nil
}

func (s *StaticSource) Products(context.Context) ([]Product, error) {
	return slices.Clone(s.ProductList), nil
}

func (s *StaticSource) CommerceActive(context.Context) bool { return s.Commerce }
