// Package shortcode expands self-closing [tag attr="value"] markers in
// content through registered handlers.
package shortcode

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Attributes are the lower-cased attributes of one shortcode occurrence.
type Attributes map[string]string

// Merge applies defaults the way shortcode attributes are normalised: only
// keys present in defaults survive, missing keys take the default.
func (a Attributes) Merge(defaults map[string]string) Attributes {
	out := make(Attributes, len(defaults))
	for key, value := range defaults {
		if given, ok := a[key]; ok {
			out[key] = given
			continue
		}
		out[key] = value
	}
	return out
}

// Handler renders one shortcode occurrence.
type Handler func(ctx context.Context, attrs Attributes) (string, error)

var (
	tagPattern  = regexp.MustCompile(`\[([A-Za-z0-9_-]+)((?:\s+[^\]]*)?)\s*/?\]`)
	attrPattern = regexp.MustCompile(`([\w-]+)\s*=\s*"([^"]*)"|([\w-]+)\s*=\s*'([^']*)'|([\w-]+)\s*=\s*([^\s'"]+)`)
)

// Registry maps tags to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Add registers handler under tag, replacing any previous handler.
func (r *Registry) Add(tag string, handler Handler) error {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return fmt.Errorf("shortcode: tag is required")
	}
	if handler == nil {
		return fmt.Errorf("shortcode: handler for %q is nil", tag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[tag] = handler
	return nil
}

// Remove unregisters tag.
func (r *Registry) Remove(tag string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, strings.ToLower(strings.TrimSpace(tag)))
}

// Has reports whether tag is registered.
func (r *Registry) Has(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// Tags returns the registered tags sorted.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for tag := range r.handlers {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Expand replaces every registered shortcode in content with its handler
// output. Unknown tags are left untouched.
func (r *Registry) Expand(ctx context.Context, content string) (string, error) {
	matches := tagPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		tag := strings.ToLower(content[m[2]:m[3]])
		r.mu.RLock()
		handler, ok := r.handlers[tag]
		r.mu.RUnlock()
		if !ok {
			continue
		}
		var rawAttrs string
		if m[4] >= 0 {
			rawAttrs = content[m[4]:m[5]]
		}
		rendered, err := handler(ctx, ParseAttributes(rawAttrs))
		if err != nil {
			return "", fmt.Errorf("shortcode: render %q: %w", tag, err)
		}
		b.WriteString(content[last:m[0]])
		b.WriteString(rendered)
		last = m[1]
	}
	b.WriteString(content[last:])
	return b.String(), nil
}

// ParseAttributes parses name="value", name='value' and name=value pairs.
func ParseAttributes(raw string) Attributes {
	attrs := Attributes{}
	for _, m := range attrPattern.FindAllStringSubmatch(raw, -1) {
		switch {
		case m[1] != "":
			attrs[strings.ToLower(m[1])] = m[2]
		case m[3] != "":
			attrs[strings.ToLower(m[3])] = m[4]
		case m[5] != "":
			attrs[strings.ToLower(m[5])] = m[6]
		}
	}
	return attrs
}
