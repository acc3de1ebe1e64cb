package settings

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	postPolicyOnce sync.Once
	postPolicy     *bluemonday.Policy

	embedPolicyOnce sync.Once
	embedPolicy     *bluemonday.Policy
)

// SanitizePost keeps the markup allowed in post content.
func SanitizePost(value string) string {
	postPolicyOnce.Do(func() {
		postPolicy = bluemonday.UGCPolicy()
	})
	return postPolicy.Sanitize(value)
}

// SanitizeEmbed is SanitizePost plus iframes with src, style, id and class.
func SanitizeEmbed(value string) string {
	embedPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowElements("iframe")
		policy.AllowAttrs("src", "style", "id", "class").OnElements("iframe")
		embedPolicy = policy
	})
	return embedPolicy.Sanitize(value)
}

// checkboxValue returns "1" only when the submitted value is exactly "1".
func checkboxValue(raw string, present bool) string {
	if present && raw == "1" {
		return "1"
	}
	return ""
}
