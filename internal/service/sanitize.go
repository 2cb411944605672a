package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// plainText trims value and reports whether it survives the strict policy unchanged,
// i.e. it carries no markup that a browser would interpret.
func plainText(policy *bluemonday.Policy, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if policy == nil || value == "" {
		return value, true
	}

	sanitized := policy.Sanitize(value)
	return value, sanitized == html.EscapeString(html.UnescapeString(value))
}
