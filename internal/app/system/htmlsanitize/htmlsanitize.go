// Package htmlsanitize strips markup from user-influenced text before it is
// stored in notifications or sent in emails.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce sync.Once
	strict     *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// Text removes every HTML element from s and returns plain text. Entities that
// the policy escapes are decoded again so "&" stays "&".
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(policy().Sanitize(s)))
}

// IsPlainText reports whether s contains no HTML tags.
func IsPlainText(s string) bool {
	return !strings.Contains(s, "<") || !strings.Contains(s, ">")
}
