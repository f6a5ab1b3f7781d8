// Package htmlsanitize cleans user-authored HTML such as activity intros
// and session details before it is rendered, and strips markup from names
// that are displayed as plain text.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	once.Do(func() {
		ugc = bluemonday.UGCPolicy()
		ugc.AllowAttrs("class").OnElements("table", "th", "td", "tr")
		ugc.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
		strict = bluemonday.StrictPolicy()
	})
	return ugc, strict
}

// Sanitize removes scripts, event handlers and unsafe URLs from HTML while
// keeping formatting, lists, links and tables.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	p, _ := policies()
	return p.Sanitize(s)
}

// SanitizeToHTML is Sanitize for direct use in templates.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// StripTags removes all markup and returns plain text. Used for names
// (activities, courses) that are displayed as headings or in e-mail
// subjects.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	_, p := policies()
	return strings.TrimSpace(html.UnescapeString(p.Sanitize(s)))
}

// IsPlainText reports whether s contains no HTML tags.
func IsPlainText(s string) bool {
	i := strings.Index(s, "<")
	if i < 0 {
		return true
	}
	return !strings.Contains(s[i:], ">")
}

// PlainTextToHTML escapes s and turns newlines into <br> tags.
func PlainTextToHTML(s string) template.HTML {
	if s == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// PrepareForDisplay renders stored text that may be either plain text or
// HTML.
func PrepareForDisplay(s string) template.HTML {
	if IsPlainText(s) {
		return PlainTextToHTML(s)
	}
	return SanitizeToHTML(s)
}
