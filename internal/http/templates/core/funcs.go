// Package core provides the general-purpose template helpers shared by every page.
package core

import (
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"timeTag":      timeTag,
		"formatNumber": formatNumber,
		"plural":       english.Plural,
		"pathEscape":   url.PathEscape,
	}
}

// timeTag renders a <time> element for a posting date. The visible text is supplied by the
// caller (usually a relative age); the exact date goes into the title.
func timeTag(ts *time.Time, label string) template.HTML {
	if ts == nil || ts.IsZero() {
		return ""
	}
	if label == "" {
		label = ts.UTC().Format("Jan 2, 2006")
	}
	// #nosec G203 - constructed from escaped values only
	return template.HTML(fmt.Sprintf(
		`<time datetime="%s" title="%s">%s</time>`,
		ts.UTC().Format(time.RFC3339),
		template.HTMLEscapeString(ts.UTC().Format("Mon, 02 Jan 2006")),
		template.HTMLEscapeString(label),
	))
}

// formatNumber formats integer values with comma thousands separators.
func formatNumber(v any) string {
	switch n := v.(type) {
	case int:
		return humanize.Comma(int64(n))
	case int32:
		return humanize.Comma(int64(n))
	case int64:
		return humanize.Comma(n)
	case uint:
		return humanize.Comma(int64(n)) // #nosec G115 - counts stay far below MaxInt64
	case uint64:
		return humanize.Comma(int64(n)) // #nosec G115
	case float64:
		return humanize.Commaf(n)
	default:
		return fmt.Sprint(v)
	}
}
