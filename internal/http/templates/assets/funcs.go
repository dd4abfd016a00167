// Package assets provides template helpers for static asset URLs and inlined critical CSS.
package assets

import (
	"html/template"

	httpassets "github.com/target/jobboard-ui/internal/http/assets"
)

// Options configures asset-related template helpers.
type Options struct {
	Resolver    *httpassets.AssetResolver
	CriticalCSS func() string
}

// Funcs returns the "asset" and "criticalCSS" helpers.
func Funcs(opts Options) template.FuncMap {
	return template.FuncMap{
		"asset": opts.Resolver.Resolve,
		"criticalCSS": func() template.CSS {
			if opts.CriticalCSS == nil {
				return ""
			}
			// #nosec G203 - critical CSS comes from our own embedded stylesheet
			return template.CSS(opts.CriticalCSS())
		},
	}
}
