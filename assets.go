// Package jobboard provides embedded assets for production builds.
package jobboard

import "embed"

// In dev mode assets are read from disk; otherwise they are served from these filesystems.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
