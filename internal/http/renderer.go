package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	httpassets "github.com/target/jobboard-ui/internal/http/assets"
	assetfuncs "github.com/target/jobboard-ui/internal/http/templates/assets"
	corefuncs "github.com/target/jobboard-ui/internal/http/templates/core"
)

// Template names executed by the renderer.
const (
	tmplLayout     = "layout"
	tmplErrorPage  = "error-layout"
	fallbackCSS    = ":root{--bg:#f4f6fb;--surface:#fff;--text:#1f2933;}"
	criticalCSSLoc = "css/critical.css"
)

// AssetResolver aliases the asset resolver so callers only import httpx.
type AssetResolver = httpassets.AssetResolver

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t             *template.Template
	criticalCSSFS fs.FS
	criticalCSS   string
	devMode       bool
	logger        *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS    fs.FS          // Filesystem containing templates (required)
	Resolver      *AssetResolver // Asset resolver for hashed filenames (optional)
	CriticalCSSFS fs.FS          // Filesystem containing css/critical.css (optional)
	DevMode       bool           // Re-read critical CSS on each render
	Logger        *slog.Logger
}

// NewTemplateRenderer parses the layout, page and partial templates.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := &TemplateRenderer{
		criticalCSSFS: cfg.CriticalCSSFS,
		devMode:       cfg.DevMode,
		logger:        cfg.Logger,
	}
	if cfg.CriticalCSSFS != nil && !cfg.DevMode {
		r.criticalCSS = r.readCriticalCSS()
	}

	funcs := template.FuncMap{}
	mergeTemplateFuncs(funcs,
		corefuncs.Funcs(),
		assetfuncs.Funcs(assetfuncs.Options{
			Resolver:    cfg.Resolver,
			CriticalCSS: r.getCriticalCSS,
		}),
	)

	t, err := template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		cfg.Logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	r.t = t
	return r, nil
}

func (r *TemplateRenderer) readCriticalCSS() string {
	if r.criticalCSSFS == nil {
		return ""
	}
	b, err := fs.ReadFile(r.criticalCSSFS, criticalCSSLoc)
	if err != nil {
		r.logger.Warn("failed to load critical CSS", slog.Any("error", err))
		return fallbackCSS
	}
	return string(b)
}

// getCriticalCSS returns the critical CSS, reloading from disk in dev mode.
func (r *TemplateRenderer) getCriticalCSS() string {
	if r.devMode {
		return r.readCriticalCSS()
	}
	return r.criticalCSS
}

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, data any) error {
	return r.Render(w, tmplLayout, data)
}

// RenderError renders the standalone error page with status.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, status int, data any) error {
	return r.RenderStatus(w, status, tmplErrorPage, data)
}

// Render executes a named template with a 200 status.
func (r *TemplateRenderer) Render(w http.ResponseWriter, name string, data any) error {
	return r.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus executes a named template into a buffer and writes it only on success, so a
// failing template never produces a half-written response.
func (r *TemplateRenderer) RenderStatus(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", name),
			slog.Any("error", err),
		)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("template", name),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// Has reports whether a template with the given name was parsed.
func (r *TemplateRenderer) Has(name string) bool {
	return r.t.Lookup(name) != nil
}

func mergeTemplateFuncs(dst template.FuncMap, sources ...template.FuncMap) {
	for _, src := range sources {
		for key, val := range src {
			dst[key] = val
		}
	}
}
