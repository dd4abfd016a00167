package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"time"

	jobboard "github.com/target/jobboard-ui"
	httpassets "github.com/target/jobboard-ui/internal/http/assets"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Board BoardController
	// Ready backs /readyz; nil means always ready.
	Ready ReadinessFunc
	Now   func() time.Time

	CookieDomain string
	ViewTTL      time.Duration

	CompressionEnabled bool
	CompressionLevel   int

	// TemplateFS and StaticFS override the embedded assets (tests).
	TemplateFS fs.FS
	StaticFS   fs.FS

	IsDev  bool         // Serve templates and assets from disk
	Logger *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates the HTTP handler with the board routes and the browser middleware.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Board == nil {
		return nil, errors.New("router: board controller is required")
	}
	if services.Logger == nil {
		services.Logger = slog.Default()
	}

	templateFS, staticFS, err := resolveAssetFS(services)
	if err != nil {
		return nil, err
	}
	resolver, err := httpassets.NewAssetResolver(httpassets.ResolverOptions{
		FS:     staticFS,
		Live:   services.IsDev,
		Logger: services.Logger,
	})
	if err != nil {
		// Unhashed names still work; the page just loses cache busting.
		services.Logger.Warn("asset manifest unavailable", slog.Any("error", err))
	}
	renderer, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS:    templateFS,
		Resolver:      resolver,
		CriticalCSSFS: staticFS,
		DevMode:       services.IsDev,
		Logger:        services.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("router: parse templates: %w", err)
	}

	h := &BoardHandlers{
		Svc:    services.Board,
		T:      renderer,
		Now:    services.Now,
		IsDev:  services.IsDev,
		Logger: services.Logger,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /static/", staticWithCacheHeaders(
		http.StripPrefix(httpassets.StaticPrefix, http.FileServer(http.FS(staticFS)))))
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	mux.Handle("GET /readyz", readinessHandler(services.Ready, services.Logger))

	browser := []Middleware{
		ViewIdentity(ViewCookieConfig{Domain: services.CookieDomain, TTL: services.ViewTTL}),
		CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain}),
	}
	registerBoardRoutes(mux, h, browser)

	outer := []Middleware{
		Recover(services.Logger),
		Logging(services.Logger),
		SecurityHeaders(),
	}
	if services.CompressionEnabled {
		outer = append(outer, Compression(CompressionConfig{
			Level:  services.CompressionLevel,
			Logger: services.Logger,
		}))
	}
	return Chain(mux, outer...), nil
}

func registerBoardRoutes(mux *http.ServeMux, h *BoardHandlers, mws []Middleware) {
	wrap := func(fn http.HandlerFunc) http.Handler { return Chain(fn, mws...) }

	mux.Handle("GET /{$}", wrap(h.Page))
	mux.Handle("POST /board/filters", wrap(h.UpdateFilters))
	mux.Handle("POST /board/search", wrap(h.Search))
	mux.Handle("POST /board/page/{direction}", wrap(h.Paginate))
	mux.Handle("POST /board/jobs/{id}/toggle", wrap(h.Toggle))
	mux.Handle("POST /board/scrape", wrap(h.Scrape))
	mux.Handle("POST /board/checkout", wrap(h.Checkout))
	mux.Handle("/", wrap(h.NotFound))
}

// resolveAssetFS picks the template and static filesystems: explicit overrides first, then
// disk in dev mode, then the embedded copies.
func resolveAssetFS(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	if services.IsDev {
		if templateFS == nil {
			templateFS = os.DirFS(TemplatePathFromRoot)
		}
		if staticFS == nil {
			staticFS = os.DirFS(StaticPathFromRoot)
		}
		return templateFS, staticFS, nil
	}

	var err error
	if templateFS == nil {
		if templateFS, err = fs.Sub(jobboard.TemplateFS, embeddedTemplateDir); err != nil {
			return nil, nil, fmt.Errorf("router: embedded templates: %w", err)
		}
	}
	if staticFS == nil {
		if staticFS, err = fs.Sub(jobboard.StaticFS, embeddedStaticDir); err != nil {
			return nil, nil, fmt.Errorf("router: embedded static assets: %w", err)
		}
	}
	return templateFS, staticFS, nil
}

// hashedFilePattern matches content-hashed filenames (app.3f9a1c2e.js, app.3f9a1c2e.js.map).
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders caches hashed assets for a year and everything else not at all.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		handler.ServeHTTP(w, r)
	})
}
