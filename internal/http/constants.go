package httpx

// Template and static paths on disk, used in dev mode and by tests.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
	StaticPathFromTest   = "../../frontend/static"
)

// Embedded sub-directories of the root asset filesystems.
const (
	embeddedTemplateDir = "frontend/templates"
	embeddedStaticDir   = "frontend/static"
)
