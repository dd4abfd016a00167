package viewmodel

// Layout captures the shared page chrome.
type Layout struct {
	Title     string
	CSRFToken string
	// Notice is a one-time banner shown above the board.
	Notice string
	// Alert is shown as a blocking dialog once the page loads.
	Alert string
	// CanonicalURL, when set, replaces the address bar URL after load without reloading.
	CanonicalURL string
	DevMode      bool
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
