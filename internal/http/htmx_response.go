package httpx

import (
	"net/http"
)

// HTMXResponse provides a fluent API for building htmx responses.
type HTMXResponse struct {
	w http.ResponseWriter
}

// HTMX creates a new HTMXResponse for fluent response building.
func HTMX(w http.ResponseWriter) *HTMXResponse {
	return &HTMXResponse{w: w}
}

// Redirect instructs htmx to navigate the browser to url and writes 204 No Content.
// The handler should return immediately afterwards.
func (h *HTMXResponse) Redirect(url string) {
	SetHXRedirect(h.w, url)
	h.w.WriteHeader(http.StatusNoContent)
}

// Trigger adds a client-side event. Chainable.
func (h *HTMXResponse) Trigger(event string, payload any) *HTMXResponse {
	SetHXTrigger(h.w, event, payload)
	return h
}

// Alert triggers a blocking alert with message. Chainable.
func (h *HTMXResponse) Alert(message string) *HTMXResponse {
	return h.Trigger(EventShowAlert, map[string]string{"message": message})
}

// ReplaceURL replaces the current history entry. Chainable.
func (h *HTMXResponse) ReplaceURL(url string) *HTMXResponse {
	SetHXReplaceURL(h.w, url)
	return h
}

// NoSwap tells htmx to leave the page as is and writes 204 No Content.
func (h *HTMXResponse) NoSwap() {
	SetHXReswap(h.w, "none")
	h.w.WriteHeader(http.StatusNoContent)
}
