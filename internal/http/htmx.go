package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Client-side events the board listens for.
const (
	// EventShowAlert opens a blocking browser alert with the payload text.
	EventShowAlert = "showAlert"
	// EventShowNotice shows the dismissible notice banner.
	EventShowNotice = "showNotice"
)

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// IsHistoryRestore reports true when htmx is restoring history (Hx-History-Restore-Request: true).
func IsHistoryRestore(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-History-Restore-Request"), "true")
}

// WantsPartial returns true when the handler should return only a fragment. History
// restores need the full page.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !IsHistoryRestore(r)
}

// SetHXRedirect instructs htmx to navigate the browser to the given URL.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set("Hx-Redirect", url) }

// SetHXReplaceURL replaces the current history entry without navigating.
func SetHXReplaceURL(w http.ResponseWriter, url string) { w.Header().Set("Hx-Replace-Url", url) }

// SetHXReswap overrides the swap strategy of the triggering element.
func SetHXReswap(w http.ResponseWriter, swap string) { w.Header().Set("Hx-Reswap", swap) }

// SetHXTrigger adds a client-side event to the Hx-Trigger header. Events set earlier in the
// same response are kept. A nil payload triggers the event with true.
func SetHXTrigger(w http.ResponseWriter, event string, payload any) {
	events := map[string]any{}
	if existing := w.Header().Get("Hx-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			events = map[string]any{}
		}
	}

	var value any = true
	if payload != nil {
		value = payload
	}
	events[event] = value

	b, err := json.Marshal(events)
	if err != nil {
		w.Header().Set("Hx-Trigger", "{\""+event+"\":true}")
		return
	}
	w.Header().Set("Hx-Trigger", string(b))
}
