package model

import "strings"

// ScrapeRequest is the body sent to the scraper-trigger endpoint.
type ScrapeRequest struct {
	Keyword  string `json:"keyword"`
	Location string `json:"location"`
}

// ScrapeResponse is the scraper-trigger answer.
type ScrapeResponse struct {
	Message string `json:"message"`
	Note    string `json:"note,omitempty"`
}

// Text joins the message and the optional note for display.
func (r ScrapeResponse) Text() string {
	msg := strings.TrimSpace(r.Message)
	note := strings.TrimSpace(r.Note)
	switch {
	case note == "":
		return msg
	case msg == "":
		return note
	default:
		return msg + " " + note
	}
}

// CheckoutSession is the checkout-session endpoint answer. URL is empty when no session was created.
type CheckoutSession struct {
	URL string `json:"url,omitempty"`
}

// CheckoutOutcome tells the HTTP layer what to do after a checkout attempt.
type CheckoutOutcome struct {
	// RedirectURL, when set, is where the browser must navigate.
	RedirectURL string
	// Alert, when set, is a blocking message for the user.
	Alert string
}
