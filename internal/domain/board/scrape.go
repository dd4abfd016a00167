package board

import (
	"strings"

	"github.com/target/jobboard-ui/internal/domain/model"
)

// User-facing messages for the side actions.
const (
	ScrapeFailedMessage        = "Failed to start scraper."
	CheckoutNoURLMessage       = "Could not start checkout. Please try again later."
	CheckoutUnavailableMessage = "Payment service is unavailable. Please try again later."
	CheckoutReturnNotice       = "Payment successful! Your API key will be sent to your email."
)

// ScrapeDefaults supplies the scrape request values used when the filters leave them open.
type ScrapeDefaults struct {
	Keyword  string
	Location string
}

// ScrapeRequestFor builds the scrape request from the current filters. The keyword is the
// skills filter or the default keyword; the location is always the configured location.
func ScrapeRequestFor(f model.FilterState, d ScrapeDefaults) model.ScrapeRequest {
	keyword := strings.TrimSpace(f.Skills)
	if keyword == "" {
		keyword = d.Keyword
	}
	return model.ScrapeRequest{Keyword: keyword, Location: d.Location}
}

// ScrapeMessage is the status line shown after the scraper answered.
func ScrapeMessage(resp model.ScrapeResponse) string {
	if text := resp.Text(); text != "" {
		return text
	}
	return ScrapeFailedMessage
}
