package board

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/target/jobboard-ui/internal/domain/model"
)

// MaxVisibleSkills is the number of skill badges shown per listing.
const MaxVisibleSkills = 4

// UnspecifiedSeniority is the badge text for listings without a seniority.
const UnspecifiedSeniority = "Not Specified"

const day = 24 * time.Hour

// RelativeAge labels how long ago a listing was posted. The difference is taken in whole
// days, rounded up: one day or less is "Today", two days is "Yesterday", anything else is
// "<n> days ago". A nil posting time yields an empty label.
func RelativeAge(now time.Time, postedAt *time.Time) string {
	if postedAt == nil || postedAt.IsZero() {
		return ""
	}
	diff := now.Sub(*postedAt)
	if diff < 0 {
		diff = -diff
	}
	days := int64(math.Ceil(float64(diff) / float64(day)))
	switch {
	case days <= 1:
		return "Today"
	case days == 2:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// FormatAmount renders a number with comma thousands separators, rounded to whole units.
func FormatAmount(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// SalaryBadge renders "<currency> <min>" or "<currency> <min> - <max>". It returns "" when
// the listing has no minimum salary.
func SalaryBadge(j model.JobListing) string {
	if j.SalaryMin == nil {
		return ""
	}
	text := FormatAmount(*j.SalaryMin)
	if j.SalaryMax != nil {
		text += " - " + FormatAmount(*j.SalaryMax)
	}
	if cur := strings.TrimSpace(j.Currency); cur != "" {
		text = cur + " " + text
	}
	return text
}

// SeniorityBadge returns the listing seniority or UnspecifiedSeniority.
func SeniorityBadge(j model.JobListing) string {
	if s := strings.TrimSpace(j.Seniority); s != "" {
		return s
	}
	return UnspecifiedSeniority
}

// VisibleSkills truncates skills to the first MaxVisibleSkills entries.
func VisibleSkills(skills []string) []string {
	if len(skills) <= MaxVisibleSkills {
		return skills
	}
	return skills[:MaxVisibleSkills]
}

// ToggleExpansion returns the expanded listing id after toggling id. At most one listing is
// expanded: toggling the expanded one collapses it, toggling another replaces it.
func ToggleExpansion(current, id string) string {
	if current == id {
		return ""
	}
	return id
}
