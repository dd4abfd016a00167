// Package model defines the data types shared by the job board view: filters, listings, pages and view state.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Seniority is the enumerated seniority filter. The empty value means "any level".
type Seniority string

const (
	// SeniorityAny matches every listing.
	SeniorityAny Seniority = ""
	// SeniorityJunior selects junior roles.
	SeniorityJunior Seniority = "Junior"
	// SeniorityMid selects mid-level roles.
	SeniorityMid Seniority = "Mid-Level"
	// SenioritySenior selects senior roles.
	SenioritySenior Seniority = "Senior"
	// SeniorityLead selects lead / manager roles.
	SeniorityLead Seniority = "Lead"
)

// SeniorityOptions returns the selectable seniorities in display order (excluding "any").
func SeniorityOptions() []Seniority {
	return []Seniority{SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityLead}
}

// Valid reports whether s is one of the known seniorities or empty.
func (s Seniority) Valid() bool {
	switch s {
	case SeniorityAny, SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityLead:
		return true
	default:
		return false
	}
}

// Label returns the option label shown in the seniority select.
func (s Seniority) Label() string {
	switch s {
	case SeniorityAny:
		return "Any Level"
	case SeniorityLead:
		return "Lead / Manager"
	default:
		return string(s)
	}
}

// ListingID identifies a listing. The jobs API emits integer ids; strings are accepted too.
type ListingID string

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *ListingID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ListingID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("listing id: %w", err)
	}
	*id = ListingID(n.String())
	return nil
}

// Timestamp is a point in time decoded leniently from the jobs API.
// Date-only values ("2024-05-01") are interpreted as midnight UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ParseTimestamp parses the formats the jobs API is known to emit.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		*ts = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.UTC().Format(time.RFC3339Nano))
}

// JobListing is a single job posting as returned by the jobs API. Read-only.
type JobListing struct {
	ID          ListingID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	Seniority   string     `json:"seniority"`
	Skills      []string   `json:"skills"`
	SalaryMin   *float64   `json:"salary_min"`
	SalaryMax   *float64   `json:"salary_max"`
	Currency    string     `json:"currency"`
	URL         string     `json:"url"`
	PostedAt    *Timestamp `json:"posted_at"`
	Description string     `json:"description"`
	Source      string     `json:"source"`
}

// PostedTime returns the posting time, or nil when the listing has none.
func (j *JobListing) PostedTime() *time.Time {
	if j == nil || j.PostedAt == nil || j.PostedAt.IsZero() {
		return nil
	}
	t := j.PostedAt.Time
	return &t
}

// Key returns the listing id as a plain string for templates and URLs.
func (j *JobListing) Key() string {
	if j == nil {
		return ""
	}
	return string(j.ID)
}

// FilterState holds the filter bar inputs. SalaryMin is kept as the raw input text.
type FilterState struct {
	Skills    string    `json:"skills"`
	Seniority Seniority `json:"seniority"`
	SalaryMin string    `json:"salary_min"`
}

// SalaryMinValue returns the minimum salary when the input is a finite,
// non-negative number below the int64 range. Fractions are kept.
func (f FilterState) SalaryMinValue() (float64, bool) {
	raw := strings.TrimSpace(f.SalaryMin)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < 0 || v >= math.MaxInt64 {
		return 0, false
	}
	if v == 0 {
		// Normalizes -0.
		return 0, true
	}
	return v, true
}

// PageState is one page of listings plus the opaque cursors the server handed out.
// Next and Previous are empty when there is no page in that direction.
type PageState struct {
	Items      []JobListing `json:"items"`
	Next       string       `json:"next,omitempty"`
	Previous   string       `json:"previous,omitempty"`
	TotalCount int          `json:"total_count"`
}

// HasNext reports whether a following page exists.
func (p PageState) HasNext() bool { return p.Next != "" }

// HasPrevious reports whether a preceding page exists.
func (p PageState) HasPrevious() bool { return p.Previous != "" }

// IsEmpty reports whether the page has no listings.
func (p PageState) IsEmpty() bool { return len(p.Items) == 0 }
