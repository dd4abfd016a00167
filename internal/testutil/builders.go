package testutil

import (
	"fmt"
	"time"

	"github.com/target/jobboard-ui/internal/domain/model"
)

// ListingBuilder builds JobListing values for tests.
type ListingBuilder struct {
	job model.JobListing
}

// NewListing starts a listing with sensible defaults.
func NewListing(id string) *ListingBuilder {
	return &ListingBuilder{job: model.JobListing{
		ID:          model.ListingID(id),
		Title:       "Backend Engineer " + id,
		Company:     "Acme",
		Location:    "Remote",
		Skills:      []string{"Go"},
		Currency:    "EUR",
		URL:         "https://jobs.example.com/" + id,
		Description: "<p>Build the platform.</p>",
		Source:      "remoteok",
	}}
}

// WithSalary sets the salary range; pass 0 for max to leave it open.
func (b *ListingBuilder) WithSalary(minSalary, maxSalary float64) *ListingBuilder {
	b.job.SalaryMin = Float64Ptr(minSalary)
	if maxSalary > 0 {
		b.job.SalaryMax = Float64Ptr(maxSalary)
	}
	return b
}

// WithSkills replaces the skills.
func (b *ListingBuilder) WithSkills(skills ...string) *ListingBuilder {
	b.job.Skills = skills
	return b
}

// WithSeniority sets the seniority text.
func (b *ListingBuilder) WithSeniority(s string) *ListingBuilder {
	b.job.Seniority = s
	return b
}

// PostedAt sets the posting time.
func (b *ListingBuilder) PostedAt(t time.Time) *ListingBuilder {
	b.job.PostedAt = &model.Timestamp{Time: t}
	return b
}

// Build returns the listing.
func (b *ListingBuilder) Build() model.JobListing {
	return b.job
}

// Listings builds n default listings with ids "1".."n".
func Listings(n int) []model.JobListing {
	out := make([]model.JobListing, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, NewListing(fmt.Sprint(i)).Build())
	}
	return out
}
