package board

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/target/jobboard-ui/internal/domain/model"
)

// Query parameter names understood by the listings endpoint.
const (
	ParamSkills    = "skills"
	ParamSeniority = "seniority"
	ParamSalaryMin = "salary_min"
)

// BuildQuery serializes the non-empty filter fields as listing query parameters.
// Empty fields are omitted entirely; every present field appears exactly once.
func BuildQuery(f model.FilterState) url.Values {
	q := url.Values{}
	if skills := strings.TrimSpace(f.Skills); skills != "" {
		q.Set(ParamSkills, skills)
	}
	if f.Seniority != model.SeniorityAny && f.Seniority.Valid() {
		q.Set(ParamSeniority, string(f.Seniority))
	}
	if v, ok := f.SalaryMinValue(); ok {
		q.Set(ParamSalaryMin, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return q
}
