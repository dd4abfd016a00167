package jobsapi

import (
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/target/jobboard-ui/internal/domain/model"
)

// EnvelopePaths are JMESPath expressions locating the pieces of a listing response.
type EnvelopePaths struct {
	Results  string
	Next     string
	Previous string
	Count    string
}

// DefaultEnvelopePaths matches the `{results, next, previous, count}` envelope.
func DefaultEnvelopePaths() EnvelopePaths {
	return EnvelopePaths{Results: "results", Next: "next", Previous: "previous", Count: "count"}
}

type envelope struct {
	paths EnvelopePaths
}

func compileEnvelope(p EnvelopePaths) (*envelope, error) {
	def := DefaultEnvelopePaths()
	p.Results = orDefault(p.Results, def.Results)
	p.Next = orDefault(p.Next, def.Next)
	p.Previous = orDefault(p.Previous, def.Previous)
	p.Count = orDefault(p.Count, def.Count)

	for name, expr := range map[string]string{
		"results": p.Results, "next": p.Next, "previous": p.Previous, "count": p.Count,
	} {
		if _, err := jmespath.Compile(expr); err != nil {
			return nil, fmt.Errorf("invalid %s envelope path %q: %w", name, expr, err)
		}
	}
	return &envelope{paths: p}, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// decode extracts a page from a decoded JSON document. A bare array is treated as a single
// unpaginated page; an envelope without results yields an empty page.
func (e *envelope) decode(doc any) (*model.PageState, error) {
	if list, ok := doc.([]any); ok {
		items, err := decodeListings(list)
		if err != nil {
			return nil, err
		}
		return &model.PageState{Items: items, TotalCount: len(items)}, nil
	}

	page := &model.PageState{}
	results, err := jmespath.Search(e.paths.Results, doc)
	if err != nil {
		return nil, fmt.Errorf("evaluate results path: %w", err)
	}
	if list, ok := results.([]any); ok {
		if page.Items, err = decodeListings(list); err != nil {
			return nil, err
		}
	} else if results != nil {
		return nil, fmt.Errorf("results path %q selected %T, want array", e.paths.Results, results)
	}

	if page.Next, err = searchString(e.paths.Next, doc); err != nil {
		return nil, err
	}
	if page.Previous, err = searchString(e.paths.Previous, doc); err != nil {
		return nil, err
	}

	count, err := jmespath.Search(e.paths.Count, doc)
	if err != nil {
		return nil, fmt.Errorf("evaluate count path: %w", err)
	}
	if n, ok := count.(float64); ok && n >= 0 {
		page.TotalCount = int(n)
	} else {
		page.TotalCount = len(page.Items)
	}
	return page, nil
}

func searchString(expr string, doc any) (string, error) {
	v, err := jmespath.Search(expr, doc)
	if err != nil {
		return "", fmt.Errorf("evaluate %q: %w", expr, err)
	}
	s, _ := v.(string)
	return strings.TrimSpace(s), nil
}

func decodeListings(list []any) ([]model.JobListing, error) {
	b, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("re-encode results: %w", err)
	}
	var items []model.JobListing
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return items, nil
}
