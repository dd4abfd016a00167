// Package metrics defines the metric names and tags the job board emits.
package metrics

import (
	"time"

	obserrors "github.com/target/jobboard-ui/internal/observability/errors"
	"github.com/target/jobboard-ui/internal/observability/statsd"
)

// Result tag values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	// ResultStale marks a response dropped because a newer request superseded it.
	ResultStale = "stale"
)

// Remote call names.
const (
	CallListJobs = "list_jobs"
	CallScrape   = "trigger_scrape"
	CallCheckout = "create_checkout"
)

const (
	metricRemoteCall     = "jobs_api.call"
	metricRemoteDuration = "jobs_api.duration"
)

// RemoteCall describes one finished call to the jobs API.
type RemoteCall struct {
	Call     string
	Duration time.Duration
	Err      error
	Stale    bool
}

// Result returns the result tag for the call.
func (c RemoteCall) Result() string {
	switch {
	case c.Err != nil:
		return ResultError
	case c.Stale:
		return ResultStale
	default:
		return ResultSuccess
	}
}

// EmitRemoteCall records a counter and a timing for one remote call. A nil sink is a no-op.
func EmitRemoteCall(sink statsd.Sink, in RemoteCall) {
	if sink == nil {
		return
	}

	tags := statsd.Tags{
		"call":   in.Call,
		"result": in.Result(),
	}
	if in.Err != nil {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count(metricRemoteCall, 1, tags)
	if in.Duration > 0 {
		sink.Timing(metricRemoteDuration, in.Duration, CloneTags(tags))
	}
}

// CloneTags copies a tag map so sinks that retain tags never share one.
func CloneTags(src statsd.Tags) statsd.Tags {
	if len(src) == 0 {
		return nil
	}
	out := make(statsd.Tags, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
