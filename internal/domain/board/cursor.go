package board

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	apperrors "github.com/target/jobboard-ui/internal/errors"
)

// Direction is a pagination direction.
type Direction string

// Supported pagination directions.
const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
)

// ParseDirection validates a direction path segment.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionNext:
		return DirectionNext, nil
	case DirectionPrevious:
		return DirectionPrevious, nil
	default:
		return "", apperrors.ValidationField("direction", fmt.Sprintf("unknown page direction %q", s))
	}
}

// ResolveCursor turns a server-supplied pagination cursor into an absolute URL and checks that
// it points at the same site as the API base. Relative cursors are resolved against base.
// Sites are compared by scheme and registrable domain (eTLD+1); IP and single-label hosts must
// match exactly. Cursors on one of allowedHosts are accepted as long as the scheme matches.
// An allowed host without a port matches any port.
func ResolveCursor(base *url.URL, cursor string, allowedHosts ...string) (*url.URL, error) {
	if base == nil {
		return nil, apperrors.Internal("api base url not configured")
	}
	cursor = strings.TrimSpace(cursor)
	if cursor == "" {
		return nil, apperrors.ValidationField("cursor", "empty cursor")
	}
	ref, err := url.Parse(cursor)
	if err != nil {
		return nil, apperrors.ValidationField("cursor", fmt.Sprintf("malformed cursor: %v", err))
	}
	target := base.ResolveReference(ref)
	if !SameSite(base, target) && !hostAllowed(base, target, allowedHosts) {
		return nil, apperrors.ValidationField("cursor", fmt.Sprintf("cursor %q is not on the api site", target.Redacted()))
	}
	return target, nil
}

// SameSite reports whether two URLs share a scheme and a registrable domain.
func SameSite(a, b *url.URL) bool {
	if a == nil || b == nil || !strings.EqualFold(a.Scheme, b.Scheme) {
		return false
	}
	ha, hb := strings.ToLower(a.Hostname()), strings.ToLower(b.Hostname())
	if ha == "" || hb == "" {
		return false
	}
	if ha == hb {
		return true
	}
	sa, errA := siteOf(ha)
	sb, errB := siteOf(hb)
	if errA != nil || errB != nil {
		return false
	}
	return sa == sb
}

func hostAllowed(base, target *url.URL, allowed []string) bool {
	if !strings.EqualFold(base.Scheme, target.Scheme) {
		return false
	}
	host, hostname := strings.ToLower(target.Host), strings.ToLower(target.Hostname())
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if a == host || a == hostname {
			return true
		}
	}
	return false
}

func siteOf(host string) (string, error) {
	if net.ParseIP(host) != nil {
		return "", fmt.Errorf("ip host %q has no registrable domain", host)
	}
	return publicsuffix.EffectiveTLDPlusOne(host)
}
