package view

import (
	"net/url"
	"slices"
	"strings"

	pstrings "patientdir/pkg/platform/strings"
)

// DefaultImageHosts are the photo hosts allowed when none are configured.
var DefaultImageHosts = []string{"randomuser.me"}

// ImagePolicy decides which photo URLs the page may load.
type ImagePolicy struct {
	hosts []string
}

// NewImagePolicy allows https images from hosts (case-insensitive).
func NewImagePolicy(hosts []string) ImagePolicy {
	hosts = pstrings.DedupeAndTrimLower(hosts)
	if len(hosts) == 0 {
		hosts = DefaultImageHosts
	}
	return ImagePolicy{hosts: hosts}
}

// Allowed reports whether raw is an https URL on an allowed host. Empty
// values and the literal "null" are never allowed.
func (p ImagePolicy) Allowed(raw string) bool {
	if raw == "" || strings.EqualFold(raw, "null") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || u.Port() != "" {
		return false
	}
	return slices.Contains(p.hosts, strings.ToLower(u.Hostname()))
}
