// Package links turns the free-form job_url field into something openable
// and a short site label for display.
package links

import (
	"net/url"
	"strings"
)

var siteNames = map[string]string{
	"linkedin":  "LinkedIn",
	"github":    "GitHub",
	"google":    "Google",
	"amazon":    "Amazon",
	"microsoft": "Microsoft",
	"apple":     "Apple",
	"indeed":    "Indeed",
	"glassdoor": "Glassdoor",
}

// Normalize returns a URL that can be opened directly: stored values without
// an http(s) scheme get https:// prepended.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http") {
		return raw
	}
	return "https://" + raw
}

// Domain extracts the main hostname label ("linkedin" from
// https://www.linkedin.com/jobs/123), or "link" when the URL is unparseable.
func Domain(raw string) string {
	u, err := url.Parse(Normalize(raw))
	if err != nil || u.Hostname() == "" {
		return "link"
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if i := strings.Index(host, "."); i >= 0 {
		host = host[:i]
	}
	return host
}

// SiteName maps a job_url to a display name for its posting site; unknown
// sites are labelled "Job Posting".
func SiteName(raw string) string {
	if name, ok := siteNames[Domain(raw)]; ok {
		return name
	}
	return "Job Posting"
}
