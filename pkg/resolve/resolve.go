// Package resolve extracts an Asana task GID from free-form user input.
package resolve

import (
	"net/url"
	"regexp"
	"strings"
)

const trackerDomain = "asana.com"

var (
	digitsRegex = regexp.MustCompile(`^\d+$`)
	// Asana paths look like .../0/<project-or-context>/<task-gid>, possibly
	// embedded in text that won't survive strict URL parsing.
	pathRegex = regexp.MustCompile(`asana\.com/0/[^/\s]+/(\d+)`)
)

// TaskID extracts a task GID from input: a bare numeric ID, any asana.com
// task URL (project, inbox, search, or focused-view shape), or a string
// fragment containing one. ok is false when no GID can be found, or when
// the input is a URL for some other host.
func TaskID(input string) (string, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", false
	}

	if digitsRegex.MatchString(s) {
		return s, true
	}

	raw := s
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		if !strings.Contains(strings.ToLower(u.Hostname()), trackerDomain) {
			return "", false
		}
		if gid := lastNumericSegment(u.Path); gid != "" {
			return gid, true
		}
	}

	// All URL shapes put the task GID in the path; for strings that defeat
	// the URL parser, the raw-path scan is the last resort.
	if m := pathRegex.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	return "", false
}

// lastNumericSegment returns the last all-digit segment of a URL path, or
// "" when there is none. Trailing non-numeric segments such as the
// focused-view "/f" suffix are ignored.
func lastNumericSegment(path string) string {
	gid := ""
	for _, seg := range strings.Split(path, "/") {
		if seg != "" && digitsRegex.MatchString(seg) {
			gid = seg
		}
	}
	return gid
}
