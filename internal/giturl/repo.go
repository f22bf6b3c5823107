// Package giturl extracts repository coordinates from git remote URLs.
package giturl

import (
	"regexp"
	"strings"
)

// ownerNamePattern matches the last two path segments after an http(s) host or
// an scp-like ssh prefix. It is searched, not anchored at the start.
var ownerNamePattern = regexp.MustCompile(`(?:https?://[^/]+/|git@[\w.-]+:)([^/]+)/([^/]+)$`)

// ParseOwnerName extracts owner and name from rawURL. A trailing ".git" is
// removed from the name; dots elsewhere are kept. ok is false when the URL is
// not an http(s) or git@host: URL with exactly owner/name after the host.
func ParseOwnerName(rawURL string) (owner, name string, ok bool) {
	m := ownerNamePattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", "", false
	}

	owner = m[1]
	name = strings.TrimSuffix(m[2], ".git")

	if owner == "" || name == "" {
		return "", "", false
	}

	return owner, name, true
}
