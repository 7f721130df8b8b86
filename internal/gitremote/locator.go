// Package gitremote implements the remote side of the virtual
// filesystem: locator parsing and a GitHub-backed gitfs.Remote using
// the REST API for shallow listings and blob contents and the GraphQL
// API for bulk subtree fetches.
package gitremote

import (
	"fmt"
	"net/url"
	"strings"
)

// Locator identifies a position in a remote repository snapshot.
type Locator struct {
	Owner string
	Repo  string
	Ref   string // branch, tag or commit; empty means the default branch
	Path  string // repo-relative root of the browsed tree, no leading slash
}

// Key returns the canonical snapshot identity used for request
// deduplication. An unresolved ref keys as HEAD; the identity is
// stable because the ref is fixed for the session.
func (l Locator) Key() string {
	ref := l.Ref
	if ref == "" {
		ref = "HEAD"
	}
	k := l.Owner + "/" + l.Repo + "@" + ref
	if l.Path != "" {
		k += "/" + l.Path
	}
	return k
}

func (l Locator) String() string { return l.Key() }

// ParseLocator parses an identifying URI into structured coordinates.
// Accepted forms:
//
//	owner/repo[@ref][/path...]
//	github1s://owner/repo[@ref][/path...]
//	https://github.com/owner/repo
//	https://github.com/owner/repo/tree/<ref>/<path...>
//	https://github.com/owner/repo/blob/<ref>/<path...>
//
// Refs containing slashes are not representable in the URL forms; the
// segment after tree/blob is taken as the whole ref.
func ParseLocator(raw string) (Locator, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Locator{}, fmt.Errorf("parse locator: empty input")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return Locator{}, fmt.Errorf("parse locator %q: %w", raw, err)
		}
		switch u.Scheme {
		case "github1s":
			return parseShorthand(u.Host + u.Path)
		case "http", "https":
			if u.Host != "github.com" && u.Host != "www.github.com" {
				return Locator{}, fmt.Errorf("parse locator %q: unsupported host %q", raw, u.Host)
			}
			return parseWebURL(u.Path)
		default:
			return Locator{}, fmt.Errorf("parse locator %q: unsupported scheme %q", raw, u.Scheme)
		}
	}

	return parseShorthand(raw)
}

// parseShorthand handles owner/repo[@ref][/path...].
func parseShorthand(s string) (Locator, error) {
	segs := splitSegments(s)
	if len(segs) < 2 {
		return Locator{}, fmt.Errorf("parse locator %q: want owner/repo", s)
	}
	loc := Locator{Owner: segs[0], Repo: segs[1]}
	if at := strings.IndexByte(loc.Repo, '@'); at >= 0 {
		loc.Ref = loc.Repo[at+1:]
		loc.Repo = loc.Repo[:at]
	}
	if loc.Owner == "" || loc.Repo == "" {
		return Locator{}, fmt.Errorf("parse locator %q: empty owner or repo", s)
	}
	loc.Path = strings.Join(segs[2:], "/")
	return loc, nil
}

// parseWebURL handles github.com URL paths.
func parseWebURL(p string) (Locator, error) {
	segs := splitSegments(p)
	if len(segs) < 2 {
		return Locator{}, fmt.Errorf("parse locator %q: want /owner/repo", p)
	}
	loc := Locator{Owner: segs[0], Repo: strings.TrimSuffix(segs[1], ".git")}
	rest := segs[2:]
	if len(rest) == 0 {
		return loc, nil
	}
	switch rest[0] {
	case "tree", "blob":
		if len(rest) < 2 {
			return Locator{}, fmt.Errorf("parse locator %q: missing ref after %s", p, rest[0])
		}
		loc.Ref = rest[1]
		loc.Path = strings.Join(rest[2:], "/")
		return loc, nil
	default:
		return Locator{}, fmt.Errorf("parse locator %q: unsupported path component %q", p, rest[0])
	}
}

func splitSegments(s string) []string {
	var segs []string
	for _, seg := range strings.Split(strings.Trim(s, "/"), "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}
