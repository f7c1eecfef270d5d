package source

import (
	"regexp"
	"strconv"
	"strings"
)

// describeSuffix matches the "-<n>-g<hash>" tail git describe appends when
// HEAD is ahead of the tag.
var describeSuffix = regexp.MustCompile(`^(.+)-(\d+)-g([0-9a-f]+)$`)

// unsafeChars matches anything outside the filesystem-safe revision alphabet.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9.-]+`)

// Description is the parsed output of `git describe --tags`.
type Description struct {
	Tag     string
	Commits int    // commits since Tag; 0 when HEAD is exactly the tag
	Abbrev  string // abbreviated hash, empty when exact
}

// Exact reports whether HEAD sits exactly on Tag.
func (d Description) Exact() bool { return d.Commits == 0 }

// ParseDescribe splits git describe output. Tags may themselves contain
// dashes ("2.0.0-pre"); only a trailing "-<n>-g<hash>" is stripped.
func ParseDescribe(out string) Description {
	out = strings.TrimSpace(out)
	m := describeSuffix.FindStringSubmatch(out)
	if m == nil {
		return Description{Tag: out}
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Description{Tag: out}
	}
	return Description{Tag: m[1], Commits: n, Abbrev: m[3]}
}

// Sanitize maps s onto [A-Za-z0-9.-], replacing each run of other
// characters with a single dash.
func Sanitize(s string) string {
	return strings.Trim(unsafeChars.ReplaceAllString(s, "-"), "-")
}
