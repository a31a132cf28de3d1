// Package version compares release tags against installed versions.
//
// The default scheme follows the ordering package managers in the PHP world
// use for plugin and theme versions:
//
//   - the string is canonicalised: '-', '_' and '+' become '.', a '.' is
//     inserted wherever a run of digits meets a run of non-digits, and any
//     other non-alphanumeric character becomes '.'
//   - segments are compared left to right; two numeric segments compare
//     numerically, anything else compares by rank:
//     unknown < dev < alpha = a < beta = b < RC = rc < number < pl = p
//   - when one version runs out of segments, a remaining numeric segment makes
//     the longer version greater and a remaining word is ranked against a
//     number, so 1.0 < 1.0.0 < 1.0.1 and 1.0.0-beta < 1.0.0
//
// A single leading "v" or "V" followed by a digit is ignored, so "v1.3.0"
// and "1.3.0" are equal. Without that, "v" would rank as an unknown word and
// every v-prefixed tag would sort below every bare number.
//
// The semver scheme uses Masterminds/semver precedence when both strings
// parse as semantic versions and falls back to the default scheme otherwise.
package version

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
)

// Scheme names accepted by ForScheme.
const (
	SchemeDefault = "default"
	SchemeSemver  = "semver"
)

// CompareFunc returns -1, 0 or 1 when a is lower than, equal to or greater
// than b.
type CompareFunc func(a, b string) int

// ForScheme returns the comparison function for a scheme name. Unknown and
// empty names select the default scheme.
func ForScheme(name string) CompareFunc {
	if strings.EqualFold(name, SchemeSemver) {
		return CompareSemver
	}
	return Compare
}

// CompareSemver compares by semantic-version precedence, falling back to
// Compare when either side is not a semantic version.
func CompareSemver(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return Compare(a, b)
	}
	return va.Compare(vb)
}

// Compare compares two version strings under the default scheme.
func Compare(a, b string) int {
	a, b = stripPrefix(a), stripPrefix(b)
	if a == "" || b == "" {
		switch {
		case a == "" && b == "":
			return 0
		case a == "":
			return -1
		default:
			return 1
		}
	}
	return compareSegments(Canonicalize(a), Canonicalize(b))
}

func stripPrefix(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > 1 && (v[0] == 'v' || v[0] == 'V') && isDigit(rune(v[1])) {
		return v[1:]
	}
	return v
}

// Canonicalize rewrites a version string into dot-separated segments.
func Canonicalize(v string) string {
	if v == "" {
		return ""
	}
	runes := []rune(v)
	var b strings.Builder
	b.Grow(len(v) * 2)

	last := runes[0]
	b.WriteRune(last)
	lastWritten := last

	for _, r := range runes[1:] {
		switch {
		case r == '-' || r == '_' || r == '+':
			if lastWritten != '.' {
				b.WriteRune('.')
				lastWritten = '.'
			}
		case (isNonDigit(last) && isDigit(r)) || (isDigit(last) && isNonDigit(r)):
			if lastWritten != '.' {
				b.WriteRune('.')
			}
			b.WriteRune(r)
			lastWritten = r
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			if lastWritten != '.' {
				b.WriteRune('.')
				lastWritten = '.'
			}
		default:
			b.WriteRune(r)
			lastWritten = r
		}
		last = r
	}
	return strings.TrimSuffix(b.String(), ".")
}

func compareSegments(a, b string) int {
	sa := splitSegments(a)
	sb := splitSegments(b)

	n := len(sa)
	if len(sb) < n {
		n = len(sb)
	}

	for i := 0; i < n; i++ {
		if c := compareSegment(sa[i], sb[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(sa) > n:
		if startsWithDigit(sa[n]) {
			return 1
		}
		return compareSegments(strings.Join(sa[n:], "."), numberMarker)
	case len(sb) > n:
		if startsWithDigit(sb[n]) {
			return -1
		}
		return compareSegments(numberMarker, strings.Join(sb[n:], "."))
	}
	return 0
}

// splitSegments splits on dots, dropping empty segments.
func splitSegments(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool { return r == '.' })
}

// numberMarker ranks as a bare number against word segments.
const numberMarker = "#N#"

func compareSegment(a, b string) int {
	da, db := startsWithDigit(a), startsWithDigit(b)
	switch {
	case da && db:
		return compareNumbers(a, b)
	case !da && !db:
		return sign(wordRank(a) - wordRank(b))
	case da:
		return sign(wordRank(numberMarker) - wordRank(b))
	default:
		return sign(wordRank(a) - wordRank(numberMarker))
	}
}

func compareNumbers(a, b string) int {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	// Too long for uint64: compare by magnitude, then lexically.
	a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return sign(len(a) - len(b))
	}
	return strings.Compare(a, b)
}

var wordRanks = []struct {
	prefix string
	rank   int
}{
	{"dev", 0},
	{"alpha", 1},
	{"a", 1},
	{"beta", 2},
	{"b", 2},
	{"RC", 3},
	{"rc", 3},
	{"#", 4},
	{"pl", 5},
	{"p", 5},
}

// wordRank returns the rank of the first known prefix of s, or -1.
func wordRank(s string) int {
	for _, w := range wordRanks {
		if strings.HasPrefix(s, w.prefix) {
			return w.rank
		}
	}
	return -1
}

func startsWithDigit(s string) bool {
	return s != "" && isDigit(rune(s[0]))
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNonDigit(r rune) bool {
	return !isDigit(r) && r != '.'
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
