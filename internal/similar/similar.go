// Package similar scores identifier similarity for "did you mean?" hints.
package similar

import (
	"sort"
	"unicode/utf8"

	"github.com/xrash/smetrics"

	"bobbin/internal/diag"
)

// DefaultThreshold is the minimum Jaro-Winkler score a suggestion needs.
const DefaultThreshold = 0.7

// Standard Jaro-Winkler tuning: boost scores above 0.7 using up to four
// characters of common prefix.
const (
	boostThreshold = 0.7
	prefixSize     = 4
)

// JaroWinkler implements diag.Matcher.
type JaroWinkler struct {
	Threshold float64
}

// Default returns a matcher with DefaultThreshold.
func Default() JaroWinkler {
	return JaroWinkler{Threshold: DefaultThreshold}
}

// New returns a matcher keeping scores >= threshold.
func New(threshold float64) JaroWinkler {
	return JaroWinkler{Threshold: threshold}
}

// Score returns the Jaro-Winkler similarity of a and b in [0, 1],
// compared character by character.
func Score(a, b string) float64 {
	if a == b {
		return 1
	}
	a, b = byteAlphabet(a, b)
	return smetrics.JaroWinkler(a, b, boostThreshold, prefixSize)
}

// byteAlphabet rewrites a and b so each distinct rune becomes one byte.
// smetrics compares bytes, and a multi-byte rune would otherwise count as
// several matching characters. ASCII-only input is returned as is.
func byteAlphabet(a, b string) (string, string) {
	if isASCII(a) && isASCII(b) {
		return a, b
	}
	codes := make(map[rune]byte, len(a)+len(b))
	encode := func(s string) (string, bool) {
		out := make([]byte, 0, len(s))
		for _, r := range s {
			c, ok := codes[r]
			if !ok {
				if len(codes) > 255 {
					return "", false
				}
				c = byte(len(codes))
				codes[r] = c
			}
			out = append(out, c)
		}
		return string(out), true
	}
	ea, okA := encode(a)
	eb, okB := encode(b)
	if !okA || !okB {
		// больше 256 разных символов в двух именах: сравниваем байты
		return a, b
	}
	return ea, eb
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// BestMatch returns the highest scoring candidate; the earliest wins ties.
func (m JaroWinkler) BestMatch(query string, candidates []string) (diag.Match, bool) {
	var (
		best  diag.Match
		found bool
	)
	for _, c := range candidates {
		s := Score(query, c)
		if s < m.Threshold {
			continue
		}
		if !found || s > best.Score {
			best = diag.Match{Candidate: c, Score: s}
			found = true
		}
	}
	return best, found
}

// FindSimilar returns candidates at or above the threshold, best first.
func (m JaroWinkler) FindSimilar(query string, candidates []string) []diag.Match {
	var out []diag.Match
	for _, c := range candidates {
		if s := Score(query, c); s >= m.Threshold {
			out = append(out, diag.Match{Candidate: c, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

var _ diag.Matcher = JaroWinkler{}
