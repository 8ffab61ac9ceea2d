package library

import (
	"sort"
	"strings"
	"unicode"
)

func sortEntries(list []Entry) {
	sort.SliceStable(list, func(i, j int) bool {
		return naturalLess(list[i].Name(), list[j].Name())
	})
}

func sortPresets(list []*Preset) {
	sort.SliceStable(list, func(i, j int) bool {
		return naturalLess(list[i].Name, list[j].Name)
	})
}

// naturalLess compares names case-insensitively, treating runs of
// digits as numbers so "Preset 2" sorts before "Preset 10".
func naturalLess(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			na, restA := splitNumber(a)
			nb, restB := splitNumber(b)
			if na != nb {
				// Compare numerically: shorter trimmed run is smaller,
				// equal lengths compare lexically.
				if len(na) != len(nb) {
					return len(na) < len(nb)
				}
				return na < nb
			}
			a, b = restA, restB
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool { return unicode.IsDigit(rune(c)) }

// splitNumber peels the leading digit run off s, with leading zeros
// trimmed for comparison.
func splitNumber(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	num := strings.TrimLeft(s[:i], "0")
	return num, s[i:]
}
