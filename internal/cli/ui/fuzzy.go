package ui

import (
	"sort"
	"strings"

	"github.com/conduit-lang/kmeta/internal/annotation"
)

const (
	// DefaultMaxDistance is the largest edit distance still suggested.
	DefaultMaxDistance = 3
	// DefaultMaxSuggestions caps the number of suggestions.
	DefaultMaxSuggestions = 3
)

type suggestion struct {
	value    string
	distance int
}

// SimilarClasses returns the candidates closest to target. Both the
// qualified and the simple name of each candidate are compared, so a typo
// in either form finds the class:
//
//	SimilarClasses("a.b.DumpFuncton", supported) // ["a.b.DumpFunction"]
//	SimilarClasses("SomeAnn", supported)         // ["a.b.SomeAnno"]
func SimilarClasses(target annotation.Class, candidates []annotation.Class) []string {
	t := strings.ToLower(string(target))
	ts := strings.ToLower(target.SimpleName())

	var found []suggestion
	for _, c := range candidates {
		dist := min(
			LevenshteinDistance(t, strings.ToLower(string(c))),
			LevenshteinDistance(ts, strings.ToLower(c.SimpleName())),
		)
		if dist <= DefaultMaxDistance {
			found = append(found, suggestion{value: string(c), distance: dist})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].distance < found[j].distance
	})

	out := make([]string, 0, DefaultMaxSuggestions)
	for i := 0; i < len(found) && i < DefaultMaxSuggestions; i++ {
		out = append(out, found[i].value)
	}
	return out
}

// LevenshteinDistance counts the single-rune insertions, deletions and
// substitutions turning s1 into s2.
func LevenshteinDistance(s1, s2 string) int {
	a, b := []rune(s1), []rune(s2)
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
