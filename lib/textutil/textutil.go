package textutil

import (
	"regexp"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name and collapses its whitespace into single
// spaces.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return name
}

// Similarity returns the Jaro-Winkler similarity of the normalized names,
// between 0 and 1.
func Similarity(left, right string) float64 {
	return matchr.JaroWinkler(NormalizeName(left), NormalizeName(right), false)
}

// RankBySimilarity returns the indices of candidates ordered from the most to
// the least similar to query, ties keep their original order.
func RankBySimilarity(query string, candidates []string) []int {
	scores := make([]float64, len(candidates))
	order := make([]int, len(candidates))
	for i, c := range candidates {
		scores[i] = Similarity(query, c)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}
