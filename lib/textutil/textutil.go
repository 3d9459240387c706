package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name and strips all whitespace, the back office
// is inconsistent about casing and padding in option values and names.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

var digitsRegex = regexp.MustCompile(`\d+`)

// digits returns the numbers in a normalized name, "size10" and "size12"
// differ only in these.
func digits(name string) string {
	return strings.Join(digitsRegex.FindAllString(name, -1), ",")
}

// BestMatch returns the index of the candidate most similar to target along
// with its Jaro-Winkler similarity. An exact match after normalization
// always wins. Candidates whose numbers differ from target's are never
// matched. It returns -1 when no candidate is left.
func BestMatch(target string, candidates []string) (int, float64) {
	normalizedTarget := NormalizeName(target)
	targetDigits := digits(normalizedTarget)

	best := -1
	var bestSimilarity float64
	for i, c := range candidates {
		normalized := NormalizeName(c)
		if normalized == normalizedTarget {
			return i, 1
		}
		if digits(normalized) != targetDigits {
			continue
		}
		similarity := matchr.JaroWinkler(normalizedTarget, normalized, false)
		if best < 0 || similarity > bestSimilarity {
			best = i
			bestSimilarity = similarity
		}
	}
	return best, bestSimilarity
}
