package fuzzy

import (
	"sort"
	"strings"
)

// Scorer compares two strings and returns a similarity in [0, 100].
type Scorer func(a, b string) float64

// Scorer names accepted by ScorerByName.
const (
	ScorerTokenSet  = "token_set"
	ScorerTokenSort = "token_sort"
	ScorerRatio     = "ratio"
)

// ScorerByName resolves a configured scorer name.
func ScorerByName(name string) (Scorer, bool) {
	switch name {
	case "", ScorerTokenSet:
		return TokenSetRatio, true
	case ScorerTokenSort:
		return TokenSortRatio, true
	case ScorerRatio:
		return Ratio, true
	}
	return nil, false
}

// Ratio is the normalized indel similarity: 100 * (1 - indel / (len(a)+len(b))),
// where indel is the number of insertions and deletions turning a into b.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	dist := total - 2*lcsLength(ra, rb)
	return normalizedSimilarity(dist, total)
}

// TokenSortRatio sorts the whitespace-separated tokens of both strings before
// comparing them, so word order does not matter.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedJoin(strings.Fields(a)), sortedJoin(strings.Fields(b)))
}

// TokenSetRatio compares the token sets of both strings. Shared tokens are
// factored out and the remainders compared, so word order and repeated words
// do not matter, and a label that is a token subset of the other scores 100.
func TokenSetRatio(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var sect, diffAB, diffBA []string
	for tok := range setA {
		if setB[tok] {
			sect = append(sect, tok)
		} else {
			diffAB = append(diffAB, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			diffBA = append(diffBA, tok)
		}
	}

	if len(sect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	sectJoined := sortedJoin(sect)
	abJoined := sortedJoin(diffAB)
	baJoined := sortedJoin(diffBA)

	sectLen := len([]rune(sectJoined))
	abLen := len([]rune(abJoined))
	baLen := len([]rune(baJoined))

	sep := 0
	if sectLen > 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + abLen
	sectBALen := sectLen + sep + baLen

	// Compare "sect diffAB" with "sect diffBA": only the differing tails count.
	abRunes, baRunes := []rune(abJoined), []rune(baJoined)
	dist := abLen + baLen - 2*lcsLength(abRunes, baRunes)
	result := normalizedSimilarity(dist, sectABLen+sectBALen)

	if sectLen == 0 {
		return result
	}

	// Compare the intersection alone with each side.
	sectABRatio := normalizedSimilarity(sep+abLen, sectLen+sectABLen)
	sectBARatio := normalizedSimilarity(sep+baLen, sectLen+sectBALen)

	return max(result, sectABRatio, sectBARatio)
}

func normalizedSimilarity(dist, lensum int) float64 {
	if lensum == 0 {
		return 100
	}
	return 100 * (1 - float64(dist)/float64(lensum))
}

// lcsLength uses the two-row dynamic programming table.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

func sortedJoin(tokens []string) string {
	out := make([]string, len(tokens))
	copy(out, tokens)
	sort.Strings(out)
	return strings.Join(out, " ")
}
