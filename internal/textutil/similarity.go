package textutil

// SimilarityFunc scores how alike two strings are on a [0, 1] scale.
// Implementations must be symmetric and return 0 when either input is empty.
type SimilarityFunc func(a, b string) float64

// SimilarityRatio computes a normalized similarity between two strings as
// 2*LCS(a, b) / (len(a) + len(b)), where LCS is the length of the longest
// common subsequence over runes. Identical strings score 1.0, strings with
// no characters in common score 0.0.
func SimilarityRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	ra := []rune(a)
	rb := []rune(b)

	return float64(2*lcsLength(ra, rb)) / float64(len(ra)+len(rb))
}

// lcsLength computes the longest common subsequence length with a
// two-row dynamic programming table
func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
