package payload

import "unicode/utf8"

// decodeLossyUTF8 decodes b rune-by-rune, substituting the replacement
// character for any invalid byte sequence rather than failing.
func decodeLossyUTF8(b []byte) string {
	runes := make([]rune, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		runes = append(runes, r)
		b = b[size:]
	}
	return string(runes)
}

// lcsRatio returns the longest-common-subsequence ratio of a and b:
// 2*lcsLen/(len(a)+len(b)), which is 1 iff a == b and 0 when either string
// is empty and they differ. The table is computed with a rolling two-row
// array rather than a full n*m matrix, the same memory-saving technique
// used by the pack's dynamic-time-warping implementation.
func lcsRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return boolToScore(len(ra) == len(rb))
	}

	// Keep the shorter sequence as columns to bound row width.
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcsLen := prev[len(rb)]
	return 2 * float64(lcsLen) / float64(len(ra)+len(rb))
}
