package payload

import (
	"math"

	"github.com/gravnet/engine/internal/vecmath"
)

// Similarity scores two PayloadValues into [0,1], applying the rules in
// order and never failing on an unrecognized pair — an unknown shape
// combination falls through to the structural-equality rule and returns 0
// for anything that isn't a byte-for-byte match.
func Similarity(a, b Value) float64 {
	if a == nil || b == nil {
		return boolToScore(a == nil && b == nil)
	}

	// Rules 1 & 2: both numeric arrays (Vector or Matrix), any shape —
	// flatten and compare by cosine. Equal-shape and unequal-shape inputs
	// take the same code path since both ultimately compare flattened
	// views; only the doc in spec.md distinguishes them.
	if fa, ok := Flatten(a); ok {
		if fb, ok := Flatten(b); ok {
			cos, ok := vecmath.CosineSimilarity(fa, fb)
			if !ok {
				// Zero-norm pair: cosine is undefined, so score 0 rather
				// than let Rescale01 turn "undefined" into a false 0.5.
				return 0
			}
			return vecmath.Rescale01(cos)
		}
	}

	// Rule 3: both Mapping.
	if ma, ok := MappingData(a); ok {
		if mb, ok := MappingData(b); ok {
			return mappingSimilarity(ma, mb)
		}
	}

	// Rule 4: both Bytes or both Text.
	if sa, ok := textLike(a); ok {
		if sb, ok := textLike(b); ok && a.Kind() == b.Kind() {
			return lcsRatio(sa, sb)
		}
	}

	// Rule 5: both Number.
	if na, ok := NumberFloat(a); ok {
		if nb, ok := NumberFloat(b); ok {
			return numberSimilarity(na, nb)
		}
	}

	// Rule 6: fallback structural equality.
	return boolToScore(Equal(a, b))
}

func boolToScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func mappingSimilarity(a, b map[string]Value) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		if _, ok := b[k]; ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return 0
	}
	matches := 0
	for _, k := range keys {
		if Equal(a[k], b[k]) {
			matches++
		}
	}
	return float64(matches) / float64(len(keys))
}

// textLike decodes Text and Bytes values into a string for LCS comparison;
// Bytes are decoded with lossy UTF-8 (invalid sequences become U+FFFD).
func textLike(v Value) (string, bool) {
	if s, ok := TextString(v); ok {
		return s, true
	}
	if b, ok := BytesSlice(v); ok {
		return decodeLossyUTF8(b), true
	}
	return "", false
}

func numberSimilarity(a, b float64) float64 {
	if a == b {
		return 1
	}
	denom := math.Max(math.Max(math.Abs(a), math.Abs(b)), 1)
	return vecmath.Clamp01(1 - math.Abs(a-b)/denom)
}
