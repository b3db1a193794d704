package payload

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// maxSummaryRunes bounds the summary string emitted to both the identity
// hash and the HTTP/WS response payloads, per the 256-char response cap.
const maxSummaryRunes = 256

// Summarize renders v into a short human-readable summary plus its type
// tag. It is used both as the canonical input to the identity hash and as
// the "payload_summary" field of API responses. The summary does not carry
// the full payload: bytes and vectors show only their length, mappings only
// their keys, matrices only their shape, and text is cut at 256 runes, so a
// payload change that keeps these the same leaves the summary unchanged.
func Summarize(v Value) (summary string, typeTag string) {
	if v == nil {
		return "", string(KindNone)
	}
	switch vv := v.(type) {
	case noneValue:
		return "", string(KindNone)
	case textValue:
		return truncate(vv.s), string(KindText)
	case bytesValue:
		return fmt.Sprintf("bytes(len=%d)", len(vv.b)), string(KindBytes)
	case numberValue:
		return strconv.FormatFloat(vv.n, 'g', -1, 64), string(KindNumber)
	case mappingValue:
		keys := make([]string, 0, len(vv.m))
		for k := range vv.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return truncate(fmt.Sprintf("mapping(keys=%s)", strings.Join(keys, ","))), string(KindMapping)
	case vectorValue:
		return fmt.Sprintf("vector(len=%d)", len(vv.v)), string(KindVector)
	case matrixValue:
		dims := make([]string, len(vv.shape))
		for i, d := range vv.shape {
			dims[i] = strconv.Itoa(d)
		}
		return fmt.Sprintf("matrix(shape=%s)", strings.Join(dims, "x")), string(KindMatrix)
	default:
		return "", "unknown"
	}
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxSummaryRunes {
		return s
	}
	return string(r[:maxSummaryRunes-1]) + "…"
}
