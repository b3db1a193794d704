// Package payload implements PayloadValue: the tagged-union node data type
// and the cross-variant similarity function that scoring and discovery rely
// on to decide whether two nodes are compatible.
package payload

import "reflect"

// Kind discriminates the seven PayloadValue variants.
type Kind string

const (
	KindNone    Kind = "none"
	KindText    Kind = "text"
	KindBytes   Kind = "bytes"
	KindNumber  Kind = "number"
	KindMapping Kind = "mapping"
	KindVector  Kind = "vector"
	KindMatrix  Kind = "matrix"
)

// Value is the closed set of PayloadValue variants. It intentionally has no
// exported fields — callers type-switch or use the accessor functions below,
// keeping the construction surface to the Text/Bytes/Number/... helpers.
type Value interface {
	Kind() Kind
	// equal reports structural equality; used by similarity rule 3 (mapping
	// key comparison) and rule 6 (fallback equality).
	equal(other Value) bool
}

// None is the empty payload.
func None() Value { return noneValue{} }

type noneValue struct{}

func (noneValue) Kind() Kind { return KindNone }
func (noneValue) equal(o Value) bool {
	_, ok := o.(noneValue)
	return ok
}

// Text wraps a UTF-8 string payload.
func Text(s string) Value { return textValue{s: s} }

type textValue struct{ s string }

func (textValue) Kind() Kind { return KindText }
func (v textValue) equal(o Value) bool {
	ov, ok := o.(textValue)
	return ok && ov.s == v.s
}

// TextString returns the wrapped string and true if v is a Text value.
func TextString(v Value) (string, bool) {
	tv, ok := v.(textValue)
	return tv.s, ok
}

// Bytes wraps a raw byte-sequence payload. The slice is copied on
// construction so the caller's buffer may be reused afterwards.
func Bytes(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return bytesValue{b: cp}
}

type bytesValue struct{ b []byte }

func (bytesValue) Kind() Kind { return KindBytes }
func (v bytesValue) equal(o Value) bool {
	ov, ok := o.(bytesValue)
	return ok && reflect.DeepEqual(ov.b, v.b)
}

// BytesSlice returns the wrapped bytes and true if v is a Bytes value.
func BytesSlice(v Value) ([]byte, bool) {
	bv, ok := v.(bytesValue)
	return bv.b, ok
}

// Number wraps a real-valued scalar payload.
func Number(n float64) Value { return numberValue{n: n} }

type numberValue struct{ n float64 }

func (numberValue) Kind() Kind { return KindNumber }
func (v numberValue) equal(o Value) bool {
	ov, ok := o.(numberValue)
	return ok && ov.n == v.n
}

// NumberFloat returns the wrapped scalar and true if v is a Number value.
func NumberFloat(v Value) (float64, bool) {
	nv, ok := v.(numberValue)
	return nv.n, ok
}

// Mapping wraps a string-keyed payload map. The map is copied (shallow) on
// construction.
func Mapping(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return mappingValue{m: cp}
}

type mappingValue struct{ m map[string]Value }

func (mappingValue) Kind() Kind { return KindMapping }
func (v mappingValue) equal(o Value) bool {
	ov, ok := o.(mappingValue)
	if !ok || len(ov.m) != len(v.m) {
		return false
	}
	for k, val := range v.m {
		other, present := ov.m[k]
		if !present || !val.equal(other) {
			return false
		}
	}
	return true
}

// MappingData returns the wrapped map and true if v is a Mapping value.
func MappingData(v Value) (map[string]Value, bool) {
	mv, ok := v.(mappingValue)
	return mv.m, ok
}

// Vector wraps a one-dimensional real array payload.
func Vector(v []float64) Value {
	cp := make([]float64, len(v))
	copy(cp, v)
	return vectorValue{v: cp}
}

type vectorValue struct{ v []float64 }

func (vectorValue) Kind() Kind { return KindVector }
func (v vectorValue) equal(o Value) bool {
	ov, ok := o.(vectorValue)
	return ok && reflect.DeepEqual(ov.v, v.v)
}

// VectorData returns the wrapped slice and true if v is a Vector value.
func VectorData(v Value) ([]float64, bool) {
	vv, ok := v.(vectorValue)
	return vv.v, ok
}

// Matrix wraps an n-dimensional real array with explicit shape metadata.
// data is the row-major flattening of the array; shape's product must equal
// len(data) (callers constructing malformed matrices get undefined
// similarity behavior, not a panic — see Flatten).
func Matrix(data []float64, shape []int) Value {
	cpData := make([]float64, len(data))
	copy(cpData, data)
	cpShape := make([]int, len(shape))
	copy(cpShape, shape)
	return matrixValue{data: cpData, shape: cpShape}
}

type matrixValue struct {
	data  []float64
	shape []int
}

func (matrixValue) Kind() Kind { return KindMatrix }
func (v matrixValue) equal(o Value) bool {
	ov, ok := o.(matrixValue)
	return ok && reflect.DeepEqual(ov.shape, v.shape) && reflect.DeepEqual(ov.data, v.data)
}

// MatrixData returns the flattened data and shape, and true if v is a
// Matrix value.
func MatrixData(v Value) ([]float64, []int, bool) {
	mv, ok := v.(matrixValue)
	return mv.data, mv.shape, ok
}

// Flatten returns the numeric payload behind a Vector or Matrix as a flat
// slice, with ok=false for every other variant.
func Flatten(v Value) ([]float64, bool) {
	switch vv := v.(type) {
	case vectorValue:
		return vv.v, true
	case matrixValue:
		return vv.data, true
	default:
		return nil, false
	}
}

// Equal reports whether a and b are structurally equal PayloadValues.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.equal(b)
}
