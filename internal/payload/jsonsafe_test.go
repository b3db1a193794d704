package payload

import "testing"

func TestToJSONSafeBytes(t *testing.T) {
	js := ToJSONSafe(Bytes([]byte("hi")))
	if js.Format != "bytes" || js.Length != 2 || js.Value != "aGk=" {
		t.Fatalf("unexpected JSONSafe: %+v", js)
	}
}

func TestToJSONSafeVector(t *testing.T) {
	js := ToJSONSafe(Vector([]float64{1, 2, 3}))
	if js.Format != "ndarray" || js.Dtype != "float64" || len(js.Shape) != 1 || js.Shape[0] != 3 {
		t.Fatalf("unexpected JSONSafe: %+v", js)
	}
}

func TestFromRequestBytesRoundTrip(t *testing.T) {
	v, err := FromRequest("bytes", "aGk=", nil)
	if err != nil {
		t.Fatal(err)
	}
	b, ok := BytesSlice(v)
	if !ok || string(b) != "hi" {
		t.Fatalf("got %q, ok=%v", b, ok)
	}
}

func TestFromRequestNDArrayWithShape(t *testing.T) {
	raw := []interface{}{1.0, 2.0, 3.0, 4.0}
	v, err := FromRequest("ndarray", raw, []int{2, 2})
	if err != nil {
		t.Fatal(err)
	}
	data, shape, ok := MatrixData(v)
	if !ok || len(data) != 4 || len(shape) != 2 {
		t.Fatalf("unexpected matrix: data=%v shape=%v ok=%v", data, shape, ok)
	}
}

func TestFromRequestJSONScalar(t *testing.T) {
	v, err := FromRequest("json", "hello", nil)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := TextString(v)
	if !ok || s != "hello" {
		t.Fatalf("got %q, ok=%v", s, ok)
	}
}

func TestFromRequestUnsupportedFormat(t *testing.T) {
	if _, err := FromRequest("exotic", nil, nil); err != ErrUnsupportedDataFormat {
		t.Fatalf("err = %v, want ErrUnsupportedDataFormat", err)
	}
}
