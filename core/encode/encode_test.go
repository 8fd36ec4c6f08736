package encode

import (
	"errors"
	"testing"

	"deepfold-core/seq"
)

func mustEncode1D(t *testing.T, w string) Tensor {
	t.Helper()
	x, err := Encode1D([]byte(w))
	if err != nil {
		t.Fatalf("Encode1D(%s): %v", w, err)
	}
	return x
}

func TestOneHotColumnSums(t *testing.T) {
	w := "NACGUTNGA"
	x := mustEncode1D(t, w)
	for c := 0; c < len(w); c++ {
		var sum float32
		for r := 0; r < 4; r++ {
			sum += x.At(r, c)
		}
		want := float32(1)
		if w[c] == 'N' {
			want = 0
		}
		if sum != want {
			t.Errorf("column %d (%c): one-hot sum %v, want %v", c, w[c], sum, want)
		}
	}
}

func TestProximityRow(t *testing.T) {
	x := mustEncode1D(t, "ACGUAGC")
	want := []float32{0, 0.25, 0.5, 1, 0.5, 0.25, 0}
	for c, v := range want {
		if got := x.At(RowProximity, c); got != v {
			t.Errorf("proximity[%d]=%v want %v", c, got, v)
		}
	}

	// padded neighbours are not weighted
	x = mustEncode1D(t, "ANGUNAC")
	want = []float32{0, 0, 0.5, 1, 0, 0.25, 0}
	for c, v := range want {
		if got := x.At(RowProximity, c); got != v {
			t.Errorf("padded proximity[%d]=%v want %v", c, got, v)
		}
	}
}

func TestComplementMask(t *testing.T) {
	cases := map[string]string{
		"UTGCAAGCU": "110000001", // centre A marks U and T
		"UTGCCAGCU": "001000100", // centre C marks G
		"UTGCGAGCU": "110100011", // centre G marks C, U and T
		"UTGCUAGCU": "001001100", // centre U marks G and A
		"UTGCTAGCU": "001001100", // centre T behaves like U
		"UTGCNAGCU": "000000000",
	}
	for w, mask := range cases {
		x := mustEncode1D(t, w)
		for c := range w {
			want := float32(0)
			if mask[c] == '1' {
				want = 1
			}
			if got := x.At(RowComplement, c); got != want {
				t.Errorf("%s: mask[%d]=%v want %v", w, c, got, want)
			}
		}
	}
}

func TestEncode1DUnknownSymbol(t *testing.T) {
	_, err := Encode1D([]byte("ACGXU"))
	if !errors.Is(err, seq.ErrUnknownSymbol) {
		t.Fatalf("want ErrUnknownSymbol, got %v", err)
	}
	var se *seq.SymbolError
	if !errors.As(err, &se) || se.Pos != 3 {
		t.Fatalf("want position 3, got %v", err)
	}
}

func TestEncode1DEvenWidth(t *testing.T) {
	if _, err := Encode1D([]byte("ACGUAC")); !errors.Is(err, seq.ErrInvalidWindow) {
		t.Fatalf("want ErrInvalidWindow, got %v", err)
	}
}

func TestEncode2DRowsMatchOneHot(t *testing.T) {
	w1 := []byte("NACGUAGCU")
	w2 := []byte("GGAUCNNAC")
	x, err := Encode2D(w1, w2)
	if err != nil {
		t.Fatal(err)
	}
	a := mustEncode1D(t, string(w1))
	b := mustEncode1D(t, string(w2))
	n := len(w1)
	for r := 0; r < 4; r++ {
		for c := 0; c < n; c++ {
			if x.At(r, c) != a.At(r, c) {
				t.Fatalf("row %d col %d: 2D %v, 1D %v", r, c, x.At(r, c), a.At(r, c))
			}
			if x.At(RowSecond+r, n-1-c) != b.At(r, c) {
				t.Fatalf("reflected row %d col %d mismatch", r, c)
			}
		}
	}

	// reversing the second window undoes the reflection
	rev := make([]byte, n)
	for i := range w2 {
		rev[n-1-i] = w2[i]
	}
	y, err := Encode2D(w1, rev)
	if err != nil {
		t.Fatal(err)
	}
	c := mustEncode1D(t, string(rev))
	for r := 0; r < 4; r++ {
		for col := 0; col < n; col++ {
			if y.At(RowSecond+r, col) != c.At(r, n-1-col) {
				t.Fatalf("double reflection mismatch at row %d col %d", r, col)
			}
			if y.At(RowSecond+r, col) != b.At(r, col) {
				t.Fatalf("reversed input should restore natural order at row %d col %d", r, col)
			}
		}
	}
}

func TestEncode2DJointProximity(t *testing.T) {
	// mid=4; w2 has N at mid+1, so column mid-1 (paired with w2[mid+1]) drops
	w1 := []byte("AAAAAAAAA")
	w2 := []byte("UUUUUNUUU")
	x, err := Encode2D(w1, w2)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{0, 0, 0.25, 0, 1, 0.5, 0.25, 0, 0}
	for c, v := range want {
		if got := x.At(RowProximity, c); got != v {
			t.Errorf("joint proximity[%d]=%v want %v", c, got, v)
		}
	}
}

func TestEncode2DLengthMismatch(t *testing.T) {
	if _, err := Encode2D([]byte("ACGUA"), []byte("ACGUACG")); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("want ErrLengthMismatch, got %v", err)
	}
}
