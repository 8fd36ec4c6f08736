// core/encode/encode.go
package encode

import (
	"errors"
	"fmt"

	"deepfold-core/seq"
)

// Row layout of the 1D and 2D tensors.
const (
	Rows1D = 6
	Rows2D = 9

	RowProximity  = 4
	RowComplement = 5 // 1D only
	RowSecond     = 5 // 2D: first one-hot row of the second window
)

// ErrLengthMismatch is returned when paired windows differ in width.
var ErrLengthMismatch = errors.New("window length mismatch")

// proximity weights by distance from the centre slot.
var proximity = [3]float32{1.0, 0.5, 0.25}

// Encode1D maps one window to a [6, len(w)] tensor: one-hot bases in rows
// 0-3, proximity weights around the centre in row 4 (zero where the
// neighbouring slot is padding), and in row 5 a mask of every slot whose
// base can pair with the centre base.
func Encode1D(w []byte) (Tensor, error) {
	t := NewTensor(Rows1D, len(w))
	if err := Encode1DInto(t, w); err != nil {
		return Tensor{}, err
	}
	return t, nil
}

// Encode1DInto is Encode1D writing into a preallocated tensor.
func Encode1DInto(t Tensor, w []byte) error {
	if err := checkWidth(len(w)); err != nil {
		return err
	}
	if t.Rows != Rows1D || t.Cols != len(w) {
		return fmt.Errorf("1D tensor is %v, want [%d,%d]", t, Rows1D, len(w))
	}
	clear(t.Data)
	if err := oneHot(t, 0, w, false); err != nil {
		return err
	}
	mid := (len(w) - 1) / 2
	t.Set(RowProximity, mid, proximity[0])
	for d := 1; d <= 2; d++ {
		if w[mid+d] != seq.Pad {
			t.Set(RowProximity, mid+d, proximity[d])
		}
		if w[mid-d] != seq.Pad {
			t.Set(RowProximity, mid-d, proximity[d])
		}
	}
	centre := w[mid]
	mask := t.Row(RowComplement)
	for i, b := range w {
		if seq.Complements(centre, b) {
			mask[i] = 1
		}
	}
	return nil
}

// Encode2D maps the windows around two candidate partners to a [9, len]
// tensor. Rows 0-3 hold w1 one-hot in order, rows 5-8 hold w2 one-hot
// reversed (column len-1-i carries w2[i]) so the two strands run
// antiparallel. Row 4 weights the centre and its ±1/±2 columns, each only
// when both facing slots (w1[mid+d], w2[mid-d]) are real bases.
func Encode2D(w1, w2 []byte) (Tensor, error) {
	t := NewTensor(Rows2D, len(w1))
	if err := Encode2DInto(t, w1, w2); err != nil {
		return Tensor{}, err
	}
	return t, nil
}

// Encode2DInto is Encode2D writing into a preallocated tensor.
func Encode2DInto(t Tensor, w1, w2 []byte) error {
	if len(w1) != len(w2) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(w1), len(w2))
	}
	if err := checkWidth(len(w1)); err != nil {
		return err
	}
	if t.Rows != Rows2D || t.Cols != len(w1) {
		return fmt.Errorf("2D tensor is %v, want [%d,%d]", t, Rows2D, len(w1))
	}
	clear(t.Data)
	if err := oneHot(t, 0, w1, false); err != nil {
		return err
	}
	if err := oneHot(t, RowSecond, w2, true); err != nil {
		return err
	}
	mid := (len(w1) - 1) / 2
	t.Set(RowProximity, mid, proximity[0])
	for d := 1; d <= 2; d++ {
		if w1[mid+d] != seq.Pad && w2[mid-d] != seq.Pad {
			t.Set(RowProximity, mid+d, proximity[d])
		}
		if w1[mid-d] != seq.Pad && w2[mid+d] != seq.Pad {
			t.Set(RowProximity, mid-d, proximity[d])
		}
	}
	return nil
}

// oneHot writes w into rows [base, base+4); reversed places w[i] at column
// len-1-i.
func oneHot(t Tensor, base int, w []byte, reversed bool) error {
	n := len(w)
	for i, b := range w {
		row, ok := seq.Index(b)
		if !ok {
			if b == seq.Pad {
				continue
			}
			return &seq.SymbolError{Pos: i, Symbol: b}
		}
		col := i
		if reversed {
			col = n - 1 - i
		}
		t.Set(base+row, col, 1)
	}
	return nil
}

func checkWidth(n int) error {
	return seq.ValidateSize(n)
}
