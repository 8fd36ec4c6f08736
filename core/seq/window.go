// core/seq/window.go
package seq

import (
	"errors"
	"fmt"
)

// DefaultWinsize is the window width the reference models were trained on.
const DefaultWinsize = 801

// MinWinsize is the narrowest window the encoders can address (centre ±2).
const MinWinsize = 5

var (
	// ErrInvalidWindow marks an unusable window size (even or too narrow).
	ErrInvalidWindow = errors.New("invalid window size")
	// ErrPosition marks a centre outside the sequence.
	ErrPosition = errors.New("position out of range")
)

// ValidateSize checks that size is odd and wide enough for the encoders.
func ValidateSize(size int) error {
	if size < MinWinsize {
		return fmt.Errorf("%w: %d < %d", ErrInvalidWindow, size, MinWinsize)
	}
	if size%2 == 0 {
		return fmt.Errorf("%w: %d is even", ErrInvalidWindow, size)
	}
	return nil
}

// Windower cuts fixed-width windows out of one sequence.
//
// The sequence is laid on a ring whose circumference is max(size, len(s));
// ring slots past the end of s hold Pad. Slot k of the window centred at
// pos reads ring position (pos - mid + k) mod C. For sequences no longer
// than the window this is a circular fill: the whole sequence
// appears exactly once, and context that overruns one end is taken from
// the other end of the ring.
type Windower struct {
	size int
	mid  int
	s    []byte
}

// NewWindower validates size and binds s. s is not copied.
func NewWindower(s []byte, size int) (*Windower, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	return &Windower{size: size, mid: (size - 1) / 2, s: s}, nil
}

// Size returns the window width.
func (w *Windower) Size() int { return w.size }

// Mid returns the index of the centre slot.
func (w *Windower) Mid() int { return w.mid }

// Len returns the bound sequence length.
func (w *Windower) Len() int { return len(w.s) }

// At returns the window centred at pos.
func (w *Windower) At(pos int) ([]byte, error) {
	out := make([]byte, w.size)
	if err := w.Fill(out, pos); err != nil {
		return nil, err
	}
	return out, nil
}

// Fill writes the window centred at pos into dst, which must hold Size() bytes.
func (w *Windower) Fill(dst []byte, pos int) error {
	n := len(w.s)
	if pos < 0 || pos >= n {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrPosition, pos, n)
	}
	if len(dst) != w.size {
		return fmt.Errorf("window buffer holds %d bytes, want %d", len(dst), w.size)
	}
	ring := w.size
	if n > ring {
		ring = n
	}
	idx := ((pos-w.mid)%ring + ring) % ring
	for k := range dst {
		if idx < n {
			dst[k] = w.s[idx]
		} else {
			dst[k] = Pad
		}
		idx++
		if idx == ring {
			idx = 0
		}
	}
	return nil
}

// Window is the one-shot form of NewWindower(s, size).At(pos).
func Window(pos int, s []byte, size int) ([]byte, error) {
	w, err := NewWindower(s, size)
	if err != nil {
		return nil, err
	}
	return w.At(pos)
}
