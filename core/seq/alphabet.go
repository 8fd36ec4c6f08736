// core/seq/alphabet.go
package seq

import (
	"errors"
	"fmt"
)

// Pad is the symbol used for window slots that hold no sequence.
const Pad = 'N'

// ErrUnknownSymbol is returned when a base lies outside {A,C,G,U,T,N}.
var ErrUnknownSymbol = errors.New("unknown nucleotide symbol")

// SymbolError locates an alphabet violation.
type SymbolError struct {
	Pos    int
	Symbol byte
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("%v %q at position %d", ErrUnknownSymbol, e.Symbol, e.Pos)
}

func (e *SymbolError) Unwrap() error { return ErrUnknownSymbol }

// Index returns the one-hot row of b (A=0 C=1 G=2 U/T=3).
// ok is false for the pad symbol and for anything unrecognised.
func Index(b byte) (row int, ok bool) {
	switch b {
	case 'A':
		return 0, true
	case 'C':
		return 1, true
	case 'G':
		return 2, true
	case 'U', 'T':
		return 3, true
	}
	return -1, false
}

// Valid reports whether b belongs to the alphabet, pad included.
func Valid(b byte) bool {
	_, ok := Index(b)
	return ok || b == Pad
}

// Check returns a *SymbolError for the first invalid base of s.
func Check(s []byte) error {
	for i, b := range s {
		if !Valid(b) {
			return &SymbolError{Pos: i, Symbol: b}
		}
	}
	return nil
}

// Complements reports whether b may sit opposite centre in a Watson-Crick
// or wobble pair. A pad centre pairs with nothing.
func Complements(centre, b byte) bool {
	switch centre {
	case 'A':
		return b == 'U' || b == 'T'
	case 'C':
		return b == 'G'
	case 'G':
		return b == 'C' || b == 'U' || b == 'T'
	case 'U', 'T':
		return b == 'G' || b == 'A'
	}
	return false
}
