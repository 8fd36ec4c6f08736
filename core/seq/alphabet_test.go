package seq

import (
	"errors"
	"testing"
)

func TestCheck(t *testing.T) {
	if err := Check([]byte("ACGUTN")); err != nil {
		t.Fatalf("valid alphabet rejected: %v", err)
	}
	err := Check([]byte("ACXG"))
	var se *SymbolError
	if !errors.As(err, &se) || se.Pos != 2 || se.Symbol != 'X' {
		t.Fatalf("want SymbolError at 2, got %v", err)
	}
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("SymbolError must unwrap to ErrUnknownSymbol")
	}
}

func TestComplements(t *testing.T) {
	want := map[byte]string{
		'A': "TU",
		'C': "G",
		'G': "CTU",
		'U': "AG",
		'T': "AG",
		'N': "",
	}
	for centre, partners := range want {
		for _, b := range []byte("ACGTUN") {
			exp := false
			for i := 0; i < len(partners); i++ {
				if partners[i] == b {
					exp = true
				}
			}
			if got := Complements(centre, b); got != exp {
				t.Errorf("Complements(%c,%c)=%v want %v", centre, b, got, exp)
			}
		}
	}
}
