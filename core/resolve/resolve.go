// core/resolve/resolve.go
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"deepfold-core/candidate"
)

// ErrLengthMismatch is returned when scores and candidates differ in count.
var ErrLengthMismatch = errors.New("scores do not match candidates")

// Policy selects how a new pair i-j treats an existing partner of j.
type Policy int

const (
	// PolicyShift repoints i to j±1 when j's previous partner was i's
	// neighbour, keeping adjacent pairs stacked.
	PolicyShift Policy = iota
	// PolicyOverwrite always assigns i-j and skips the neighbour shift;
	// j's previous partner keeps a stale entry.
	PolicyOverwrite
)

func (p Policy) String() string {
	switch p {
	case PolicyShift:
		return "shift"
	case PolicyOverwrite:
		return "overwrite"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts "shift" or "overwrite" ("" means shift).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "shift":
		return PolicyShift, nil
	case "overwrite":
		return PolicyOverwrite, nil
	}
	return 0, fmt.Errorf("unknown conflict policy %q (want shift|overwrite)", s)
}

// Thresholds returns the descending sweep 0.99, 0.98, ..., 0.50.
func Thresholds() []float64 {
	out := make([]float64, 50)
	for i := range out {
		out[i] = 0.99 - float64(i)*0.01
	}
	return out
}

// Resolver turns scored candidates into a pairing.
type Resolver struct {
	Thresholds []float64
	Policy     Policy
	NoSmooth   bool
}

// New returns a Resolver with the default sweep and policy.
func New() Resolver {
	return Resolver{Thresholds: Thresholds(), Policy: PolicyShift}
}

// Resolve sweeps the thresholds from high to low, greedily committing each
// candidate whose score clears the current threshold and whose first base
// is still free, then runs one smoothing pass. Candidates are visited in
// the order given; they are not re-sorted by score.
func (r Resolver) Resolve(pairs []candidate.Pair, scores []float32, seqlen int) (*Map, error) {
	if len(pairs) != len(scores) {
		return nil, fmt.Errorf("%w: %d scores for %d candidates", ErrLengthMismatch, len(scores), len(pairs))
	}
	for _, p := range pairs {
		if p.I < 0 || p.J >= seqlen || p.I >= p.J {
			return nil, fmt.Errorf("candidate (%d,%d) invalid for length %d", p.I, p.J, seqlen)
		}
	}
	m := NewMap(seqlen)
	thr := r.Thresholds
	if thr == nil {
		thr = Thresholds()
	}
	for _, t := range thr {
		r.step(m, pairs, scores, t)
	}
	if !r.NoSmooth {
		Smooth(m)
	}
	return m, nil
}

// step applies one threshold of the sweep.
func (r Resolver) step(m *Map, pairs []candidate.Pair, scores []float32, t float64) {
	for k, p := range pairs {
		if float64(scores[k]) <= t || m.assigned(p.I) {
			continue
		}
		prev, had := m.Partner(p.J)
		m.set(p.I, p.J)
		m.set(p.J, p.I)
		if r.Policy != PolicyShift || !had {
			continue
		}
		switch prev {
		case p.I + 1:
			m.shift(p.I, p.J+1)
		case p.I - 1:
			m.shift(p.I, p.J-1)
		}
	}
}

// shift repoints i to j and j back to i; targets outside the sequence or
// equal to i are left alone.
func (m *Map) shift(i, j int) {
	if j < 0 || j >= len(m.partner) || j == i {
		return
	}
	m.set(i, j)
	m.set(j, i)
}

// Smooth makes one ascending pass: where j-1, j and j+1 are all assigned,
// the outer partners are two apart and j's partner is not between them, j
// is repointed to the midpoint. The midpoint's own entry is not touched.
func Smooth(m *Map) {
	for j := 1; j+1 < len(m.partner); j++ {
		a, okA := m.Partner(j - 1)
		b, okB := m.Partner(j + 1)
		c, okC := m.Partner(j)
		if !okA || !okB || !okC {
			continue
		}
		d := a - b
		if d != 2 && d != -2 {
			continue
		}
		if mid := (a + b) / 2; c != mid {
			m.set(j, mid)
		}
	}
}
