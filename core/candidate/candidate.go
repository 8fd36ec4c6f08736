// core/candidate/candidate.go
package candidate

import (
	"fmt"

	"deepfold-core/encode"
	"deepfold-core/seq"
)

// DefaultThreshold is the 1D probability a position must exceed to be
// considered for pairing.
const DefaultThreshold = 0.25

// Pair is a candidate base pair, I < J.
type Pair struct {
	I, J int
}

// Candidate is a pair together with its 2D feature tensor.
type Candidate struct {
	Pair
	Tensor encode.Tensor
}

// Select returns, in ascending order, the positions whose paired
// probability exceeds thr.
func Select(probs []float32, thr float32) []int {
	var out []int
	for i, p := range probs {
		if p > thr {
			out = append(out, i)
		}
	}
	return out
}

// Enumerate lists every (positions[a], positions[b]), a < b, whose bases
// pass rule. Order is by first index, then second; positions must be
// ascending. Downstream resolution depends on this order.
func Enumerate(s []byte, positions []int, rule Rule) []Pair {
	var out []Pair
	for a := 0; a < len(positions)-1; a++ {
		i := positions[a]
		for b := a + 1; b < len(positions); b++ {
			j := positions[b]
			if rule.Allows(s[i], s[j]) {
				out = append(out, Pair{I: i, J: j})
			}
		}
	}
	return out
}

// EncodeRange fills dst[k] with the 2D tensor of pairs[k]. dst must be at
// least as long as pairs; tensors of the right shape are reused.
func EncodeRange(w *seq.Windower, pairs []Pair, dst []encode.Tensor) error {
	if len(dst) < len(pairs) {
		return fmt.Errorf("encode range: %d slots for %d pairs", len(dst), len(pairs))
	}
	w1 := make([]byte, w.Size())
	w2 := make([]byte, w.Size())
	for k, p := range pairs {
		if err := w.Fill(w1, p.I); err != nil {
			return err
		}
		if err := w.Fill(w2, p.J); err != nil {
			return err
		}
		t := dst[k]
		if t.Rows != encode.Rows2D || t.Cols != w.Size() {
			t = encode.NewTensor(encode.Rows2D, w.Size())
			dst[k] = t
		}
		if err := encode.Encode2DInto(t, w1, w2); err != nil {
			return fmt.Errorf("pair (%d,%d): %w", p.I, p.J, err)
		}
	}
	return nil
}

// Build runs the whole candidate step for one sequence: select positions
// above thr, enumerate rule-compatible pairs, and encode each pair.
func Build(s []byte, probs []float32, thr float32, rule Rule, size int) ([]Candidate, error) {
	if len(probs) != len(s) {
		return nil, fmt.Errorf("%d probabilities for %d positions", len(probs), len(s))
	}
	w, err := seq.NewWindower(s, size)
	if err != nil {
		return nil, err
	}
	pairs := Enumerate(s, Select(probs, thr), rule)
	tensors := make([]encode.Tensor, len(pairs))
	if err := EncodeRange(w, pairs, tensors); err != nil {
		return nil, err
	}
	out := make([]Candidate, len(pairs))
	for k, p := range pairs {
		out[k] = Candidate{Pair: p, Tensor: tensors[k]}
	}
	return out, nil
}

// Pairs strips the tensors from cs.
func Pairs(cs []Candidate) []Pair {
	out := make([]Pair, len(cs))
	for k, c := range cs {
		out[k] = c.Pair
	}
	return out
}
