// core/dataset/dataset.go
package dataset

import (
	"fmt"
	"math/rand"

	"deepfold-core/ct"
	"deepfold-core/encode"
	"deepfold-core/seq"
)

// Sample is one labelled 1D training example.
type Sample struct {
	Tensor encode.Tensor
	Label  int8   // 1 = paired
	File   string // source structure file
	Pos    int    // 1-based position in the sequence
	Base   byte
}

// Set is a balanced training set: all positives (shuffled) followed by
// all negatives (shuffled).
type Set struct {
	Samples   []Sample
	Positives int
	Negatives int
}

// Assemble encodes every position of every record with a window of the
// given size and splits the samples by label. Each class is shuffled
// independently with rng; a nil rng uses a fixed seed.
func Assemble(records []*ct.Record, size int, rng *rand.Rand) (*Set, error) {
	if err := seq.ValidateSize(size); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	var pos, neg []Sample
	buf := make([]byte, size)
	for _, rec := range records {
		if err := seq.Check(rec.Seq); err != nil {
			return nil, fmt.Errorf("%s: %w", rec.Source, err)
		}
		w, err := seq.NewWindower(rec.Seq, size)
		if err != nil {
			return nil, err
		}
		labels := rec.Labels()
		for j := range rec.Seq {
			if err := w.Fill(buf, j); err != nil {
				return nil, fmt.Errorf("%s: position %d: %w", rec.Source, j+1, err)
			}
			t, err := encode.Encode1D(buf)
			if err != nil {
				return nil, fmt.Errorf("%s: position %d: %w", rec.Source, j+1, err)
			}
			s := Sample{Tensor: t, Label: labels[j], File: rec.Source, Pos: j + 1, Base: rec.Seq[j]}
			if s.Label == 1 {
				pos = append(pos, s)
			} else {
				neg = append(neg, s)
			}
		}
	}
	rng.Shuffle(len(neg), func(a, b int) { neg[a], neg[b] = neg[b], neg[a] })
	rng.Shuffle(len(pos), func(a, b int) { pos[a], pos[b] = pos[b], pos[a] })

	out := &Set{
		Samples:   make([]Sample, 0, len(pos)+len(neg)),
		Positives: len(pos),
		Negatives: len(neg),
	}
	out.Samples = append(out.Samples, pos...)
	out.Samples = append(out.Samples, neg...)
	return out, nil
}

// Len is the number of samples.
func (s *Set) Len() int { return len(s.Samples) }

// Counts returns the number of positive and negative samples.
func (s *Set) Counts() (positives, negatives int) { return s.Positives, s.Negatives }

// Labels returns the labels in sample order.
func (s *Set) Labels() []int8 {
	out := make([]int8, len(s.Samples))
	for i, x := range s.Samples {
		out[i] = x.Label
	}
	return out
}

// Tensors returns the tensors in sample order.
func (s *Set) Tensors() []encode.Tensor {
	out := make([]encode.Tensor, len(s.Samples))
	for i, x := range s.Samples {
		out[i] = x.Tensor
	}
	return out
}
