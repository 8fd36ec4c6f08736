// internal/pipeline/fold.go
package pipeline

import (
	"context"
	"fmt"

	"deepfold-core/candidate"
	"deepfold-core/encode"
	"deepfold-core/ensemble"
	"deepfold-core/resolve"
	"deepfold-core/seq"
)

// DefaultBatchSize bounds how many tensors are alive per model call.
const DefaultBatchSize = 256

// Params are the per-sequence knobs.
type Params struct {
	Winsize   int
	Thr1      float32
	BatchSize int
	Rule      candidate.Rule
	Resolver  resolve.Resolver
}

// DefaultParams mirror the reference tool.
func DefaultParams() Params {
	return Params{
		Winsize:   seq.DefaultWinsize,
		Thr1:      candidate.DefaultThreshold,
		BatchSize: DefaultBatchSize,
		Rule:      candidate.RuleLegacy,
		Resolver:  resolve.New(),
	}
}

// Result is the outcome of folding one sequence.
type Result struct {
	Seq       []byte
	Probs     []float32 // 1D paired probability per position
	Positions []int     // positions above Thr1
	Pairs     []candidate.Pair
	Scores    []float32 // ensemble score per pair
	Map       *resolve.Map
}

// Cascade runs the two classifier stages and the resolver.
type Cascade struct {
	OneD   ensemble.Predictor
	TwoD   []ensemble.Predictor
	Params Params
}

var _ Folder = (*Cascade)(nil)

// Fold predicts the pairing of s. Work is sequential and chunked by
// BatchSize; the ensemble members of each chunk run concurrently.
func (c *Cascade) Fold(ctx context.Context, s []byte) (*Result, error) {
	p := c.Params
	if p.BatchSize <= 0 {
		p.BatchSize = DefaultBatchSize
	}
	if c.OneD == nil {
		return nil, fmt.Errorf("1D model: %w", ensemble.ErrNoModels)
	}
	if len(c.TwoD) == 0 {
		return nil, fmt.Errorf("2D ensemble: %w", ensemble.ErrNoModels)
	}
	if err := seq.Check(s); err != nil {
		return nil, err
	}
	w, err := seq.NewWindower(s, p.Winsize)
	if err != nil {
		return nil, err
	}

	probs, err := c.predict1D(ctx, w, p.BatchSize)
	if err != nil {
		return nil, err
	}
	positions := candidate.Select(probs, p.Thr1)
	pairs := candidate.Enumerate(s, positions, p.Rule)

	scores, err := c.predict2D(ctx, w, pairs, p.BatchSize)
	if err != nil {
		return nil, err
	}
	m, err := p.Resolver.Resolve(pairs, scores, len(s))
	if err != nil {
		return nil, err
	}
	return &Result{Seq: s, Probs: probs, Positions: positions, Pairs: pairs, Scores: scores, Map: m}, nil
}

func (c *Cascade) predict1D(ctx context.Context, w *seq.Windower, batch int) ([]float32, error) {
	n := w.Len()
	probs := make([]float32, 0, n)
	buf := make([]encode.Tensor, min(batch, n))
	for i := range buf {
		buf[i] = encode.NewTensor(encode.Rows1D, w.Size())
	}
	win := make([]byte, w.Size())
	for start := 0; start < n; start += batch {
		end := min(start+batch, n)
		chunk := buf[:end-start]
		for k := range chunk {
			if err := w.Fill(win, start+k); err != nil {
				return nil, err
			}
			if err := encode.Encode1DInto(chunk[k], win); err != nil {
				return nil, fmt.Errorf("position %d: %w", start+k+1, err)
			}
		}
		out, err := ensemble.Paired(ctx, c.OneD, chunk)
		if err != nil {
			return nil, fmt.Errorf("1D model: %w", err)
		}
		probs = append(probs, out...)
	}
	return probs, nil
}

func (c *Cascade) predict2D(ctx context.Context, w *seq.Windower, pairs []candidate.Pair, batch int) ([]float32, error) {
	scores := make([]float32, 0, len(pairs))
	buf := make([]encode.Tensor, min(batch, len(pairs)))
	for start := 0; start < len(pairs); start += batch {
		end := min(start+batch, len(pairs))
		chunk := buf[:end-start]
		if err := candidate.EncodeRange(w, pairs[start:end], chunk); err != nil {
			return nil, err
		}
		out, err := ensemble.Average(ctx, c.TwoD, chunk)
		if err != nil {
			return nil, fmt.Errorf("2D ensemble: %w", err)
		}
		scores = append(scores, out...)
	}
	return scores, nil
}
