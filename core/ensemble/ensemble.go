// core/ensemble/ensemble.go
package ensemble

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"deepfold-core/encode"
)

// PairedColumn is the output column holding the "paired" class probability.
const PairedColumn = 1

var (
	// ErrNoModels is returned when an ensemble has no members.
	ErrNoModels = errors.New("ensemble has no models")
	// ErrBadOutput is returned when a model's output shape does not match its batch.
	ErrBadOutput = errors.New("model output shape mismatch")
)

// Predictor is the only contract a classifier has to meet: one row of
// class probabilities per input tensor, column PairedColumn = paired.
type Predictor interface {
	Predict(ctx context.Context, batch []encode.Tensor) ([][]float32, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(ctx context.Context, batch []encode.Tensor) ([][]float32, error)

func (f PredictorFunc) Predict(ctx context.Context, batch []encode.Tensor) ([][]float32, error) {
	return f(ctx, batch)
}

// Paired runs p over batch and returns the paired-class column.
func Paired(ctx context.Context, p Predictor, batch []encode.Tensor) ([]float32, error) {
	if len(batch) == 0 {
		return []float32{}, nil
	}
	rows, err := p.Predict(ctx, batch)
	if err != nil {
		return nil, err
	}
	return pairedColumn(rows, len(batch))
}

// Average runs every member over the same batch concurrently and returns
// the arithmetic mean of their paired-class probabilities. Sums are taken
// in member order so the result does not depend on scheduling.
func Average(ctx context.Context, members []Predictor, batch []encode.Tensor) ([]float32, error) {
	if len(members) == 0 {
		return nil, ErrNoModels
	}
	if len(batch) == 0 {
		return []float32{}, nil
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cols := make([][]float32, len(members))
	var (
		mu       sync.Mutex
		firstErr error
		wg       sync.WaitGroup
	)
	wg.Add(len(members))
	for m, p := range members {
		go func(m int, p Predictor) {
			defer wg.Done()
			col, err := Paired(ctx, p, batch)
			if err == nil {
				cols[m] = col
				return
			}
			mu.Lock()
			// Members interrupted by a sibling's failure do not mask it.
			if firstErr == nil && (parent.Err() != nil || ctx.Err() == nil || !errors.Is(err, ctx.Err())) {
				firstErr = fmt.Errorf("model %d: %w", m, err)
			}
			mu.Unlock()
			cancel()
		}(m, p)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	out := make([]float32, len(batch))
	for _, col := range cols {
		for i, v := range col {
			out[i] += v
		}
	}
	n := float32(len(members))
	for i := range out {
		out[i] /= n
	}
	return out, nil
}

func pairedColumn(rows [][]float32, n int) ([]float32, error) {
	if len(rows) != n {
		return nil, fmt.Errorf("%w: %d rows for %d inputs", ErrBadOutput, len(rows), n)
	}
	out := make([]float32, n)
	for i, r := range rows {
		if len(r) <= PairedColumn {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrBadOutput, i, len(r))
		}
		out[i] = r[PairedColumn]
	}
	return out, nil
}
