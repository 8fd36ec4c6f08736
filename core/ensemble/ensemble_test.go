package ensemble

import (
	"context"
	"errors"
	"testing"

	"deepfold-core/encode"
)

// constant returns p as the paired probability for every input.
func constant(p float32) Predictor {
	return PredictorFunc(func(_ context.Context, batch []encode.Tensor) ([][]float32, error) {
		out := make([][]float32, len(batch))
		for i := range out {
			out[i] = []float32{1 - p, p}
		}
		return out, nil
	})
}

// firstScalar reports Data[0] of each tensor as the paired probability.
var firstScalar = PredictorFunc(func(_ context.Context, batch []encode.Tensor) ([][]float32, error) {
	out := make([][]float32, len(batch))
	for i, t := range batch {
		out[i] = []float32{0, t.Data[0]}
	}
	return out, nil
})

func batchOf(vals ...float32) []encode.Tensor {
	out := make([]encode.Tensor, len(vals))
	for i, v := range vals {
		t := encode.NewTensor(1, 1)
		t.Data[0] = v
		out[i] = t
	}
	return out
}

func TestAverage(t *testing.T) {
	got, err := Average(context.Background(), []Predictor{constant(0.2), constant(0.6), firstScalar}, batchOf(0.1, 0.7))
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{(0.2 + 0.6 + 0.1) / 3, (0.2 + 0.6 + 0.7) / 3}
	for i := range want {
		if d := got[i] - want[i]; d > 1e-6 || d < -1e-6 {
			t.Errorf("avg[%d]=%v want %v", i, got[i], want[i])
		}
	}
}

func TestAverageNoModels(t *testing.T) {
	if _, err := Average(context.Background(), nil, batchOf(0.5)); !errors.Is(err, ErrNoModels) {
		t.Fatalf("want ErrNoModels, got %v", err)
	}
}

func TestAverageEmptyBatchSkipsModels(t *testing.T) {
	called := false
	p := PredictorFunc(func(context.Context, []encode.Tensor) ([][]float32, error) {
		called = true
		return nil, nil
	})
	got, err := Average(context.Background(), []Predictor{p}, nil)
	if err != nil || len(got) != 0 || called {
		t.Fatalf("got %v err %v called %v", got, err, called)
	}
}

func TestAveragePropagatesError(t *testing.T) {
	boom := errors.New("boom")
	bad := PredictorFunc(func(context.Context, []encode.Tensor) ([][]float32, error) { return nil, boom })
	if _, err := Average(context.Background(), []Predictor{constant(0.5), bad}, batchOf(1)); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestAverageReportsFailureNotSiblingCancel(t *testing.T) {
	boom := errors.New("boom")
	waiting := PredictorFunc(func(ctx context.Context, _ []encode.Tensor) ([][]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	bad := PredictorFunc(func(context.Context, []encode.Tensor) ([][]float32, error) { return nil, boom })
	_, err := Average(context.Background(), []Predictor{waiting, bad}, batchOf(1))
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if errors.Is(err, context.Canceled) {
		t.Fatalf("failure reported as cancellation: %v", err)
	}
}

func TestAverageParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	waiting := PredictorFunc(func(ctx context.Context, _ []encode.Tensor) ([][]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	if _, err := Average(ctx, []Predictor{waiting, waiting}, batchOf(1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestPairedRejectsBadShape(t *testing.T) {
	short := PredictorFunc(func(_ context.Context, batch []encode.Tensor) ([][]float32, error) {
		return [][]float32{{1}}, nil
	})
	if _, err := Paired(context.Background(), short, batchOf(1)); !errors.Is(err, ErrBadOutput) {
		t.Fatalf("one column: want ErrBadOutput, got %v", err)
	}
	if _, err := Paired(context.Background(), short, batchOf(1, 2)); !errors.Is(err, ErrBadOutput) {
		t.Fatalf("row count: want ErrBadOutput, got %v", err)
	}
}
