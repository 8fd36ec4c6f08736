package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"deepfold-core/candidate"
	"deepfold-core/encode"
	"deepfold-core/ensemble"
	"deepfold-core/seq"
)

// centreGC flags a position as paired when the window centre is G or C.
type centreGC struct{ maxBatch int }

func (f *centreGC) Predict(_ context.Context, batch []encode.Tensor) ([][]float32, error) {
	if len(batch) > f.maxBatch {
		f.maxBatch = len(batch)
	}
	out := make([][]float32, len(batch))
	for i, t := range batch {
		mid := (t.Cols - 1) / 2
		if t.At(1, mid) == 1 || t.At(2, mid) == 1 {
			out[i] = []float32{0.1, 0.9}
		} else {
			out[i] = []float32{0.9, 0.1}
		}
	}
	return out, nil
}

func constant(p float32) ensemble.Predictor {
	return ensemble.PredictorFunc(func(_ context.Context, batch []encode.Tensor) ([][]float32, error) {
		out := make([][]float32, len(batch))
		for i := range out {
			out[i] = []float32{1 - p, p}
		}
		return out, nil
	})
}

func testParams() Params {
	p := DefaultParams()
	p.Winsize = 5
	p.BatchSize = 2
	return p
}

func TestCascadeFold(t *testing.T) {
	one := &centreGC{}
	c := &Cascade{OneD: one, TwoD: []ensemble.Predictor{constant(0.9), constant(1.0)}, Params: testParams()}
	res, err := c.Fold(context.Background(), []byte("GAAAAC"))
	if err != nil {
		t.Fatal(err)
	}
	if one.maxBatch != 2 {
		t.Fatalf("1D batches not bounded: max=%d", one.maxBatch)
	}
	if !reflect.DeepEqual(res.Positions, []int{0, 5}) {
		t.Fatalf("positions %v", res.Positions)
	}
	if !reflect.DeepEqual(res.Pairs, []candidate.Pair{{I: 0, J: 5}}) {
		t.Fatalf("pairs %v", res.Pairs)
	}
	if len(res.Scores) != 1 || res.Scores[0] < 0.949 || res.Scores[0] > 0.951 {
		t.Fatalf("scores %v", res.Scores)
	}
	want := []int{5, -1, -1, -1, -1, 0}
	if got := res.Map.Partners(); !reflect.DeepEqual(got, want) {
		t.Fatalf("partners %v want %v", got, want)
	}
}

func TestCascadeNoCandidates(t *testing.T) {
	c := &Cascade{OneD: constant(0.1), TwoD: []ensemble.Predictor{constant(1)}, Params: testParams()}
	res, err := c.Fold(context.Background(), []byte("GGGAAACCC"))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Pairs) != 0 || res.Map.Assigned() != 0 {
		t.Fatalf("expected empty structure, got %v", res.Map.Partners())
	}
}

func TestCascadeErrors(t *testing.T) {
	ctx := context.Background()
	c := &Cascade{OneD: constant(0.9), Params: testParams()}
	if _, err := c.Fold(ctx, []byte("GAC")); !errors.Is(err, ensemble.ErrNoModels) {
		t.Fatalf("want ErrNoModels, got %v", err)
	}
	c.TwoD = []ensemble.Predictor{constant(1)}
	if _, err := c.Fold(ctx, []byte("GAXC")); !errors.Is(err, seq.ErrUnknownSymbol) {
		t.Fatalf("want ErrUnknownSymbol, got %v", err)
	}
	c.Params.Winsize = 6
	if _, err := c.Fold(ctx, []byte("GAC")); !errors.Is(err, seq.ErrInvalidWindow) {
		t.Fatalf("want ErrInvalidWindow, got %v", err)
	}
	boom := errors.New("boom")
	c.Params.Winsize = 5
	c.TwoD = []ensemble.Predictor{ensemble.PredictorFunc(func(context.Context, []encode.Tensor) ([][]float32, error) {
		return nil, boom
	})}
	if _, err := c.Fold(ctx, []byte("GAAAAC")); !errors.Is(err, boom) {
		t.Fatalf("want model error, got %v", err)
	}
}
