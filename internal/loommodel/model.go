// internal/loommodel/model.go
package loommodel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/openfluke/loom/nn"

	"deepfold-core/encode"

	"deepfold/internal/jsonutil"
)

// Classes is the width of the classifier output (unpaired, paired).
const Classes = 2

const dtype = "float32"

var ErrShape = errors.New("tensor shape does not match model")

// Options describe a dense classifier over flattened encoder tensors.
type Options struct {
	Rows, Cols int
	Hidden     int
}

// Model is an ensemble.Predictor over a loom dense network. The network is
// not safe for concurrent forward passes, so calls are serialised.
type Model struct {
	mu   sync.Mutex
	net  *nn.Network
	id   string
	rows int
	cols int
}

// New builds an untrained network: in → hidden → hidden/2 → 2.
func New(id string, o Options) (*Model, error) {
	if o.Rows <= 0 || o.Cols <= 0 {
		return nil, fmt.Errorf("%w: rows=%d cols=%d", ErrShape, o.Rows, o.Cols)
	}
	h := o.Hidden
	if h < 2 {
		h = 2
	}
	in := o.Rows * o.Cols
	net := nn.NewNetwork(in, 1, 1, 3)
	net.BatchSize = 1
	net.SetLayer(0, 0, 0, nn.InitDenseLayer(in, h, nn.ActivationLeakyReLU))
	net.SetLayer(0, 0, 1, nn.InitDenseLayer(h, h/2, nn.ActivationLeakyReLU))
	net.SetLayer(0, 0, 2, nn.InitDenseLayer(h/2, Classes, nn.ActivationSigmoid))
	return &Model{net: net, id: id, rows: o.Rows, cols: o.Cols}, nil
}

// ID returns the model identifier stored in saved files.
func (m *Model) ID() string { return m.id }

func (m *Model) check(i int, t encode.Tensor) error {
	if t.Rows != m.rows || t.Cols != m.cols {
		return fmt.Errorf("%w: item %d is %s, model wants [%d,%d]", ErrShape, i, t, m.rows, m.cols)
	}
	return nil
}

// Predict returns one normalised (unpaired, paired) row per tensor.
func (m *Model) Predict(ctx context.Context, batch []encode.Tensor) ([][]float32, error) {
	for i, t := range batch {
		if err := m.check(i, t); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]float32, len(batch))
	for i, t := range batch {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		raw, _ := m.net.ForwardCPU(t.Data)
		if len(raw) < Classes {
			return nil, fmt.Errorf("%w: network returned %d values", ErrShape, len(raw))
		}
		out[i] = normalise(raw[:Classes])
	}
	return out, nil
}

func normalise(raw []float32) []float32 {
	sum := raw[0] + raw[1]
	if sum <= 0 {
		return []float32{0.5, 0.5}
	}
	return []float32{raw[0] / sum, raw[1] / sum}
}

type envelope struct {
	ID      string `json:"id"`
	Rows    int    `json:"rows"`
	Cols    int    `json:"cols"`
	Network string `json:"network"`
}

// Save writes the network with its tensor geometry as JSON.
func (m *Model) Save(path string) error {
	m.mu.Lock()
	data, err := m.net.SaveModelWithDType(m.id, dtype)
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("serialise %s: %w", m.id, err)
	}
	b, err := json.Marshal(envelope{ID: m.id, Rows: m.rows, Cols: m.cols, Network: data})
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Load reads a model written by Save.
func Load(path string) (*Model, error) {
	var env envelope
	if err := jsonutil.ReadFile(path, &env); err != nil {
		return nil, err
	}
	if env.Rows <= 0 || env.Cols <= 0 || env.Network == "" {
		return nil, fmt.Errorf("%s: %w: missing geometry or network", path, ErrShape)
	}
	net, _, err := nn.LoadModelWithDType(env.Network, env.ID, dtype)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	net.BatchSize = 1
	return &Model{net: net, id: env.ID, rows: env.Rows, cols: env.Cols}, nil
}
