// internal/onnxmodel/model.go
package onnxmodel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"deepfold-core/encode"
)

// LibraryEnv names the environment variable consulted when no shared
// library path is configured.
const LibraryEnv = "ONNXRUNTIME_SHARED_LIBRARY_PATH"

// Classes is the width of the classifier output (unpaired, paired).
const Classes = 2

var (
	ErrNoLibrary = errors.New("onnxruntime shared library not found; set " + LibraryEnv + " or onnx_library")
	ErrShape     = errors.New("tensor shape does not match model")
)

var initMu sync.Mutex

// Init points onnxruntime at its shared library and initialises the
// environment once per process.
func Init(library string) error {
	initMu.Lock()
	defer initMu.Unlock()
	if ort.IsInitialized() {
		return nil
	}
	lib := strings.TrimSpace(library)
	if lib == "" {
		lib = strings.TrimSpace(os.Getenv(LibraryEnv))
	}
	if lib == "" {
		return ErrNoLibrary
	}
	ort.SetSharedLibraryPath(lib)
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize onnxruntime: %w", err)
	}
	return nil
}

// Options shape a Model. Rows and Cols are the encoder tensor dimensions;
// the session input is (Batch, Rows, Cols, 1).
type Options struct {
	Rows, Cols int
	Batch      int
	Sessions   int
	Threads    int
	InputName  string
	OutputName string
}

func (o Options) validate() error {
	if o.Rows <= 0 || o.Cols <= 0 {
		return fmt.Errorf("%w: rows=%d cols=%d", ErrShape, o.Rows, o.Cols)
	}
	if o.Batch <= 0 {
		return fmt.Errorf("%w: batch=%d", ErrShape, o.Batch)
	}
	return nil
}

type session struct {
	s   *ort.AdvancedSession
	in  *ort.Tensor[float32]
	out *ort.Tensor[float32]
}

func (ss *session) destroy() {
	if ss.s != nil {
		ss.s.Destroy()
	}
	if ss.in != nil {
		ss.in.Destroy()
	}
	if ss.out != nil {
		ss.out.Destroy()
	}
}

// Model is an ensemble.Predictor backed by one exported classifier.
// Sessions are pooled through a buffered channel.
type Model struct {
	path     string
	rows     int
	cols     int
	batch    int
	sessions chan *session
	n        int
}

// Open loads the .onnx file at path. Init must have succeeded first.
func Open(path string, o Options) (*Model, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	if !ort.IsInitialized() {
		return nil, errors.New("onnxruntime not initialized")
	}
	inName, outName, err := ioNames(path, o.InputName, o.OutputName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	n := o.Sessions
	if n <= 0 {
		n = 1
	}
	m := &Model{path: path, rows: o.Rows, cols: o.Cols, batch: o.Batch, sessions: make(chan *session, n), n: n}
	for i := 0; i < n; i++ {
		ss, err := newSession(path, inName, outName, o)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("%s: create onnx session %d/%d: %w", path, i+1, n, err)
		}
		m.sessions <- ss
	}
	return m, nil
}

func ioNames(path, in, out string) (string, string, error) {
	if in != "" && out != "" {
		return in, out, nil
	}
	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return "", "", err
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return "", "", errors.New("model has no inputs or outputs")
	}
	if in == "" {
		in = inputs[0].Name
	}
	if out == "" {
		out = outputs[0].Name
	}
	return in, out, nil
}

func newSession(path, inName, outName string, o Options) (*session, error) {
	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer opts.Destroy()
	if o.Threads > 0 {
		if err := opts.SetIntraOpNumThreads(o.Threads); err != nil {
			return nil, fmt.Errorf("set intra threads: %w", err)
		}
	}
	ss := &session{}
	ss.in, err = ort.NewEmptyTensor[float32](ort.NewShape(int64(o.Batch), int64(o.Rows), int64(o.Cols), 1))
	if err != nil {
		return nil, fmt.Errorf("allocate input tensor: %w", err)
	}
	ss.out, err = ort.NewEmptyTensor[float32](ort.NewShape(int64(o.Batch), Classes))
	if err != nil {
		ss.destroy()
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}
	ss.s, err = ort.NewAdvancedSession(path,
		[]string{inName}, []string{outName},
		[]ort.Value{ss.in}, []ort.Value{ss.out}, opts)
	if err != nil {
		ss.destroy()
		return nil, err
	}
	return ss, nil
}

// Path returns the model file the sessions were built from.
func (m *Model) Path() string { return m.path }

// Predict runs the batch in chunks of the fixed session batch size; the
// tail chunk is zero padded and its padding rows are discarded.
func (m *Model) Predict(ctx context.Context, batch []encode.Tensor) ([][]float32, error) {
	for i, t := range batch {
		if t.Rows != m.rows || t.Cols != m.cols {
			return nil, fmt.Errorf("%w: item %d is %s, model wants [%d,%d]", ErrShape, i, t, m.rows, m.cols)
		}
	}
	var ss *session
	select {
	case ss = <-m.sessions:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { m.sessions <- ss }()

	out := make([][]float32, 0, len(batch))
	for start := 0; start < len(batch); start += m.batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+m.batch, len(batch))
		pack(ss.in.GetData(), batch[start:end])
		if err := ss.s.Run(); err != nil {
			return nil, fmt.Errorf("%s: onnx run: %w", m.path, err)
		}
		out = append(out, unpack(ss.out.GetData(), end-start)...)
	}
	return out, nil
}

// Close destroys every pooled session. It must not race with Predict.
func (m *Model) Close() error {
	for {
		select {
		case ss := <-m.sessions:
			ss.destroy()
		default:
			return nil
		}
	}
}

// pack copies tensors into a flat (B, rows, cols, 1) buffer and zeroes
// the rest.
func pack(dst []float32, items []encode.Tensor) {
	off := 0
	for _, t := range items {
		off += copy(dst[off:], t.Data)
	}
	clear(dst[off:])
}

// unpack splits the first n rows of a flat (B, Classes) output.
func unpack(raw []float32, n int) [][]float32 {
	rows := make([][]float32, n)
	for i := range rows {
		r := make([]float32, Classes)
		copy(r, raw[i*Classes:(i+1)*Classes])
		rows[i] = r
	}
	return rows
}
