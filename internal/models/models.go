// internal/models/models.go
package models

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"deepfold-core/encode"
	"deepfold-core/ensemble"

	"deepfold/internal/config"
	"deepfold/internal/logging"
	"deepfold/internal/loommodel"
	"deepfold/internal/onnxmodel"
	"deepfold/internal/scan"
)

// Options select the backend and the tensor geometry models are opened with.
type Options struct {
	Backend  string
	Library  string
	Winsize  int
	Batch    int
	Sessions int
	Threads  int
	Logger   *log.Logger
}

// Set is a loaded reference set: one 1D classifier and the 2D ensemble in
// lexicographic file order.
type Set struct {
	OneD    ensemble.Predictor
	TwoD    []ensemble.Predictor
	closers []io.Closer
}

// Close releases runtime resources held by the models.
func (s *Set) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Ext is the model file extension of a backend.
func Ext(backend string) string {
	if backend == config.BackendLoom {
		return "json"
	}
	return "onnx"
}

// Load opens the 1D model at model1D (a file, or a directory holding
// exactly one model file) and every model file inside model2D.
func Load(model1D, model2D string, o Options) (*Set, error) {
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	logger := o.Logger
	if o.Backend == config.BackendONNX || o.Backend == "" {
		if err := onnxmodel.Init(o.Library); err != nil {
			return nil, err
		}
	}
	ext := Ext(o.Backend)

	one, err := single(model1D, ext)
	if err != nil {
		return nil, fmt.Errorf("1D model: %w", err)
	}
	two, err := scan.Files(model2D, ext)
	if err != nil {
		return nil, fmt.Errorf("2D models: %w", err)
	}
	if len(two) == 0 {
		return nil, fmt.Errorf("2D models in %s: %w", model2D, ensemble.ErrNoModels)
	}

	s := &Set{}
	p, err := s.open(one, encode.Rows1D, o)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.OneD = p
	logger.Debug("loaded 1D model", "path", one, "backend", o.Backend)
	for _, path := range two {
		p, err := s.open(path, encode.Rows2D, o)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.TwoD = append(s.TwoD, p)
		logger.Debug("loaded 2D model", "path", path, "backend", o.Backend)
	}
	logger.Info("models ready", "backend", o.Backend, "ensemble", len(s.TwoD))
	return s, nil
}

func (s *Set) open(path string, rows int, o Options) (ensemble.Predictor, error) {
	switch o.Backend {
	case config.BackendLoom:
		m, err := loommodel.Load(path)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		m, err := onnxmodel.Open(path, onnxmodel.Options{
			Rows:     rows,
			Cols:     o.Winsize,
			Batch:    o.Batch,
			Sessions: o.Sessions,
			Threads:  o.Threads,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, m)
		o.Logger.Debug("onnx session pool", "model", m.Path(), "sessions", o.Sessions, "batch", o.Batch)
		return m, nil
	}
}

func single(path, ext string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return path, nil
	}
	files, err := scan.Files(path, ext)
	if err != nil {
		return "", err
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("no .%s model in %s", ext, path)
	case 1:
		return files[0], nil
	default:
		return "", fmt.Errorf("%d .%s models in %s, want one", len(files), ext, path)
	}
}
