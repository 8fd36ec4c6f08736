// internal/trainapp/app.go
package trainapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"

	"deepfold-core/ct"
	"deepfold-core/dataset"
	"deepfold-core/encode"

	"deepfold/internal/appcore"
	"deepfold/internal/clibase"
	"deepfold/internal/logging"
	"deepfold/internal/loommodel"
	"deepfold/internal/runutil"
	"deepfold/internal/scan"
	"deepfold/internal/traincli"
	"deepfold/internal/version"
	"deepfold/internal/writers"
)

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// RunContext assembles the balanced 1D dataset from a directory of .ct
// files, trains a native classifier and saves it.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := traincli.NewFlagSet("deepfold-train")
	fs.SetOutput(io.Discard)

	opts, err := traincli.ParseArgs(fs, argv)
	if err != nil {
		code := appcore.ExitUsage
		switch {
		case errors.Is(err, flag.ErrHelp):
			code = appcore.ExitOK
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			traincli.PrintExamples(outw)
			return flush(outw, stderr, appcore.ExitOK)
		default:
			_, _ = fmt.Fprintln(stderr, "error:", err)
		}
		fs.SetOutput(outw)
		fs.Usage()
		return flush(outw, stderr, code)
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "deepfold-train version %s\n", version.Version)
		return flush(outw, stderr, appcore.ExitOK)
	}

	cfg, err := opts.Config()
	logger := logging.New(stderr, logging.Options{Level: cfg.LogLevel, Verbose: opts.Verbose, Quiet: opts.Quiet})
	if err != nil {
		logger.Error("configuration", "err", err)
		return appcore.ExitInput
	}

	files, err := scan.Files(opts.InputDir, appcore.InputExt)
	if err != nil {
		logger.Error("scan input", "err", err)
		return appcore.ExitInput
	}
	if len(files) == 0 {
		logger.Error("no training structures", "dir", opts.InputDir)
		return appcore.ExitInput
	}
	records := make([]*ct.Record, 0, len(files))
	for _, f := range files {
		rec, err := ct.ReadFile(f)
		if err != nil {
			logger.Error("read structure", "err", err)
			return appcore.ExitInput
		}
		records = append(records, rec)
	}

	set, err := dataset.Assemble(records, cfg.Winsize, rand.New(rand.NewSource(cfg.Train.Seed)))
	if err != nil {
		logger.Error("assemble dataset", "err", err)
		return appcore.ExitInput
	}
	pos, neg := set.Counts()
	logger.Info("dataset", "files", len(records), "samples", set.Len(),
		"positives", pos, "negatives", neg, "winsize", cfg.Winsize)

	m, err := loommodel.New(opts.ID, loommodel.Options{Rows: encode.Rows1D, Cols: cfg.Winsize, Hidden: cfg.Train.Hidden})
	if err != nil {
		logger.Error("build model", "err", err)
		return appcore.ExitInput
	}
	err = m.Train(parent, set, loommodel.TrainOptions{
		Epochs:       cfg.Train.Epochs,
		LearningRate: cfg.Train.LearningRate,
		Progress: func(epoch int, loss float64) {
			logger.Info("epoch", "n", epoch, "of", cfg.Train.Epochs, "mse", fmt.Sprintf("%.5f", loss))
		},
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("cancelled")
			return appcore.ExitCanceled
		}
		logger.Error("train", "err", err)
		return appcore.ExitRuntime
	}
	if err := runutil.EnsureOutputDir(filepath.Dir(opts.Output)); err != nil {
		logger.Error("model directory", "err", err)
		return appcore.ExitInput
	}
	if err := m.Save(opts.Output); err != nil {
		logger.Error("save model", "err", err)
		return appcore.ExitRuntime
	}
	logger.Info("saved", "model", opts.Output, "id", opts.ID)
	return appcore.ExitOK
}

func flush(outw *bufio.Writer, stderr io.Writer, code int) int {
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return appcore.ExitOK
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return appcore.ExitRuntime
	}
	return code
}
