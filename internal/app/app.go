// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"deepfold/internal/appcore"
	"deepfold/internal/cli"
	"deepfold/internal/clibase"
	"deepfold/internal/config"
	"deepfold/internal/logging"
	"deepfold/internal/models"
	"deepfold/internal/pipeline"
	"deepfold/internal/version"
	"deepfold/internal/writers"
)

// Loader opens the models of a reference set. Tests swap it for fakes.
type Loader func(cfg config.Config, set string, logger *log.Logger) (pipeline.Folder, func() error, error)

// RunContext is the deepfold entry point.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	return RunWithLoader(parent, argv, stdout, stderr, LoadCascade)
}

// RunWithLoader is RunContext with an injectable model loader.
func RunWithLoader(parent context.Context, argv []string, stdout, stderr io.Writer, load Loader) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("deepfold")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		code := appcore.ExitUsage
		switch {
		case errors.Is(err, flag.ErrHelp):
			code = appcore.ExitOK
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			cli.PrintExamples(outw)
			return flushed(outw, stderr, appcore.ExitOK)
		default:
			_, _ = fmt.Fprintln(stderr, "error:", err)
		}
		fs.SetOutput(outw)
		fs.Usage()
		return flushed(outw, stderr, code)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "deepfold version %s\n", version.Version)
		return flushed(outw, stderr, appcore.ExitOK)
	}

	cfg, err := opts.Config()
	logger := logging.New(stderr, logging.Options{Level: cfg.LogLevel, Verbose: opts.Verbose, Quiet: opts.Quiet})
	if err != nil {
		logger.Error("configuration", "err", err)
		return appcore.ExitInput
	}
	runID := uuid.NewString()
	logger = logger.With("run", runID)
	logger.Debug("configuration", "set", opts.Set(), "backend", cfg.Backend, "winsize", cfg.Winsize,
		"thr1", cfg.Thr1, "rule", cfg.CandidateRule, "policy", cfg.ConflictPolicy)

	folder, closeModels, err := load(cfg, opts.Set(), logger)
	if err != nil {
		logger.Error("load models", "err", err)
		return appcore.ExitInput
	}
	defer func() {
		if err := closeModels(); err != nil {
			logger.Warn("release models", "err", err)
		}
	}()

	return appcore.Run(parent, outw, logger,
		appcore.Options{
			RunID:     runID,
			InputDir:  opts.InputDir,
			OutputDir: opts.OutputDir,
			Format:    cfg.OutputFormat,
			Threads:   cfg.Threads,
		},
		folder,
		appcore.NewSummaryWriterFactory(opts.Summary, opts.Header),
	)
}

// LoadCascade opens the configured backend's models for the reference set.
func LoadCascade(cfg config.Config, set string, logger *log.Logger) (pipeline.Folder, func() error, error) {
	rs, err := cfg.Models(set)
	if err != nil {
		return nil, nil, err
	}
	ms, err := models.Load(rs.Model1D, rs.Model2D, models.Options{
		Backend: cfg.Backend,
		Library: cfg.ONNXLibrary,
		Winsize: cfg.Winsize,
		Batch:   cfg.BatchSize,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return &pipeline.Cascade{
		OneD: ms.OneD,
		TwoD: ms.TwoD,
		Params: pipeline.Params{
			Winsize:   cfg.Winsize,
			Thr1:      float32(cfg.Thr1),
			BatchSize: cfg.BatchSize,
			Rule:      cfg.Rule(),
			Resolver:  cfg.Resolver(),
		},
	}, ms.Close, nil
}

func flushed(outw *bufio.Writer, stderr io.Writer, code int) int {
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return appcore.ExitOK
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return appcore.ExitRuntime
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
