// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"deepfold-core/ct"
	"deepfold-core/seq"

	"deepfold/internal/cmdutil"
	"deepfold/internal/pipeline"
	"deepfold/internal/runutil"
	"deepfold/internal/scan"
	"deepfold/internal/writers"
	"deepfold/pkg/api"
)

// Exit codes shared by the commands.
const (
	ExitOK       = 0
	ExitUsage    = 1
	ExitInput    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

// InputExt is the extension of input structure files.
const InputExt = "ct"

type Options struct {
	RunID     string
	InputDir  string
	OutputDir string
	Format    string // structure file format
	Threads   int
}

// Run folds every .ct file of o.InputDir, writes one structure file per
// input into o.OutputDir, and streams a summary row per file through wf.
func Run(
	parent context.Context,
	stdout io.Writer,
	logger *log.Logger,
	o Options,
	f pipeline.Folder,
	wf WriterFactory[api.SummaryV1],
) int {
	if _, ok := writers.StructureWriters[o.Format]; !ok {
		logger.Error("unknown output format", "format", o.Format, "known", writers.Formats())
		return ExitInput
	}
	files, err := scan.Files(o.InputDir, InputExt)
	if err != nil {
		logger.Error("scan input", "err", err)
		return ExitInput
	}
	if err := runutil.EnsureOutputDir(o.OutputDir); err != nil {
		logger.Error("output directory", "err", err)
		return ExitInput
	}
	if len(files) == 0 {
		logger.Warn("no input structure files", "dir", o.InputDir, "ext", InputExt)
		return ExitOK
	}

	thr := runutil.EffectiveThreads(o.Threads)
	logger.Info("folding", "files", len(files), "threads", thr, "format", o.Format)

	outw := bufio.NewWriter(stdout)
	inCh, writeErr := wf.Start(outw, thr*4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	total, perr := cmdutil.RunStream[api.SummaryV1](
		ctx,
		pipeline.Config{Threads: thr},
		files,
		f,
		func(oc pipeline.Outcome) (api.SummaryV1, error) {
			s := writers.FromOutcome(oc)
			path, err := writers.WriteFileAtomic(o.OutputDir, writers.OutputName(o.Format, s),
				func(w io.Writer) error { return writers.WriteStructure(o.Format, w, s) })
			if err != nil {
				return api.SummaryV1{}, err
			}
			sum := writers.Summarize(o.RunID, oc, path)
			logger.Debug("predicted", "file", oc.Path, "length", sum.Length,
				"candidates_1d", sum.Candidates1D, "candidates_2d", sum.Candidates2D, "pairs", sum.Pairs)
			if sum.Asymmetric > 0 {
				logger.Debug("one-sided partner entries", "file", oc.Path, "count", sum.Asymmetric)
			}
			return sum, nil
		},
		func(x api.SummaryV1) error {
			select {
			case inCh <- x:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)

	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return ExitOK
	} else if werr != nil {
		logger.Error("write summary", "err", werr)
		return ExitRuntime
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return ExitOK
	} else if e != nil {
		logger.Error("flush", "err", e)
		return ExitRuntime
	}

	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			logger.Warn("cancelled", "done", total, "files", len(files))
			return ExitCanceled
		}
		if errors.Is(perr, ct.ErrMalformedRecord) || errors.Is(perr, seq.ErrUnknownSymbol) {
			logger.Error("bad input", "err", perr)
			return ExitInput
		}
		logger.Error("prediction failed", "err", perr)
		return ExitRuntime
	}
	logger.Info("done", "files", total, "output", o.OutputDir)
	return ExitOK
}
