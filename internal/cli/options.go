// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"deepfold/internal/clibase"
	"deepfold/internal/cliutil"
	"deepfold/internal/config"
)

// Summary formats on stdout.
const (
	SummaryText  = "text"
	SummaryJSONL = "jsonl"
	SummaryNone  = "none"
)

// Options holds all deepfold flags and arguments.
type Options struct {
	clibase.Common

	// Reference set
	Subset  bool
	Fullset bool

	// Positionals
	InputDir  string
	OutputDir string

	// Models
	Backend     string
	ONNXLibrary string
	ModelRoot   string

	// Prediction
	Thr1      float64
	BatchSize int
	Rule      string
	Policy    string
	NoSmooth  bool

	// Output
	Format  string
	Summary string
	Header  bool // true unless --no-header

	explicit map[string]bool
}

// Set returns the selected reference set name.
func (o Options) Set() string {
	if o.Fullset {
		return config.SetFullset
	}
	return config.SetSubset
}

// Config loads the configuration file and lays explicit flags over it.
func (o Options) Config() (config.Config, error) {
	set := o.explicit
	return clibase.LoadConfig(&o.Common, set, func(c *config.Config) {
		if set["backend"] {
			c.Backend = o.Backend
		}
		if set["onnx-lib"] {
			c.ONNXLibrary = o.ONNXLibrary
		}
		if set["model-root"] {
			c.ModelRoot = o.ModelRoot
		}
		if set["thr1"] {
			c.Thr1 = o.Thr1
		}
		if set["batch-size"] {
			c.BatchSize = o.BatchSize
		}
		if set["rule"] {
			c.CandidateRule = o.Rule
		}
		if set["policy"] {
			c.ConflictPolicy = o.Policy
		}
		if set["no-smooth"] {
			c.NoSmooth = o.NoSmooth
		}
		if cliutil.Any(set, "format", "o") {
			c.OutputFormat = o.Format
		}
	})
}

// NewFlagSet returns a clean FlagSet with ContinueOnError.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
// Argument errors wrap clibase.ErrUsage.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	d := config.Default()
	clibase.Register(fs, &opt.Common)

	fs.BoolVar(&opt.Subset, "subset", false, "use the reference set with < 60% sequence similarity")
	fs.BoolVar(&opt.Subset, "S", false, "alias of --subset")
	fs.BoolVar(&opt.Fullset, "fullset", false, "use the full reference set")
	fs.BoolVar(&opt.Fullset, "F", false, "alias of --fullset")

	fs.StringVar(&opt.Backend, "backend", d.Backend, "model backend: onnx | loom")
	fs.StringVar(&opt.ONNXLibrary, "onnx-lib", d.ONNXLibrary, "onnxruntime shared library")
	fs.StringVar(&opt.ModelRoot, "model-root", d.ModelRoot, "directory holding the reference sets")

	fs.Float64Var(&opt.Thr1, "thr1", d.Thr1, "1D probability threshold for candidates")
	fs.IntVar(&opt.BatchSize, "batch-size", d.BatchSize, "tensors per model call")
	fs.StringVar(&opt.Rule, "rule", d.CandidateRule, "candidate rule: legacy | symmetric")
	fs.StringVar(&opt.Policy, "policy", d.ConflictPolicy, "conflict policy: shift | overwrite")
	fs.BoolVar(&opt.NoSmooth, "no-smooth", false, "skip the smoothing pass")

	fs.StringVar(&opt.Format, "format", d.OutputFormat, "structure format: ct | json")
	fs.StringVar(&opt.Format, "o", d.OutputFormat, "alias of --format")
	fs.StringVar(&opt.Summary, "summary", SummaryText, "stdout summary: text | jsonl | none")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress the summary header line")

	clibase.UsageCommon(fs, fs.Name(), "(-S | -F) [flags] <input-dir> <output-dir>", usageExtra)

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opt, err
		}
		return opt, fmt.Errorf("%w: %v", clibase.ErrUsage, err)
	}
	if opt.Version {
		return opt, nil
	}
	if opt.Examples {
		return opt, clibase.ErrPrintedAndExitOK
	}
	opt.Header = !noHeader
	opt.explicit = cliutil.Explicit(fs)

	switch {
	case opt.Subset && opt.Fullset:
		return opt, fmt.Errorf("%w: -S/--subset conflicts with -F/--fullset", clibase.ErrUsage)
	case !opt.Subset && !opt.Fullset:
		return opt, fmt.Errorf("%w: choose a reference set with -S/--subset or -F/--fullset", clibase.ErrUsage)
	}
	if len(posArgs) != 2 {
		return opt, fmt.Errorf("%w: want <input-dir> <output-dir>, got %d argument(s)", clibase.ErrUsage, len(posArgs))
	}
	opt.InputDir, opt.OutputDir = posArgs[0], posArgs[1]

	if err := clibase.Validate(&opt.Common); err != nil {
		return opt, fmt.Errorf("%w: %v", clibase.ErrUsage, err)
	}
	switch opt.Summary {
	case SummaryText, SummaryJSONL, SummaryNone:
	default:
		return opt, fmt.Errorf("%w: invalid --summary %q", clibase.ErrUsage, opt.Summary)
	}
	return opt, nil
}

func usageExtra(out io.Writer, def func(string) string) {
	fmt.Fprintln(out, "\nReference set (one required):")
	fmt.Fprintln(out, "  -S, --subset                Models trained on the < 60% similarity subset")
	fmt.Fprintln(out, "  -F, --fullset               Models trained on the full reference set")

	fmt.Fprintln(out, "\nModels:")
	fmt.Fprintf(out, "      --backend string        onnx | loom [%s]\n", def("backend"))
	fmt.Fprintln(out, "      --onnx-lib file         onnxruntime shared library ($ONNXRUNTIME_SHARED_LIBRARY_PATH)")
	fmt.Fprintf(out, "      --model-root dir        Directory holding 1D_S, 2D_S, 1D_F, 2D_F [%s]\n", def("model-root"))

	fmt.Fprintln(out, "\nPrediction:")
	fmt.Fprintf(out, "      --thr1 float            1D candidate threshold [%s]\n", def("thr1"))
	fmt.Fprintf(out, "      --batch-size int        Tensors per model call [%s]\n", def("batch-size"))
	fmt.Fprintf(out, "      --rule string           Candidate rule: legacy | symmetric [%s]\n", def("rule"))
	fmt.Fprintf(out, "      --policy string         Conflict policy: shift | overwrite [%s]\n", def("policy"))
	fmt.Fprintln(out, "      --no-smooth             Skip the smoothing pass")

	fmt.Fprintln(out, "\nOutput:")
	fmt.Fprintf(out, "  -o, --format string         Structure files: ct | json [%s]\n", def("format"))
	fmt.Fprintf(out, "      --summary string        Summary on stdout: text | jsonl | none [%s]\n", def("summary"))
	fmt.Fprintln(out, "      --no-header             Suppress the summary header line")
}

// PrintExamples writes the quickstart.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "deepfold", "", []clibase.Example{
		{Note: "predict every .ct in ./test with the subset models", Command: "deepfold -S ./test ./result"},
		{Note: "full reference set, native models, JSON structures", Command: "deepfold -F --backend loom -o json ./test ./result"},
		{Note: "settings from a file, summary as JSONL", Command: "deepfold -S --config deepfold.yaml --summary jsonl ./test ./result"},
	})
}
