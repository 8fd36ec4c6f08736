package traincli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"deepfold/internal/clibase"
	"deepfold/internal/cliutil"
	"deepfold/internal/config"
)

type Options struct {
	clibase.Common

	InputDir string
	Output   string // model file

	ID           string
	Hidden       int
	Epochs       int
	LearningRate float64
	Seed         int64

	explicit map[string]bool
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {}
	return fs
}

// PrintExamples prints a tiny quickstart for deepfold-train.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "deepfold-train", "Train a native 1D classifier from labelled .ct files.", []clibase.Example{
		{Note: "20 epochs, 128 hidden units", Command: "deepfold-train --epochs 20 --hidden 128 ./train model/1D_S/deepfold_1d.json"},
	})
}

// Config loads the configuration file and lays explicit flags over it.
func (o Options) Config() (config.Config, error) {
	set := o.explicit
	return clibase.LoadConfig(&o.Common, set, func(c *config.Config) {
		c.Backend = config.BackendLoom
		if set["hidden"] {
			c.Train.Hidden = o.Hidden
		}
		if set["epochs"] {
			c.Train.Epochs = o.Epochs
		}
		if set["lr"] {
			c.Train.LearningRate = o.LearningRate
		}
		if set["seed"] {
			c.Train.Seed = o.Seed
		}
	})
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	d := config.Default()
	clibase.Register(fs, &o.Common)

	fs.StringVar(&o.ID, "id", "deepfold-1d", "model identifier stored in the file")
	fs.IntVar(&o.Hidden, "hidden", d.Train.Hidden, "hidden layer width")
	fs.IntVar(&o.Epochs, "epochs", d.Train.Epochs, "training epochs")
	fs.Float64Var(&o.LearningRate, "lr", d.Train.LearningRate, "learning rate")
	fs.Int64Var(&o.Seed, "seed", d.Train.Seed, "shuffle seed")

	clibase.UsageCommon(fs, fs.Name(), "[flags] <ct-dir> <model.json>", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "\nTraining:")
		_, _ = fmt.Fprintf(out, "      --id string             Model identifier [%s]\n", def("id"))
		_, _ = fmt.Fprintf(out, "      --hidden int            Hidden layer width [%s]\n", def("hidden"))
		_, _ = fmt.Fprintf(out, "      --epochs int            Training epochs [%s]\n", def("epochs"))
		_, _ = fmt.Fprintf(out, "      --lr float              Learning rate [%s]\n", def("lr"))
		_, _ = fmt.Fprintf(out, "      --seed int              Shuffle seed [%s]\n", def("seed"))
	})

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return o, err
		}
		return o, fmt.Errorf("%w: %v", clibase.ErrUsage, err)
	}
	if o.Version {
		return o, nil
	}
	if o.Examples {
		return o, clibase.ErrPrintedAndExitOK
	}
	o.explicit = cliutil.Explicit(fs)
	if len(posArgs) != 2 {
		return o, fmt.Errorf("%w: want <ct-dir> <model.json>, got %d argument(s)", clibase.ErrUsage, len(posArgs))
	}
	o.InputDir, o.Output = posArgs[0], posArgs[1]
	if err := clibase.Validate(&o.Common); err != nil {
		return o, fmt.Errorf("%w: %v", clibase.ErrUsage, err)
	}
	if o.Hidden < 2 || o.Epochs < 1 || o.LearningRate <= 0 {
		return o, fmt.Errorf("%w: --hidden ≥ 2, --epochs ≥ 1 and --lr > 0 are required", clibase.ErrUsage)
	}
	return o, nil
}
