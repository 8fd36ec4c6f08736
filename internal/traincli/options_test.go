package traincli

import (
	"errors"
	"testing"

	"deepfold/internal/clibase"
	"deepfold/internal/config"
)

func TestParseOK(t *testing.T) {
	o, err := ParseArgs(NewFlagSet("t"), []string{"--epochs", "3", "ct", "m.json", "--seed", "7"})
	if err != nil {
		t.Fatal(err)
	}
	if o.InputDir != "ct" || o.Output != "m.json" || o.Epochs != 3 || o.Seed != 7 {
		t.Fatalf("%+v", o)
	}
	cfg, err := o.Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Train.Epochs != 3 || cfg.Train.Seed != 7 || cfg.Train.Hidden != config.Default().Train.Hidden {
		t.Fatalf("train cfg %+v", cfg.Train)
	}
	if cfg.Backend != config.BackendLoom {
		t.Fatalf("training always uses loom, got %s", cfg.Backend)
	}
}

func TestParseUsage(t *testing.T) {
	for _, args := range [][]string{{}, {"ct"}, {"--epochs", "0", "ct", "m.json"}} {
		if _, err := ParseArgs(NewFlagSet("t"), args); !errors.Is(err, clibase.ErrUsage) {
			t.Errorf("%v: want ErrUsage, got %v", args, err)
		}
	}
}
