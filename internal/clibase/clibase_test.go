package clibase

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	"deepfold/internal/cliutil"
	"deepfold/internal/config"
)

func parse(t *testing.T, args ...string) (*Common, map[string]bool) {
	t.Helper()
	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	var c Common
	Register(fs, &c)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return &c, cliutil.Explicit(fs)
}

func TestApplyOnlyExplicit(t *testing.T) {
	c, set := parse(t, "-t", "4")
	cfg := config.Default()
	cfg.Winsize = 101
	c.Apply(&cfg, set)
	if cfg.Threads != 4 || cfg.Winsize != 101 {
		t.Fatalf("cfg %+v", cfg)
	}
}

func TestLoadConfigValidates(t *testing.T) {
	c, set := parse(t, "--winsize", "10")
	if _, err := LoadConfig(c, set, nil); err == nil {
		t.Fatal("even window must fail validation")
	}
}

func TestValidate(t *testing.T) {
	c, _ := parse(t, "-q", "--verbose")
	if err := Validate(c); err == nil {
		t.Fatal("quiet+verbose should conflict")
	}
}

func TestUsageMentionsVersionAndDefaults(t *testing.T) {
	fs := flag.NewFlagSet("deepfold", flag.ContinueOnError)
	var c Common
	Register(fs, &c)
	var b bytes.Buffer
	fs.SetOutput(&b)
	UsageCommon(fs, "deepfold", "<in> <out>", nil)
	fs.Usage()
	out := b.String()
	for _, want := range []string{"Version:", "deepfold <in> <out>", "[801]"} {
		if !strings.Contains(out, want) {
			t.Errorf("usage missing %q", want)
		}
	}
}

func TestPrintExamples(t *testing.T) {
	var buf bytes.Buffer
	PrintExamples(&buf, "tool", "intro", []Example{{"first", "tool a"}, {"", "tool b"}})
	out := buf.String()
	for _, want := range []string{"tool quickstart", "intro", "  # first\n  tool a\n", "\n  tool b\n", "tool --help"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	PrintExamples(nil, "tool", "", nil)
}
