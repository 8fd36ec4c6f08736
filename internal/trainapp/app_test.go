package trainapp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deepfold/internal/appcore"
	"deepfold/internal/loommodel"
)

const hairpin = "9\thp\n" +
	"1 G 0 2 9 1\n2 G 1 3 8 2\n3 G 2 4 7 3\n" +
	"4 A 3 5 0 4\n5 A 4 6 0 5\n6 A 5 7 0 6\n" +
	"7 C 6 8 3 7\n8 C 7 9 2 8\n9 C 8 10 1 9\n"

func TestTrainWritesLoadableModel(t *testing.T) {
	in := t.TempDir()
	if err := os.WriteFile(filepath.Join(in, "hp.ct"), []byte(hairpin), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "1D_S", "m.json")

	var stdout, stderr bytes.Buffer
	code := Run([]string{"--winsize", "5", "--hidden", "4", "--epochs", "2", "-q", in, out}, &stdout, &stderr)
	if code != appcore.ExitOK {
		t.Fatalf("code=%d stderr=%s", code, stderr.String())
	}
	m, err := loommodel.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if m.ID() != "deepfold-1d" {
		t.Fatalf("id=%q", m.ID())
	}
}

func TestTrainEmptyDir(t *testing.T) {
	var stderr bytes.Buffer
	code := Run([]string{"-q", t.TempDir(), filepath.Join(t.TempDir(), "m.json")}, &bytes.Buffer{}, &stderr)
	if code != appcore.ExitInput {
		t.Fatalf("code=%d", code)
	}
	if !strings.Contains(stderr.String(), "no training structures") {
		t.Fatalf("stderr=%s", stderr.String())
	}
}

func TestTrainUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"only-one"}, &stdout, &stderr); code != appcore.ExitUsage {
		t.Fatalf("code=%d", code)
	}
	if !strings.Contains(stderr.String(), "error:") {
		t.Fatalf("stderr=%s", stderr.String())
	}
}
