package scan

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.onnx", "a.ONNX", "c.json", "notes.txt"} {
		touch(t, filepath.Join(dir, n))
	}
	if err := os.Mkdir(filepath.Join(dir, "d.onnx"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Files(dir, "onnx")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.ONNX"), filepath.Join(dir, "b.onnx")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	all, err := Files(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Fatalf("want 4 regular files, got %v", all)
	}
}

func TestFilesMissingDir(t *testing.T) {
	if _, err := Files(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error")
	}
}

func TestStem(t *testing.T) {
	if got := Stem("/x/y/seq1.fa"); got != "seq1" {
		t.Fatalf("got %q", got)
	}
	if got := Stem("plain"); got != "plain" {
		t.Fatalf("got %q", got)
	}
}
