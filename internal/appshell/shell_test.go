package appshell

import (
	"context"
	"io"
	"testing"

	"deepfold/internal/appcore"
)

func TestRunPassesThroughCode(t *testing.T) {
	var got []string
	code := run(func(ctx context.Context, argv []string, _, _ io.Writer) int {
		got = argv
		return appcore.ExitUsage
	}, []string{"a", "b"}, io.Discard, io.Discard)
	if code != appcore.ExitUsage {
		t.Fatalf("code=%d", code)
	}
	if len(got) != 2 || got[0] != "a" {
		t.Fatalf("argv=%v", got)
	}
}

func TestRunEmptyArgvUntouched(t *testing.T) {
	run(func(ctx context.Context, argv []string, _, _ io.Writer) int {
		if len(argv) != 0 {
			t.Errorf("argv=%v", argv)
		}
		return 0
	}, nil, io.Discard, io.Discard)
}
