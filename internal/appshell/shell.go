// internal/appshell/shell.go
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"deepfold/internal/appcore"
)

// Command is the signature shared by every RunContext in the tree.
type Command func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main runs cmd with the first SIGINT/SIGTERM cancelling its context and a
// second one exiting immediately. A command that returns 0 after
// cancellation exits with appcore.ExitCanceled.
func Main(cmd Command) {
	os.Exit(run(cmd, os.Args[1:], os.Stdout, os.Stderr))
}

func run(cmd Command, argv []string, stdout, stderr io.Writer) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
			return
		}
		if _, ok := <-sigs; ok {
			os.Exit(appcore.ExitCanceled)
		}
	}()

	code := cmd(ctx, argv, stdout, stderr)
	if ctx.Err() != nil && code == appcore.ExitOK {
		code = appcore.ExitCanceled
	}
	return code
}
