// internal/runutil/runutil.go
package runutil

import (
	"fmt"
	"os"
	"runtime"
)

// EffectiveThreads maps the 0 = all CPUs convention to a worker count.
func EffectiveThreads(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// EnsureOutputDir creates dir (mode 0755) when missing and rejects a path
// that exists but is not a directory.
func EnsureOutputDir(dir string) error {
	fi, err := os.Stat(dir)
	switch {
	case err == nil && !fi.IsDir():
		return fmt.Errorf("output %s exists and is not a directory", dir)
	case err == nil:
		return nil
	case os.IsNotExist(err):
		return os.MkdirAll(dir, 0o755)
	default:
		return err
	}
}
