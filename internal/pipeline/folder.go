// internal/pipeline/folder.go
package pipeline

import "context"

// Folder is the minimal capability the pipeline needs.
// Cascade satisfies it; tests use fakes.
type Folder interface {
	Fold(ctx context.Context, s []byte) (*Result, error)
}
