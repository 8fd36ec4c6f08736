// internal/cmdutil/run.go
package cmdutil

import (
	"context"

	"deepfold/internal/pipeline"
)

// RunStream runs the shared pipeline, applies a visitor, and streams results via send.
// It returns the number of sent outputs and the first error encountered.
func RunStream[T any](
	ctx context.Context,
	cfg pipeline.Config,
	files []string,
	f pipeline.Folder,
	visit func(pipeline.Outcome) (T, error),
	send func(T) error,
) (int, error) {
	total := 0
	err := pipeline.ForEachStructure(ctx, cfg, files, f, func(o pipeline.Outcome) error {
		out, err := visit(o)
		if err != nil {
			return err
		}
		if err := send(out); err != nil {
			return err
		}
		total++
		return nil
	})
	return total, err
}
