// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"deepfold-core/ct"
)

// Config controls the folding pipeline.
type Config struct {
	Threads int // number of worker goroutines (>=1)
}

// Outcome pairs an input file with its folded structure.
type Outcome struct {
	Index  int // position in the input list
	Path   string
	Record *ct.Record
	Result *Result
}

// ForEachStructure reads every structure file, folds its sequence with f,
// and calls visit once per file in input order. The first error (read,
// fold, or visit) cancels the remaining work and is returned.
func ForEachStructure(
	ctx context.Context,
	cfg Config,
	files []string,
	f Folder,
	visit func(Outcome) error,
) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type job struct {
		idx  int
		path string
	}
	type result struct {
		out Outcome
		err error
	}
	jobs := make(chan job, cfg.Threads*2)
	results := make(chan result, cfg.Threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobs:
					if !ok {
						return
					}
					r := result{out: Outcome{Index: j.idx, Path: j.path}}
					rec, err := ct.ReadFile(j.path)
					if err == nil {
						r.out.Record = rec
						r.out.Result, err = f.Fold(ctx, rec.Seq)
					}
					if err != nil {
						r.err = fmt.Errorf("%s: %w", j.path, err)
					}
					select {
					case results <- r:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector: restores input order before visiting.
	var (
		cerr error
		cwg  sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		pending := make(map[int]Outcome)
		next := 0
		for r := range results {
			if cerr != nil {
				continue
			}
			if r.err != nil {
				cerr = r.err
				cancel()
				continue
			}
			pending[r.out.Index] = r.out
			for {
				o, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				if err := visit(o); err != nil {
					cerr = err
					cancel()
					break
				}
			}
		}
	}()

	// Feed work
feed:
	for i, path := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{idx: i, path: path}:
		}
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if cerr != nil {
		return cerr
	}
	return ctx.Err()
}
