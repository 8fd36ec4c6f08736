// internal/writers/summary.go
package writers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"deepfold/internal/jsonlutil"
	"deepfold/internal/pipeline"
	"deepfold/pkg/api"
)

// SummaryHeader is the TSV header of the text summary.
const SummaryHeader = "run_id\tfile\toutput\tlength\tcandidates_1d\tcandidates_2d\tpairs\tasymmetric"

// Summarize counts what happened to one input file.
func Summarize(runID string, o pipeline.Outcome, output string) api.SummaryV1 {
	r := o.Result
	return api.SummaryV1{
		RunID:        runID,
		File:         o.Path,
		Output:       output,
		Length:       len(r.Seq),
		Candidates1D: len(r.Positions),
		Candidates2D: len(r.Pairs),
		Pairs:        len(r.Map.Pairs()),
		Asymmetric:   len(r.Map.Asymmetric()),
	}
}

// StartSummaryWriter spins up a writer goroutine for summary rows.
// format is "text" (TSV) or "jsonl". Broken pipes are not errors.
func StartSummaryWriter(out io.Writer, format string, header bool, bufSize int) (chan<- api.SummaryV1, <-chan error) {
	switch format {
	case "jsonl":
		return jsonlutil.Start[api.SummaryV1](out, bufSize,
			func(enc *json.Encoder, s api.SummaryV1) error { return enc.Encode(s) },
			IsBrokenPipe,
		)
	case "text":
		return startSummaryTSV(out, header, bufSize)
	}
	in := make(chan api.SummaryV1)
	errCh := make(chan error, 1)
	go func() {
		for range in {
		}
		errCh <- fmt.Errorf("unknown summary format %q", format)
	}()
	return in, errCh
}

func startSummaryTSV(out io.Writer, header bool, bufSize int) (chan<- api.SummaryV1, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan api.SummaryV1, bufSize)
	errCh := make(chan error, 1)
	go func() {
		bw := bufio.NewWriter(out)
		var err error
		if header {
			_, err = fmt.Fprintln(bw, SummaryHeader)
		}
		for s := range in {
			if err != nil {
				continue
			}
			_, err = fmt.Fprintf(bw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
				s.RunID, s.File, s.Output, s.Length, s.Candidates1D, s.Candidates2D, s.Pairs, s.Asymmetric)
		}
		if err == nil {
			err = bw.Flush()
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		errCh <- err
	}()
	return in, errCh
}
