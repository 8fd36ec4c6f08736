package appcore

import (
	"io"

	"deepfold/internal/writers"
	"deepfold/pkg/api"
)

// WriterFactory starts the stdout stream the pipeline feeds.
type WriterFactory[T any] interface {
	Start(out io.Writer, bufSize int) (chan<- T, <-chan error)
}

// ---------------- Summary writer ----------------

// SummaryWriterFactory streams per-file summaries as TSV or JSONL.
// Format "none" discards them.
type SummaryWriterFactory struct {
	Format string
	Header bool
}

func NewSummaryWriterFactory(format string, header bool) SummaryWriterFactory {
	return SummaryWriterFactory{Format: format, Header: header}
}

func (w SummaryWriterFactory) Start(out io.Writer, bufSize int) (chan<- api.SummaryV1, <-chan error) {
	if w.Format == "none" {
		return writers.StartSummaryWriter(io.Discard, "jsonl", false, bufSize)
	}
	return writers.StartSummaryWriter(out, w.Format, w.Header, bufSize)
}
