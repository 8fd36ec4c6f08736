// core/ct/reader.go
package ct

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// Unpaired is the partner value of a position with no pair.
const Unpaired = -1

// ErrMalformedRecord is wrapped by every structure-file parse error.
var ErrMalformedRecord = errors.New("malformed structure record")

// RecordError locates a parse failure.
type RecordError struct {
	File string
	Line int
	Msg  string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s:%d %s", e.File, e.Line, e.Msg)
}

func (e *RecordError) Unwrap() error { return ErrMalformedRecord }

// Record is one connectivity table: a sequence and its base pairing.
type Record struct {
	Name    string // header title
	Source  string // file the record was read from
	Seq     []byte
	Partner []int // 0-based partner per position, Unpaired when none
}

// Len is the number of positions.
func (r *Record) Len() int { return len(r.Seq) }

// Labels returns 1 for every paired position and 0 otherwise.
func (r *Record) Labels() []int8 {
	out := make([]int8, len(r.Partner))
	for i, p := range r.Partner {
		if p != Unpaired {
			out[i] = 1
		}
	}
	return out
}

// ReadFile parses the structure file at path (gzip allowed).
func ReadFile(path string) (*Record, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	rec, err := Parse(rc, path)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Parse reads one record. The header is "<count> <title...>"; each body
// line is "<pos> <base> <prev> <next> <partner> ..." with any whitespace,
// positions 1-based and consecutive, partner 0 meaning unpaired. Bases are
// upper-cased; alphabet checks are left to the encoders.
func Parse(r io.Reader, source string) (*Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	bad := func(line int, format string, a ...any) error {
		return &RecordError{File: source, Line: line, Msg: fmt.Sprintf(format, a...)}
	}

	rec := &Record{Source: source}
	ln := 0
	count := -1
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		f := strings.Fields(line)
		if count < 0 {
			n, err := strconv.Atoi(f[0])
			if err != nil || n < 0 {
				return nil, bad(ln, "bad header length %q", f[0])
			}
			count = n
			rec.Name = strings.Join(f[1:], " ")
			rec.Seq = make([]byte, 0, n)
			rec.Partner = make([]int, 0, n)
			continue
		}
		if len(f) < 5 {
			return nil, bad(ln, "bad field count %d", len(f))
		}
		pos, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, bad(ln, "bad position %q", f[0])
		}
		if want := len(rec.Seq) + 1; pos != want {
			return nil, bad(ln, "position %d out of order, want %d", pos, want)
		}
		if len(f[1]) != 1 {
			return nil, bad(ln, "bad base %q", f[1])
		}
		partner, err := strconv.Atoi(f[4])
		if err != nil {
			return nil, bad(ln, "bad partner %q", f[4])
		}
		if partner < 0 || partner > count {
			return nil, bad(ln, "partner %d outside 0..%d", partner, count)
		}
		rec.Seq = append(rec.Seq, bytes.ToUpper([]byte(f[1]))[0])
		rec.Partner = append(rec.Partner, partner-1)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if count < 0 {
		return nil, bad(ln, "missing header")
	}
	if len(rec.Seq) != count {
		return nil, bad(ln, "header declares %d positions, found %d", count, len(rec.Seq))
	}
	if rec.Name == "" {
		rec.Name = filepath.Base(source)
	}
	return rec, nil
}
