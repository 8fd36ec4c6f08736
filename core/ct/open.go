package ct

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
)

var gzipMagic = []byte{0x1f, 0x8b}

// source is a possibly decompressed view over an open file.
type source struct {
	io.Reader
	file *os.File
	gz   *gzip.Reader
}

func (s *source) Close() error {
	var err error
	if s.gz != nil {
		err = s.gz.Close()
	}
	if s.file != nil && s.file != os.Stdin {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// openReader opens path ("-" is stdin) and decompresses gzip input,
// detected by its magic bytes so the file name does not matter.
func openReader(path string) (io.ReadCloser, error) {
	f := os.Stdin
	if path != "-" {
		var err error
		if f, err = os.Open(path); err != nil {
			return nil, err
		}
	}
	br := bufio.NewReader(f)
	s := &source{Reader: br, file: f}
	if head, _ := br.Peek(len(gzipMagic)); string(head) == string(gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Reader, s.gz = gz, gz
	}
	return s, nil
}
