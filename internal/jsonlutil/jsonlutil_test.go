package jsonlutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestStartEncodesLines(t *testing.T) {
	var b bytes.Buffer
	in, done := Start[int](&b, 1, func(enc *json.Encoder, v int) error { return enc.Encode(v) }, nil)
	for i := 0; i < 3; i++ {
		in <- i
	}
	close(in)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if b.String() != "0\n1\n2\n" {
		t.Fatalf("got %q", b.String())
	}
}

func TestStartDrainsAfterError(t *testing.T) {
	boom := errors.New("boom")
	var b bytes.Buffer
	in, done := Start[int](&b, 1, func(*json.Encoder, int) error { return boom }, nil)
	for i := 0; i < 10; i++ {
		in <- i // must not block after the first failure
	}
	close(in)
	if err := <-done; !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestStartSuppressesBrokenPipe(t *testing.T) {
	boom := errors.New("pipe")
	in, done := Start[int](&bytes.Buffer{}, 1, func(*json.Encoder, int) error { return boom },
		func(err error) bool { return errors.Is(err, boom) })
	in <- 1
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("broken pipe should be nil, got %v", err)
	}
}
