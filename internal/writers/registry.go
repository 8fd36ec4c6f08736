// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"
)

// StructureWriters maps an output format to its encoder. Formats register
// in init() blocks.
var StructureWriters = map[string]func(w io.Writer, s Structure) error{}

// structureExt is the file extension used per format; "" keeps the input
// file name unchanged.
var structureExt = map[string]string{}

// RegisterStructure adds a format (idempotent last-wins).
func RegisterStructure(format, ext string, fn func(io.Writer, Structure) error) {
	StructureWriters[format] = fn
	structureExt[format] = ext
}

// Formats lists the registered structure formats.
func Formats() []string {
	out := make([]string, 0, len(StructureWriters))
	for f := range StructureWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// WriteStructure dispatches to the registered format.
func WriteStructure(format string, w io.Writer, s Structure) error {
	fn, ok := StructureWriters[format]
	if !ok {
		return fmt.Errorf("unknown structure format %q (no writer registered)", format)
	}
	return fn(w, s)
}
