package ct

import (
	"bufio"
	"fmt"
	"io"
)

// Write emits a connectivity table in the layout the reference tool
// produced: "<len>\t<name>" then per position
// "<i> <base>\t<i-1>\t<i+1>\t<partner|0>\t<i>" (1-based). partner holds
// 0-based partners with Unpaired (or any negative) for none.
func Write(w io.Writer, name string, s []byte, partner []int) error {
	if len(partner) != len(s) {
		return fmt.Errorf("ct write %s: %d partners for %d bases", name, len(partner), len(s))
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\t%s\n", len(s), name); err != nil {
		return err
	}
	for j, b := range s {
		p := 0
		if partner[j] >= 0 {
			p = partner[j] + 1
		}
		if _, err := fmt.Fprintf(bw, "%d %c\t%d\t%d\t%d\t%d\n", j+1, b, j, j+2, p, j+1); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteRecord writes r using its Name as the title.
func WriteRecord(w io.Writer, r *Record) error {
	return Write(w, r.Name, r.Seq, r.Partner)
}
