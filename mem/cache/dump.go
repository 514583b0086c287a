package cache

import (
	"bytes"
	"fmt"
	"io"
)

// Dump writes every set of the store to w. Each line is printed as its valid
// bit, its frequency, its tag in hex padded to TagBits digits and the bytes
// of its block.
func Dump(w io.Writer, s *Store) error {
	for i := range s.sets {
		if _, err := fmt.Fprintf(w, "Set %d\n", i); err != nil {
			return err
		}

		for _, line := range s.sets[i].Lines {
			if err := dumpLine(w, line, int(s.config.TagBits)); err != nil {
				return err
			}
		}
	}

	return nil
}

func dumpLine(w io.Writer, line Line, tagWidth int) error {
	valid := 0
	if line.Valid {
		valid = 1
	}

	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "%1d %d 0x%0*x ", valid, line.Frequency, tagWidth, line.Tag)

	for _, b := range line.Block {
		fmt.Fprintf(buf, "%02x ", b)
	}

	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())

	return err
}

// DumpString renders the store the way Dump does.
func DumpString(s *Store) string {
	buf := new(bytes.Buffer)
	_ = Dump(buf, s)

	return buf.String()
}
