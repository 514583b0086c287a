package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrBadTraceLine is returned for a trace line that cannot be parsed.
var ErrBadTraceLine = errors.New("malformed trace line")

// traceOp is a single access of a trace.
type traceOp struct {
	Write bool
	Addr  int64
	Value byte
	Line  int
}

// parseTrace reads one access per line. A line is either "r ADDR" or
// "w ADDR VALUE". Numbers are decimal or 0x-prefixed hex. Everything after a
// '#' is ignored, as are blank lines.
func parseTrace(r io.Reader) ([]traceOp, error) {
	var ops []traceOp

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++

		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		op, err := parseTraceFields(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		op.Line = lineNum
		ops = append(ops, op)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return ops, nil
}

func parseTraceFields(fields []string) (traceOp, error) {
	op := traceOp{}

	switch strings.ToLower(fields[0]) {
	case "r":
		if len(fields) != 2 {
			return op, fmt.Errorf("%w: read takes one address", ErrBadTraceLine)
		}
	case "w":
		if len(fields) != 3 {
			return op, fmt.Errorf("%w: write takes an address and a value",
				ErrBadTraceLine)
		}

		op.Write = true

		value, err := strconv.ParseUint(fields[2], 0, 8)
		if err != nil {
			return op, fmt.Errorf("%w: bad value %q", ErrBadTraceLine, fields[2])
		}

		op.Value = byte(value)
	default:
		return op, fmt.Errorf("%w: unknown operation %q",
			ErrBadTraceLine, fields[0])
	}

	addr, err := strconv.ParseInt(fields[1], 0, 64)
	if err != nil {
		return op, fmt.Errorf("%w: bad address %q", ErrBadTraceLine, fields[1])
	}

	op.Addr = addr

	return op, nil
}
