// Package textfile reads blotter reports as one flattened sequence of lines.
package textfile

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/police-blotter-etl/internal/domain"
)

// StdinName is the path that selects standard input.
const StdinName = "-"

// maxLineSize bounds a single report line.
const maxLineSize = 1024 * 1024

// Reader concatenates the lines of several reports in the order given.
// It implements pipeline.Source.
type Reader struct {
	paths  []string
	stdin  io.Reader
	logger *slog.Logger
	err    error
}

// NewReader creates a Reader over paths. With no paths, or for the path "-",
// lines come from stdin.
func NewReader(paths []string, stdin io.Reader, logger *slog.Logger) *Reader {
	if len(paths) == 0 {
		paths = []string{StdinName}
	}
	return &Reader{paths: paths, stdin: stdin, logger: logger}
}

// Lines yields every line of every report, one resident at a time. Iteration
// stops at the first read error, which is then reported by Err.
func (r *Reader) Lines() iter.Seq[domain.Line] {
	return func(yield func(domain.Line) bool) {
		for _, path := range r.paths {
			more, err := r.readFile(path, yield)
			if err != nil {
				r.err = err
				return
			}
			if !more {
				return
			}
		}
	}
}

// Err returns the first error encountered by Lines, if any.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) readFile(path string, yield func(domain.Line) bool) (bool, error) {
	var src io.Reader
	if path == StdinName {
		src = r.stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return false, fmt.Errorf("open report: %w", err)
		}
		defer f.Close()
		src = f
	}
	r.logger.Debug("reading report", "source", path)

	return scanLines(src, path, yield)
}

func scanLines(src io.Reader, name string, yield func(domain.Line) bool) (bool, error) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	for scanner.Scan() {
		n++
		line := domain.Line{
			Text:   strings.TrimSuffix(scanner.Text(), "\r"),
			Source: name,
			Number: n,
		}
		if !yield(line) {
			return false, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	return true, nil
}
