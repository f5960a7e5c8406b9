package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/vk/semgraft/internal/conllu"
	"github.com/vk/semgraft/internal/semgraph"
)

type sentenceReader interface {
	Next() (*conllu.Sentence, error)
}

type sentenceWriter interface {
	Write(s *conllu.Sentence) error
	Flush() error
}

func newSentenceReader(format string, r io.Reader) sentenceReader {
	if format == FormatCompact {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		return &compactReader{sc: sc}
	}
	return conllu.NewReader(r)
}

func newSentenceWriter(format string, w io.Writer) sentenceWriter {
	if format == FormatCompact {
		return &compactWriter{w: bufio.NewWriter(w)}
	}
	return conllu.NewWriter(w)
}

// compactReader reads one graph per line. Blank lines and lines starting
// with # are skipped.
type compactReader struct {
	sc   *bufio.Scanner
	line int
}

func (r *compactReader) Next() (*conllu.Sentence, error) {
	for r.sc.Scan() {
		r.line++
		line := strings.TrimSpace(r.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		g, err := semgraph.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		return &conllu.Sentence{Graph: g}, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// compactWriter writes one graph per line and drops comments.
type compactWriter struct {
	w *bufio.Writer
}

func (w *compactWriter) Write(s *conllu.Sentence) error {
	_, err := fmt.Fprintln(w.w, s.Graph.String())
	return err
}

func (w *compactWriter) Flush() error { return w.w.Flush() }
