package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/terminator2-agent/sitekit/internal/portfolio"
)

// JSONWriter writes the summary as a JSON document for scripts.
type JSONWriter struct {
	output  io.Writer
	prefix  string
	indent  string
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents nested values with indent, each line starting with
// prefix. Without it the output is a single line.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix = prefix
		w.indent = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the generating sitekit version in the document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{output: output}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport is the top-level JSON document.
type JSONReport struct {
	Version string             `json:"version,omitempty"`
	Summary *portfolio.Summary `json:"summary"`
}

// Write encodes s followed by a newline. Question text is written as is,
// not with < escapes.
func (w *JSONWriter) Write(s *portfolio.Summary) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indent != "" || w.prefix != "" {
		enc.SetIndent(w.prefix, w.indent)
	}
	if err := enc.Encode(JSONReport{Version: w.version, Summary: s}); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
