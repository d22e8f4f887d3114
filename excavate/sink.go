package excavate

import (
	"bufio"
	"io"
	"strings"
)

// Sink receives rendered lines in traversal order. An error from Emit stops
// the walk.
type Sink interface {
	Emit(Line) error
}

// Styler decorates a segment for display, e.g. with ANSI colors.
type Styler interface {
	Render(text string, role Role) string
}

// TextSink writes one line of text per Line.
type TextSink struct {
	w      *bufio.Writer
	styler Styler
}

// NewTextSink writes to w, styling segments with s when s is non-nil. Call
// Flush when done.
func NewTextSink(w io.Writer, s Styler) *TextSink {
	return &TextSink{w: bufio.NewWriter(w), styler: s}
}

func (t *TextSink) Emit(l Line) error {
	for _, seg := range l.Segments() {
		text := seg.Text
		if t.styler != nil && seg.Role != RolePlain && text != "" {
			text = t.styler.Render(text, seg.Role)
		}
		if _, err := t.w.WriteString(text); err != nil {
			return err
		}
	}
	return t.w.WriteByte('\n')
}

// Flush writes any buffered output.
func (t *TextSink) Flush() error {
	return t.w.Flush()
}

// Collector keeps every emitted line in memory.
type Collector struct {
	Lines []Line
}

func (c *Collector) Emit(l Line) error {
	c.Lines = append(c.Lines, l)
	return nil
}

// String renders the collected lines as plain text, newline terminated.
func (c *Collector) String() string {
	var b strings.Builder
	for _, l := range c.Lines {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Reset drops the collected lines.
func (c *Collector) Reset() {
	c.Lines = c.Lines[:0]
}

// flusher is implemented by sinks that buffer output.
type flusher interface {
	Flush() error
}
