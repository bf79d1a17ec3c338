package core

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console is the line-oriented sink commands write to.
type Console interface {
	// WriteLine writes one line of regular output, without its terminator.
	WriteLine(line string)
	// WriteErrorLine writes one line of diagnostic output.
	WriteErrorLine(line string)
}

// NewStreamConsole writes output lines to out and error lines to errOut.
func NewStreamConsole(out, errOut io.Writer) *StreamConsole {
	return &StreamConsole{Out: out, Err: errOut}
}

// StreamConsole is a Console over a pair of writers. It's not safe for
// concurrent use, wrap it with NewLockedConsole for that.
type StreamConsole struct {
	Out io.Writer
	Err io.Writer
}

var _ Console = (*StreamConsole)(nil)

// WriteLine implements Console.WriteLine.
func (c *StreamConsole) WriteLine(line string) {
	fmt.Fprintln(c.Out, line)
}

// WriteErrorLine implements Console.WriteErrorLine.
func (c *StreamConsole) WriteErrorLine(line string) {
	fmt.Fprintln(c.Err, line)
}

// NewLockedConsole serializes writes to c so lines from concurrent writers
// are never interleaved.
func NewLockedConsole(c Console) Console {
	if locked, ok := c.(*lockedConsole); ok {
		return locked
	}
	return &lockedConsole{console: c}
}

type lockedConsole struct {
	mu      sync.Mutex
	console Console
}

func (l *lockedConsole) WriteLine(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console.WriteLine(line)
}

func (l *lockedConsole) WriteErrorLine(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console.WriteErrorLine(line)
}

// Printf formats a line of output to c.
func Printf(c Console, format string, a ...interface{}) {
	c.WriteLine(strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

// Errorf formats a line of diagnostic output to c.
func Errorf(c Console, format string, a ...interface{}) {
	c.WriteErrorLine(strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

// Stdout adapts the regular output of c to an io.Writer. Partial lines are
// buffered until a newline or Flush.
func Stdout(c Console) *LineWriter {
	return &LineWriter{write: c.WriteLine}
}

// Stderr adapts the diagnostic output of c to an io.Writer.
func Stderr(c Console) *LineWriter {
	return &LineWriter{write: c.WriteErrorLine}
}

// LineWriter splits written bytes into lines for a Console.
type LineWriter struct {
	write   func(string)
	pending bytes.Buffer
}

var _ io.Writer = (*LineWriter)(nil)

func (w *LineWriter) Write(b []byte) (int, error) {
	w.pending.Write(b)
	for {
		line, err := w.pending.ReadString('\n')
		if err != nil {
			// Incomplete line, keep it for the next write.
			w.pending.Reset()
			w.pending.WriteString(line)
			return len(b), nil
		}
		w.write(strings.TrimSuffix(line, "\n"))
	}
}

// Flush writes out any buffered partial line.
func (w *LineWriter) Flush() {
	if w.pending.Len() > 0 {
		w.write(w.pending.String())
		w.pending.Reset()
	}
}

// RecordingConsole keeps every line in memory, it's safe for concurrent use.
type RecordingConsole struct {
	mu     sync.Mutex
	out    []string
	errOut []string
}

var _ Console = (*RecordingConsole)(nil)

// WriteLine implements Console.WriteLine.
func (r *RecordingConsole) WriteLine(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = append(r.out, line)
}

// WriteErrorLine implements Console.WriteErrorLine.
func (r *RecordingConsole) WriteErrorLine(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errOut = append(r.errOut, line)
}

// Lines returns a copy of the regular output lines.
func (r *RecordingConsole) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.out...)
}

// ErrorLines returns a copy of the diagnostic output lines.
func (r *RecordingConsole) ErrorLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errOut...)
}
