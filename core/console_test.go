package core

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleStdout() {
	printLine := writerFunc(func(b []byte) (int, error) {
		fmt.Printf("line: %q\n", strings.TrimSuffix(string(b), "\n"))
		return len(b), nil
	})
	w := Stdout(NewStreamConsole(printLine, printLine))

	fmt.Fprint(w, "hello ")
	fmt.Fprint(w, "world\nsecond")
	w.Flush()

	// Output: line: "hello world"
	// line: "second"
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) { return f(b) }

func TestStreamConsole(t *testing.T) {
	var out, errOut bytes.Buffer
	console := NewStreamConsole(&out, &errOut)

	Printf(console, "%d lines\n", 2)
	Errorf(console, "bad: %s", "thing")

	assert.Equal(t, "2 lines\n", out.String())
	assert.Equal(t, "bad: thing\n", errOut.String())
}

func TestNewLockedConsole(t *testing.T) {
	var out bytes.Buffer
	locked := NewLockedConsole(NewStreamConsole(&out, &out))
	assert.Same(t, locked, NewLockedConsole(locked), "wrapping twice is a no-op")

	const writers, lines = 8, 200
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < lines; i++ {
				if i%2 == 0 {
					locked.WriteLine(fmt.Sprintf("writer-%d-line-%d", w, i))
				} else {
					locked.WriteErrorLine(fmt.Sprintf("writer-%d-line-%d", w, i))
				}
			}
		}(w)
	}
	wg.Wait()

	got := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Len(t, got, writers*lines)
	for _, line := range got {
		assert.Regexp(t, `^writer-\d+-line-\d+$`, line)
	}
}

func TestRecordingConsole(t *testing.T) {
	console := &RecordingConsole{}
	w := Stderr(console)
	fmt.Fprintln(w, "first")
	fmt.Fprint(w, "partial")
	assert.Equal(t, []string{"first"}, console.ErrorLines())

	w.Flush()
	w.Flush()
	assert.Equal(t, []string{"first", "partial"}, console.ErrorLines())
	assert.Empty(t, console.Lines())
}
