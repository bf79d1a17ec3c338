package core

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/doinkythederp/rush/core/config"
	"github.com/doinkythederp/rush/core/environment"
	"github.com/doinkythederp/rush/core/logger"
	"github.com/doinkythederp/rush/core/vos"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

// newMemShell creates a shell over an in-memory filesystem.
func newMemShell(t *testing.T, builtins ...*Builtin) *Shell {
	t.Helper()

	vfs := afero.NewMemMapFs()
	for _, dir := range []string{"/home/alice", "/usr/bin", "/bin"} {
		require.NoError(t, vfs.MkdirAll(dir, 0755))
	}

	proc := vos.NewMemProcessEnv(vfs,
		"USER=alice",
		"HOME=/home/alice",
		"PWD=/home/alice",
		"PATH=/usr/bin:/bin",
	)
	env, err := environment.New(proc, vfs)
	require.NoError(t, err)

	return NewShell(env, config.Default(), NewCommandManager(builtins...), vfs, nil)
}

// newOsShell creates a shell rooted in a temporary directory of the real
// filesystem with dir/bin as its search path.
func newOsShell(t *testing.T, builtins ...*Builtin) (*Shell, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "bin"), 0755))

	vfs := vos.NewOsFs()
	proc := vos.NewMemProcessEnv(vfs,
		"USER=alice",
		"HOME="+dir,
		"PWD="+dir,
		"PATH="+filepath.Join(dir, "bin"),
	)
	env, err := environment.New(proc, vfs)
	require.NoError(t, err)

	s := NewShell(env, config.Default(), NewCommandManager(builtins...), vfs, log.New(os.Stderr))
	s.SetStdin(nil)
	return s, dir
}

func writeScript(t *testing.T, path, body string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), mode))
}

func TestShell_status(t *testing.T) {
	s := newMemShell(t)
	assert.True(t, s.Success())

	s.SetStatus(3)
	assert.False(t, s.Success())
	assert.Equal(t, 3, s.LastStatus())

	_, exited := s.Exited()
	assert.False(t, exited)
	s.Exit(4)
	code, exited := s.Exited()
	assert.True(t, exited)
	assert.Equal(t, 4, code)
}

func TestShell_SetWorkingDirectory(t *testing.T) {
	s := newMemShell(t)
	s.Config.HistoryLimit = 1

	require.NoError(t, s.SetWorkingDirectory("/usr/bin"))
	require.NoError(t, s.SetWorkingDirectory("/bin"))
	assert.Len(t, s.Env.BackHistory(), 1)
	assert.Equal(t, "/usr/bin", s.Env.BackHistory()[0].Absolute())
}

func TestShell_Prompt(t *testing.T) {
	s := newMemShell(t)
	require.NoError(t, s.SetWorkingDirectory("/usr/bin"))

	assert.Equal(t, "alice on /usr/bin\n>> ", s.Prompt())

	s.Config.Prompt.ShowUser = false
	s.Config.Prompt.Symbol = "$"
	require.NoError(t, s.SetWorkingDirectory("~"))
	assert.Equal(t, "~\n$ ", s.Prompt())
}

func TestShell_truncationFromConfig(t *testing.T) {
	vfs := afero.NewMemMapFs()
	require.NoError(t, vfs.MkdirAll("/home/alice/projects/website", 0755))
	proc := vos.NewMemProcessEnv(vfs, "USER=alice", "HOME=/home/alice", "PWD=/home/alice/projects/website", "PATH=")
	env, err := environment.New(proc, vfs)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Truncation = 2
	s := NewShell(env, cfg, NewCommandManager(), vfs, nil)
	assert.Equal(t, "~/pr/we", s.Env.WorkingDirectory().Short())

	require.NoError(t, s.SetWorkingDirectory("~/projects"))
	assert.Equal(t, "~/pr", s.Env.WorkingDirectory().Short())
}

func TestShell_Interpret(t *testing.T) {
	var got [][]string
	echo := NewBuiltin("echo-args", nil, "", func(_ context.Context, s *Shell, c Console, args []string) int {
		got = append(got, args)
		return len(args)
	})
	s := newMemShell(t, echo)
	console := &RecordingConsole{}

	s.Interpret(context.Background(), console, "   ")
	assert.Empty(t, got)
	assert.True(t, s.Success())

	s.Interpret(context.Background(), console, "  echo-args   a\tb  ")
	assert.Equal(t, [][]string{{"a", "b"}}, got)
	assert.Equal(t, 2, s.LastStatus())

	s.Interpret(context.Background(), console, "echo-args")
	assert.Equal(t, []string{}, got[1])
	assert.True(t, s.Success())

	s.Interpret(context.Background(), console, "echo-args a b c")
	s.Interpret(context.Background(), console, "nonexistent --flag")
	assert.Equal(t, 3, s.LastStatus(), "unknown commands keep the last status")
	assert.Equal(t, []string{"nonexistent: command not found"}, console.ErrorLines())
}

func TestShell_eventLog(t *testing.T) {
	fail := NewBuiltin("fail", nil, "", func(context.Context, *Shell, Console, []string) int { return 2 })
	s := newMemShell(t, fail)

	var buf bytes.Buffer
	s.Events = logger.NewJsonLinesLogRecorder(&buf).NewSession()
	console := &RecordingConsole{}

	s.Interpret(context.Background(), console, "fail now")
	s.Interpret(context.Background(), console, "missing")

	var types []logger.EventType
	require.NoError(t, logger.ReadJSONLinesLog(&buf, func(le *logger.LogEntry) {
		types = append(types, le.Type)
		assert.Equal(t, s.Events.SessionID(), le.SessionID)
	}))
	assert.Equal(t, []logger.EventType{logger.RunCommand, logger.CommandFailed, logger.UnknownCommand}, types)
}

func TestShell_Close(t *testing.T) {
	s := newMemShell(t)
	closed := 0
	s.AddCloser(closerFunc(func() error { closed++; return nil }))
	s.AddCloser(closerFunc(func() error { closed++; return os.ErrClosed }))

	assert.ErrorIs(t, s.Close(), os.ErrClosed)
	assert.Equal(t, 2, closed)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestNewShell_nilLogger(t *testing.T) {
	s := newMemShell(t)
	assert.NotNil(t, s.Log)
	assert.NotNil(t, s.Runner())
}

func TestInterpreter_Run(t *testing.T) {
	cases := map[string]struct {
		input    string
		wantCode int
	}{
		"exit":           {"\n  \nexit 4\nmissing\n", 4},
		"eof-not-found":  {"missing\n", 0},
		"eof-empty":      {"", 0},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			s := newMemShell(t, NewBuiltin("exit", nil, "", func(_ context.Context, s *Shell, _ Console, args []string) int {
				code, _ := strconv.Atoi(args[0])
				s.Exit(code)
				return 0
			}))

			var out syncBuffer
			interpreter, err := NewInterpreter(s, strings.NewReader(tc.input), &out, &out, false)
			require.NoError(t, err)
			defer interpreter.Close()

			assert.Equal(t, tc.wantCode, interpreter.Run())
			assert.Contains(t, out.String(), "alice on ~")
		})
	}
}

func TestInterpreter_Run_sharesStdin(t *testing.T) {
	pr, pw := io.Pipe()
	var got []byte
	grab := NewBuiltin("grab", nil, "", func(_ context.Context, s *Shell, _ Console, _ []string) int {
		got, _ = io.ReadAll(s.Runner().Stdin)
		return 0
	})
	s := newMemShell(t, grab)

	var out syncBuffer
	interpreter, err := NewInterpreter(s, pr, &out, &out, false)
	require.NoError(t, err)
	defer interpreter.Close()
	assert.Same(t, pr, s.Runner().Stdin)

	go func() {
		// Each write blocks until it's read, the payload can only be
		// consumed by the running command.
		pw.Write([]byte("grab\n"))
		pw.Write([]byte("typed while grab runs"))
		pw.Close()
	}()

	assert.Equal(t, 0, interpreter.Run())
	assert.Equal(t, "typed while grab runs", string(got))
}

// syncBuffer is written to by readline's goroutine and the interpreter.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
