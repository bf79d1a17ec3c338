package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"
)

// EventType identifies the kind of a LogEntry.
type EventType string

const (
	// RunCommand is logged for every command that was resolved and run.
	RunCommand EventType = "run_command"
	// UnknownCommand is logged when a name resolved to nothing.
	UnknownCommand EventType = "unknown_command"
	// CommandFailed is logged after a resolved command reported a non-zero
	// status.
	CommandFailed EventType = "command_failed"
)

// LogEntry is a single line of the event log.
type LogEntry struct {
	TimestampMicros int64     `json:"timestamp_micros"`
	SessionID       string    `json:"session_id,omitempty"`
	Type            EventType `json:"type"`
	Command         []string  `json:"command"`
	ResolvedPath    string    `json:"resolved_path,omitempty"`
	ExitCode        int       `json:"exit_code"`
}

// CommandName returns the name the command was invoked as.
func (le *LogEntry) CommandName() string {
	if len(le.Command) == 0 {
		return ""
	}
	return le.Command[0]
}

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures the commands a shell dispatched.
type Logger struct {
	Record LogRecorder
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that drops every event.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*LogEntry) error { return nil },
	}
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the ID attached to every entry.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record stamps the entry with the time and session ID and stores it.
func (l *SessionLogger) Record(le LogEntry) error {
	le.TimestampMicros = time.Now().UnixMicro()
	le.SessionID = l.sessionID
	return l.Logger.Record(&le)
}
