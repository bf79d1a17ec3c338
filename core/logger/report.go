package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// SessionReport groups the command lines of each session.
type SessionReport struct {
	// Map of sessionID -> command lines
	sessions map[string]*Session
}

type Session struct {
	LogEntries int      `json:"log_entries"`
	Commands   []string `json:"commands"`
	Failures   int      `json:"failures"`
}

func (s *Session) Update(le *LogEntry) {
	s.LogEntries++

	switch le.Type {
	case RunCommand, UnknownCommand:
		s.Commands = append(s.Commands, strings.Join(le.Command, " "))
	}
	if le.Type == CommandFailed || le.Type == UnknownCommand {
		s.Failures++
	}
}

func (r *SessionReport) init() {
	if r.sessions == nil {
		r.sessions = make(map[string]*Session)
	}
}

// MarshalJSON implemnts custom JSON marshaler.
func (r *SessionReport) MarshalJSON() ([]byte, error) {
	r.init()

	return json.Marshal(r.sessions)
}

func (r *SessionReport) Update(le *LogEntry) {
	r.init()

	if le.SessionID == "" {
		return
	}
	report, ok := r.sessions[le.SessionID]
	if !ok {
		report = &Session{}
		r.sessions[le.SessionID] = report
	}

	report.Update(le)
}

// Len returns the number of sessions seen.
func (r *SessionReport) Len() int {
	return len(r.sessions)
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand     RunCommandReport     `json:"run_command_report"`
	UnknownCommand UnknownCommandReport `json:"unknown_command_report"`
	CommandFailed  CommandFailedReport  `json:"command_failed_report"`
}

func NewReport() *Report {
	return &Report{
		CommandFailed: CommandFailedReport{
			Failures: NewPathCounter("command", "exit_code"),
		},
	}
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch le.Type {
	case RunCommand:
		r.RunCommand.update(le)
	case UnknownCommand:
		r.UnknownCommand.update(le)
	case CommandFailed:
		r.CommandFailed.update(le)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%q", le.Type))
	}
}

type RunCommandReport struct {
	// Path of the resolved command, empty for builtins.
	ResolvedCommandPaths StrCounter `json:"resolved_command_paths"`
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
}

func (r *RunCommandReport) update(le *LogEntry) {
	if le.ResolvedPath != "" {
		r.ResolvedCommandPaths.Increment(le.ResolvedPath)
	}
	r.CommandNames.Increment(le.CommandName())
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(le *LogEntry) {
	r.CommandNames.Increment(le.CommandName())
}

type CommandFailedReport struct {
	Failures *PathCounter `json:"failures"`
}

func (r *CommandFailedReport) update(le *LogEntry) {
	if r.Failures == nil {
		r.Failures = NewPathCounter("command", "exit_code")
	}
	r.Failures.Increment(le.CommandName(), strconv.Itoa(le.ExitCode))
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Count returns how often key was seen.
func (s *StrCounter) Count(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of string tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Count returns how often the tuple was seen.
func (ctr *PathCounter) Count(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
