package vos

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// VEnv represents a table of environment variables.
type VEnv interface {
	// Setenv sets the value of the environment variable named by the key.
	// It returns an error, if any.
	Setenv(key, value string) error

	// Unsetenv unsets a single environment variable.
	Unsetenv(key string) error

	// LookupEnv retrieves the value of the environment variable named by the key.
	// If the variable is present in the environment the value (which may be
	// empty) is returned and the boolean is true. Otherwise the returned value
	// will be empty and the boolean will be false.
	LookupEnv(key string) (string, bool)

	// Environ returns a copy of strings representing the environment, in the
	// form "key=value".
	Environ() []string
}

// Getenv retrieves the value of the environment variable named by the key,
// empty if it isn't set.
func Getenv(env VEnv, key string) string {
	val, _ := env.LookupEnv(key)
	return val
}

// SplitEnv splits a "key=value" pair. Entries with no '=' have an empty value.
func SplitEnv(entry string) (key, value string) {
	split := strings.SplitN(entry, "=", 2)
	key = split[0]
	if len(split) > 1 {
		value = split[1]
	}
	return key, value
}

// CopyEnv copies all "key=value" entries into dst.
func CopyEnv(dst VEnv, environ []string) error {
	for _, e := range environ {
		if err := dst.Setenv(SplitEnv(e)); err != nil {
			return err
		}
	}

	return nil
}

// NewMapEnv creates a new environment backed by a map.
func NewMapEnv() *MapEnv {
	return &MapEnv{}
}

// NewMapEnvFromEnvList creates an environment holding a copy of environ.
func NewMapEnvFromEnvList(environ []string) *MapEnv {
	out := &MapEnv{}
	// MapEnv never fails to set.
	_ = CopyEnv(out, environ)
	return out
}

// MapEnv implements an in-memory VEnv.
type MapEnv struct {
	rw  sync.RWMutex
	env map[string]string
}

var _ VEnv = (*MapEnv)(nil)

// Setenv implements VEnv.Setenv.
func (m *MapEnv) Setenv(key, value string) error {
	m.rw.Lock()
	defer m.rw.Unlock()

	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
	return nil
}

// Unsetenv implements VEnv.Unsetenv.
func (m *MapEnv) Unsetenv(key string) error {
	m.rw.Lock()
	defer m.rw.Unlock()
	delete(m.env, key)
	return nil
}

// LookupEnv implements VEnv.LookupEnv.
func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.rw.RLock()
	defer m.rw.RUnlock()

	val, ok := m.env[key]
	return val, ok
}

// Environ implements VEnv.Environ, entries are sorted.
func (m *MapEnv) Environ() []string {
	m.rw.RLock()
	defer m.rw.RUnlock()

	env := make([]string, 0, len(m.env))
	for k, v := range m.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)

	return env
}
