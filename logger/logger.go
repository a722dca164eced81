// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package logger provides an interface for logging. It wraps existing go loggers with that interface,
// so the log provider can be changed without touching the catalog, the query builder or the http layer.
// Log level, fields and time durations can be added.
package logger

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/patrickascher/dynapi/registry"
)

// Error messages.
var (
	ErrProvider = errors.New("logger: provider does not implement logger.Manager")
	ErrLevel    = "logger: unknown level %q"
)

// registryPrefix for the registry package.
const registryPrefix = "logger_"

// Level - the higher the more critical
const (
	TRACE Level = iota - 1
	DEBUG
	INFO
	WARNING
	ERROR
	PANIC
)

// Level type.
type Level int32

// String converts the level code.
func (lvl Level) String() string {
	switch lvl {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case PANIC:
		return "PANIC"
	default:
		return "unknown level"
	}
}

// ParseLevel converts a (case insensitive) level name into a Level.
func ParseLevel(s string) (Level, error) {
	for _, lvl := range []Level{TRACE, DEBUG, INFO, WARNING, ERROR, PANIC} {
		if strings.EqualFold(lvl.String(), s) {
			return lvl, nil
		}
	}
	return INFO, fmt.Errorf(ErrLevel, s)
}

// Provider interface.
type Provider interface {
	Log(Entry)
}

// Manager interface.
type Manager interface {
	Trace(string)
	Debug(string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
	Panic(msg string)

	New() Manager
	WithFields(Fields) Manager
	WithTimer() Manager

	SetCallerFields(bool)
	SetLogLevel(Level)
}

// Fields can be used to add more details to a log message.
type Fields map[string]interface{}

// Map converts the Fields to a map[string]interface{}.
func (f Fields) Map() map[string]interface{} {
	return f
}

// Entry struct holds all information for the log message.
type Entry struct {
	Level     Level
	Timestamp time.Time
	Message   string
	Fields    Fields
}

// manager struct holds the provider and fields information.
type manager struct {
	provider Provider
	fields   Fields

	callerInfo bool
	timer      time.Time
	lvl        Level
}

// New creates a Manager for the given provider.
// Default log level is DEBUG.
func New(provider Provider) Manager {
	return &manager{provider: provider}
}

// Register a new logger provider by name.
func Register(name string, provider Provider) error {
	return registry.Set(registryPrefix+name, New(provider))
}

// Get a logger by the registered name.
func Get(name string) (Manager, error) {
	m, err := registry.Get(registryPrefix + name)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if m, ok := m.(Manager); ok {
		return m, nil
	}
	return nil, ErrProvider
}

// SetCallerFields will add the fields "line" and "file" to the Entry.
func (m *manager) SetCallerFields(b bool) {
	m.callerInfo = b
}

// SetLogLevel will define the log level.
// Only messages equal or greater levels will be logged.
func (m *manager) SetLogLevel(lvl Level) {
	m.lvl = lvl
}

// New creates a new instance with the same provider, level and fields.
func (m manager) New() Manager {
	return &manager{lvl: m.lvl, provider: m.provider, fields: m.fields, callerInfo: m.callerInfo}
}

// WithTimer will add the field "duration" to the Entry.
func (m manager) WithTimer() Manager {
	instance := m.New().(*manager)
	instance.timer = time.Now()
	return instance
}

// WithFields will create a new Manager with the given fields merged into the existing ones.
func (m manager) WithFields(fields Fields) Manager {
	instance := m.New().(*manager)
	instance.fields = make(Fields, len(m.fields)+len(fields))
	for k, v := range m.fields {
		instance.fields[k] = v
	}
	for k, v := range fields {
		instance.fields[k] = v
	}
	instance.timer = m.timer
	return instance
}

// Trace log.
func (m manager) Trace(msg string) { m.log(msg, TRACE) }

// Debug log.
func (m manager) Debug(msg string) { m.log(msg, DEBUG) }

// Info log.
func (m manager) Info(msg string) { m.log(msg, INFO) }

// Warning log.
func (m manager) Warning(msg string) { m.log(msg, WARNING) }

// Error log.
func (m manager) Error(msg string) { m.log(msg, ERROR) }

// Panic log.
func (m manager) Panic(msg string) { m.log(msg, PANIC) }

func (m manager) log(msg string, lvl Level) {
	if lvl < m.lvl {
		return
	}

	e := Entry{Message: msg, Level: lvl, Timestamp: time.Now()}
	e.Fields = make(Fields, len(m.fields)+2)
	for k, v := range m.fields {
		e.Fields[k] = v
	}

	if !m.timer.IsZero() {
		e.Fields["duration"] = time.Since(m.timer)
	}

	if m.callerInfo {
		// skip log and the level function.
		_, file, line, _ := runtime.Caller(2)
		e.Fields["line"] = line
		e.Fields["file"] = file
	}

	m.provider.Log(e)
}
