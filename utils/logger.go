/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Named loggers share one output, format and default level. Each component
// asks for its own by name (NewLogger("SERVICE")) so levels can be tuned per
// component.
var registry = struct {
	sync.RWMutex
	loggers map[string]*logrus.Logger
	out     io.Writer
	format  string
	level   logrus.Level
}{
	loggers: map[string]*logrus.Logger{},
	out:     os.Stdout,
	format:  formatName(os.Getenv("CONSOLE_LOG_FORMAT")),
	level:   ParseLogLevel(os.Getenv("LOG_LEVEL")),
}

func formatName(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return "json"
	}
	return "text"
}

// ParseLogLevel is logrus.ParseLevel with an info fallback.
func ParseLogLevel(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// ConfigureConsoleLogFormat switches every logger between "text" and "json".
func ConfigureConsoleLogFormat(format string) {
	registry.Lock()
	defer registry.Unlock()
	registry.format = formatName(format)
	for name, l := range registry.loggers {
		l.SetFormatter(newFormatter(name, registry.format, registry.out))
	}
}

// ConfigureOutput redirects every logger, including ones created later.
func ConfigureOutput(w io.Writer) {
	if w == nil {
		return
	}
	registry.Lock()
	defer registry.Unlock()
	registry.out = w
	for name, l := range registry.loggers {
		l.SetOutput(w)
		l.SetFormatter(newFormatter(name, registry.format, w))
	}
}

// ConfigureLogLevel sets the level of every logger, including ones created
// later.
func ConfigureLogLevel(level string) {
	lvl := ParseLogLevel(level)
	registry.Lock()
	defer registry.Unlock()
	registry.level = lvl
	for _, l := range registry.loggers {
		l.SetLevel(lvl)
	}
	logrus.SetLevel(lvl)
}

// SetLoggerLevel changes one named logger. It reports false if no logger has
// that name.
func SetLoggerLevel(name, level string) bool {
	registry.RLock()
	l, ok := registry.loggers[name]
	registry.RUnlock()
	if ok {
		l.SetLevel(ParseLogLevel(level))
	}
	return ok
}

// NewLogger returns the logger registered under name, creating it on first use.
func NewLogger(name string) *logrus.Logger {
	registry.Lock()
	defer registry.Unlock()
	if l, ok := registry.loggers[name]; ok {
		return l
	}
	l := logrus.New()
	l.SetOutput(registry.out)
	l.SetLevel(registry.level)
	l.SetReportCaller(true)
	l.SetFormatter(newFormatter(name, registry.format, registry.out))
	registry.loggers[name] = l
	return l
}

func newFormatter(name, format string, out io.Writer) logrus.Formatter {
	if format == "json" {
		return NewJSONFormatter(name)
	}
	return &ConsoleFormatter{Name: name, NameWidth: 10, Color: isTerminal(out)}
}

func callerString(f *runtime.Frame) string {
	return fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
}

// ConsoleFormatter writes one line per entry:
//
//	2024-03-01 12:00:00.000    INFO 4242   ---    SERVICE todo.go:57 : todo list created list_id=...
type ConsoleFormatter struct {
	Name      string
	NameWidth int
	Color     bool
}

// The formatter decides per writer whether to colour, so these ignore
// color.NoColor.
var (
	levelColors = map[logrus.Level]*color.Color{
		logrus.TraceLevel: forcedColor(color.FgBlue),
		logrus.DebugLevel: forcedColor(color.FgBlue),
		logrus.InfoLevel:  forcedColor(color.FgGreen),
		logrus.WarnLevel:  forcedColor(color.FgYellow),
	}
	nameColor   = forcedColor(color.FgCyan)
	callerColor = forcedColor(color.Faint)
	errorColor  = forcedColor(color.FgRed)
)

func forcedColor(attr color.Attribute) *color.Color {
	c := color.New(attr)
	c.EnableColor()
	return c
}

func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	name := f.Name
	if r := []rune(name); f.NameWidth > 0 && len(r) > f.NameWidth {
		name = string(r[:f.NameWidth])
	}
	lvl := fmt.Sprintf("%7s", strings.ToUpper(entry.Level.String()))
	name = fmt.Sprintf("%*s", f.NameWidth, name)
	caller := ""
	if entry.Caller != nil {
		caller = " " + callerString(entry.Caller)
	}
	if f.Color {
		c, ok := levelColors[entry.Level]
		if !ok {
			c = errorColor
		}
		lvl = c.Sprint(lvl)
		name = nameColor.Sprint(name)
		caller = callerColor.Sprint(caller)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %-6d --- %s%s : %s", entry.Time.Format(timestampFormat), lvl, os.Getpid(), name, caller, entry.Message)
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// JSONFormatter is logrus' JSON formatter with short keys and a "logger" field.
type JSONFormatter struct {
	Name  string
	inner *logrus.JSONFormatter
}

func NewJSONFormatter(name string) *JSONFormatter {
	return &JSONFormatter{
		Name: name,
		inner: &logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "ts",
				logrus.FieldKeyMsg:  "msg",
				logrus.FieldKeyFile: "caller",
			},
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				return "", callerString(f)
			},
		},
	}
}

func (f *JSONFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	e := entry.Dup()
	e.Level, e.Message, e.Caller = entry.Level, entry.Message, entry.Caller
	e.Data["logger"] = f.Name
	return f.inner.Format(e)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// Since returns a compact duration string for log fields.
func Since(start time.Time) string {
	return time.Since(start).Round(time.Microsecond).String()
}
