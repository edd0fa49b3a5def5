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
package database

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/starter/utils"
)

// Logger is the key/value logger used by the database layer:
//
//	logger.Info("Migration applied", "version", "001")
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

type loggerBox struct{ Logger }

var (
	current       atomic.Value
	defaultLogger = sync.OnceValue(func() Logger {
		return NewLogrusLogger(utils.NewLogger("DATABASE"))
	})
)

// SetLogger replaces the package logger. Nil is ignored.
func SetLogger(l Logger) {
	if l != nil {
		current.Store(loggerBox{l})
	}
}

// GetLogger returns the logger set with SetLogger, or a logrus logger named
// DATABASE.
func GetLogger() Logger {
	if b, ok := current.Load().(loggerBox); ok {
		return b.Logger
	}
	return defaultLogger()
}

// LogrusLogger turns key/value pairs into logrus fields.
type LogrusLogger struct {
	log logrus.FieldLogger
}

func NewLogrusLogger(log logrus.FieldLogger) *LogrusLogger {
	return &LogrusLogger{log: log}
}

func (l *LogrusLogger) Debug(msg string, kv ...any) { l.log.WithFields(toFields(kv)).Debug(msg) }
func (l *LogrusLogger) Info(msg string, kv ...any)  { l.log.WithFields(toFields(kv)).Info(msg) }
func (l *LogrusLogger) Warn(msg string, kv ...any)  { l.log.WithFields(toFields(kv)).Warn(msg) }
func (l *LogrusLogger) Error(msg string, kv ...any) { l.log.WithFields(toFields(kv)).Error(msg) }

// toFields pairs up key/value varargs; a dangling key lands under "extra".
func toFields(kv []any) logrus.Fields {
	fields := make(logrus.Fields, len(kv)/2+1)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 == len(kv) {
			fields["extra"] = key
			break
		}
		fields[key] = kv[i+1]
	}
	return fields
}
