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
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogFormatterIncludesFields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(NewJSONFormatter("TEST"))

	l.WithField("list_id", "abc").WithError(errors.New("boom")).Info("created")

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "TEST", out["logger"])
	assert.Equal(t, "created", out["msg"])
	assert.Equal(t, "abc", out["list_id"])
	assert.Equal(t, "boom", out["error"])
	assert.Equal(t, "info", out["level"])
	assert.NotEmpty(t, out["ts"])
}

func TestConsoleFormatterColor(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&ConsoleFormatter{Name: "A_VERY_LONG_NAME", NameWidth: 6, Color: true})

	l.Error("failed")

	line := buf.String()
	assert.Contains(t, line, "\x1b[")
	assert.Contains(t, line, "A_VERY")
	assert.NotContains(t, line, "A_VERY_")
}

func TestConfigureLogLevelAppliesToExistingLoggers(t *testing.T) {
	l := NewLogger("LEVEL_TEST")
	t.Cleanup(func() { ConfigureLogLevel("info") })

	ConfigureLogLevel("debug")
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.Equal(t, logrus.DebugLevel, NewLogger("LEVEL_TEST_LATER").GetLevel())
}

func TestConfigureOutputRedirectsLoggers(t *testing.T) {
	var buf bytes.Buffer
	before := NewLogger("OUTPUT_TEST")
	ConfigureOutput(&buf)
	t.Cleanup(func() { ConfigureOutput(os.Stdout) })

	before.Info("from existing logger")
	NewLogger("OUTPUT_TEST_LATER").Info("from new logger")
	ConfigureOutput(nil)
	before.Warn("nil keeps the writer")

	out := buf.String()
	assert.Contains(t, out, "from existing logger")
	assert.Contains(t, out, "from new logger")
	assert.Contains(t, out, "nil keeps the writer")
	assert.NotContains(t, out, "\x1b[", "buffers are not terminals")
}

func TestLog4jFormatterWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&ConsoleFormatter{Name: "DATABASE", NameWidth: 10})

	l.WithFields(logrus.Fields{"b": 2, "a": 1}).Warn("slow query")

	line := buf.String()
	assert.Contains(t, line, "WARNING")
	assert.Contains(t, line, "  DATABASE")
	assert.True(t, strings.HasSuffix(line, "slow query a=1 b=2\n"), line)
	assert.NotContains(t, line, "\x1b[")
}

func TestNewLoggerIsRegisteredOnce(t *testing.T) {
	a := NewLogger("REGISTRY_TEST")
	b := NewLogger("REGISTRY_TEST")
	assert.Same(t, a, b)

	assert.True(t, SetLoggerLevel("REGISTRY_TEST", "error"))
	assert.Equal(t, logrus.ErrorLevel, a.GetLevel())
	assert.False(t, SetLoggerLevel("MISSING_LOGGER", "debug"))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.TraceLevel, ParseLogLevel("trace"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("nonsense"))
}
