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
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLoggerRoutesStoreLogs(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	SetLogger(NewLogrusLogger(l))
	SetLogger(nil)

	cfg := DefaultConfig()
	cfg.Connection.Type = "sqlite"
	cfg.Connection.DBName = ":memory:"
	cfg.Migrate.OnStartup = false
	cfg.Seed.Enabled = false
	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	var entry map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		require.NoError(t, json.Unmarshal(line, &entry))
		if entry["msg"] == "Database connected" {
			break
		}
	}
	assert.Equal(t, "Database connected", entry["msg"])
	assert.Equal(t, "sqlite", entry["type"])
	assert.Equal(t, ":memory:", entry["dbname"])
}

func TestLogrusLoggerKeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.JSONFormatter{})
	log := NewLogrusLogger(l)

	log.Debug("seed applied", "file", "001_gateways.sql", "dangling")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "001_gateways.sql", entry["file"])
	assert.Equal(t, "dangling", entry["extra"])
}
