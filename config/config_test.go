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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "sqlite", cfg.Database.Connection.Type)
	assert.Equal(t, 2*time.Second, cfg.Database.Connection.SlowQuery)
	assert.True(t, cfg.Database.Migrate.ForeignKeys)
	assert.Equal(t, 100, cfg.Database.Connection.Pool.MaxOpen)
	assert.Equal(t, "configs/sql", cfg.Database.Seed.Path)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
http:
  addr: ":9090"
  read_timeout: 3s
redis:
  enabled: true
  addr: redis:6379
database:
  connection:
    type: postgres
    driver: pgx
    host: db
    port: 5432
    slow_query: 500ms
  seed:
    environment: dev
`), 0o600))
	t.Setenv("STARTER_HTTP_ADDR", ":7070")
	t.Setenv("STARTER_DATABASE_CONNECTION_DBNAME", "payments")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "starter:", cfg.Redis.StreamPrefix)

	conn := cfg.Database.Connection
	assert.Equal(t, "postgres", conn.Type)
	assert.Equal(t, "pgx", conn.Driver)
	assert.Equal(t, 5432, conn.Port)
	assert.Equal(t, "payments", conn.DBName)
	assert.Equal(t, 500*time.Millisecond, conn.SlowQuery)
	assert.Equal(t, "dev", cfg.Database.Seed.Environment)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STARTER_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("STARTER_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load("nope.yaml")
	assert.Error(t, err)
}
