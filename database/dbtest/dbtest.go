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

// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/starter/database"
	_ "github.com/tomoncle/starter/entity"
	"github.com/uptrace/bun"
)

// Config returns a private in-memory SQLite configuration with foreign keys
// enabled and seeding disabled.
func Config() *database.Config {
	cfg := database.DefaultConfig()
	cfg.Connection.Type = "sqlite"
	cfg.Connection.DBName = ":memory:"
	cfg.Seed.Enabled = false
	return cfg
}

// New connects a fresh database, runs all migrations and closes it when the
// test ends. Each call gets its own isolated store.
func New(t testing.TB) *bun.DB {
	t.Helper()
	return NewWithConfig(t, Config())
}

func NewWithConfig(t testing.TB, cfg *database.Config) *bun.DB {
	t.Helper()
	store, err := database.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.DB()
}
