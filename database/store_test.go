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
package database_test

import (
	"context"
	"database/sql/driver"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/starter/database"
	"github.com/tomoncle/starter/database/dbtest"
)

func TestOpenRejectsUnknownType(t *testing.T) {
	cfg := dbtest.Config()
	cfg.Connection.Type = "oracle"
	_, err := database.Open(context.Background(), cfg)
	assert.ErrorContains(t, err, "unsupported database type")

	_, err = database.Open(context.Background(), nil)
	assert.Error(t, err)
}

func TestStoreHealthAndClose(t *testing.T) {
	ctx := context.Background()
	store, err := database.Open(ctx, dbtest.Config())
	require.NoError(t, err)

	status := store.Health(ctx)
	assert.True(t, status.Healthy)
	assert.Equal(t, "sqlite", status.Dialect)
	assert.Equal(t, 1, status.MaxOpen)

	var fk int
	require.NoError(t, store.DB().NewRaw("PRAGMA foreign_keys").Scan(ctx, &fk))
	assert.Equal(t, 1, fk)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
	assert.Nil(t, store.DB())

	status = store.Health(ctx)
	assert.False(t, status.Healthy)
	assert.NotEmpty(t, status.LastError)
}

func TestOpenWithoutMigrations(t *testing.T) {
	ctx := context.Background()
	cfg := dbtest.Config()
	cfg.Migrate.OnStartup = false
	store, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	defer store.Close()

	var n int
	require.NoError(t, store.DB().NewRaw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'todo_lists'").Scan(ctx, &n))
	assert.Zero(t, n)

	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.DB().NewRaw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'todo_lists'").Scan(ctx, &n))
	assert.Equal(t, 1, n)
}

func TestForeignKeysSurviveReconnect(t *testing.T) {
	ctx := context.Background()
	cfg := dbtest.Config()
	cfg.Connection.DBName = filepath.Join(t.TempDir(), "starter")
	store, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	defer store.Close()

	// Drop the pooled connection so the next query dials a fresh one.
	conn, err := store.DB().DB.Conn(ctx)
	require.NoError(t, err)
	_ = conn.Raw(func(any) error { return driver.ErrBadConn })
	_ = conn.Close()

	var fk int
	require.NoError(t, store.DB().NewRaw("PRAGMA foreign_keys").Scan(ctx, &fk))
	assert.Equal(t, 1, fk)

	var n int
	require.NoError(t, store.DB().NewRaw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'todo_lists'").Scan(ctx, &n))
	assert.Equal(t, 1, n, "same file after reconnect")
}
