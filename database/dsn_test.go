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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSQLiteDSNEnablesForeignKeys(t *testing.T) {
	mem := &ConnectionConfig{Type: "sqlite", DBName: ":memory:"}
	assert.Equal(t, "file::memory:?_pragma=foreign_keys(1)&_foreign_keys=1", sqliteDSN(mem))

	file := &ConnectionConfig{Type: "sqlite3", DBName: "data/starter"}
	dsn := sqliteDSN(file)
	assert.True(t, strings.HasPrefix(dsn, "file:data/starter.db?"))
	assert.Contains(t, dsn, "_pragma=foreign_keys(1)")
	assert.Contains(t, dsn, "_foreign_keys=1")
}

func TestPostgresDSN(t *testing.T) {
	dsn := postgresDSN(&ConnectionConfig{
		Type: "postgres", Host: "db", Port: 5432, DBName: "starter",
		Username: "app", Password: "s3cret", ConnectTimeout: 5 * time.Second,
	})
	assert.Equal(t, "postgres://app:s3cret@db:5432/starter?connect_timeout=5&sslmode=disable", dsn)
}
