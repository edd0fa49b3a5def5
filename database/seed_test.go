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
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements(`
-- comment
INSERT INTO a (x)
  VALUES (1);

INSERT INTO a (x) VALUES (2);
UPDATE a SET x = 3`)
	assert.Equal(t, []string{
		"INSERT INTO a (x) VALUES (1);",
		"INSERT INTO a (x) VALUES (2);",
		"UPDATE a SET x = 3",
	}, stmts)
}

func TestSeedOrder(t *testing.T) {
	assert.Equal(t, 1, seedOrder("001_gateways.sql"))
	assert.Equal(t, 20, seedOrder("20_billers.sql"))
	assert.Equal(t, unorderedSeed, seedOrder("gateways.sql"))
}

func TestSeederRunsCommonFirst(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	_, err := db.ExecContext(ctx, "CREATE TABLE seeds (name TEXT, env TEXT, at TEXT)")
	require.NoError(t, err)

	fsys := fstest.MapFS{
		"environments/dev/001_dev.sql": {Data: []byte("INSERT INTO seeds VALUES ('dev', '{{.ENVIRONMENT}}', '{{.TIMESTAMP}}');")},
		"environments/qa/001_qa.sql":   {Data: []byte("INSERT INTO seeds VALUES ('qa', 'qa', '');")},
		"common/002_second.sql":        {Data: []byte("INSERT INTO seeds VALUES ('second', 'common', '');")},
		"common/001_first.sql":         {Data: []byte("INSERT INTO seeds VALUES ('first', 'common', '');")},
		"common/extra.sql":             {Data: []byte("INSERT INTO seeds VALUES ('extra', 'common', '');")},
		"common/README.md":             {Data: []byte("ignored")},
	}
	s := NewSeeder(fsys, "dev", nil)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	files, err := s.Files()
	require.NoError(t, err)
	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{
		"common/001_first.sql",
		"common/002_second.sql",
		"common/extra.sql",
		"environments/dev/001_dev.sql",
	}, paths)

	require.NoError(t, s.Run(ctx, db))

	var env, at string
	require.NoError(t, db.NewRaw("SELECT env, at FROM seeds WHERE name = 'dev'").Scan(ctx, &env, &at))
	assert.Equal(t, "dev", env)
	assert.Equal(t, "2024-03-01 12:00:00", at)

	var n int
	require.NoError(t, db.NewRaw("SELECT count(*) FROM seeds").Scan(ctx, &n))
	assert.Equal(t, 4, n)
}

func TestSeederWithoutFiles(t *testing.T) {
	s := NewSeeder(fstest.MapFS{}, "", nil)
	files, err := s.Files()
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.NoError(t, s.Run(context.Background(), openSQLite(t)))
}

func TestSeederUnknownTemplateKey(t *testing.T) {
	fsys := fstest.MapFS{"common/001_bad.sql": {Data: []byte("SELECT '{{.NOT_SET_ANYWHERE_42}}';")}}
	err := NewSeeder(fsys, "dev", nil).Run(context.Background(), openSQLite(t))
	assert.ErrorContains(t, err, "common/001_bad.sql")
}
