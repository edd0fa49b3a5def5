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
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSqlErrorClassifiesDrivers(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want SQLError
	}{
		{"no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), NoRowsErr},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, DuplicateKeyErr},
		{"mysql fk", &mysql.MySQLError{Number: 1452}, ForeignKeyViolationErr},
		{"pq unique", &pq.Error{Code: "23505"}, DuplicateKeyErr},
		{"pgx fk", &pgconn.PgError{Code: "23503"}, ForeignKeyViolationErr},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), DuplicateKeyErr},
		{"sqlite fk", errors.New("FOREIGN KEY constraint failed"), ForeignKeyViolationErr},
		{"sqlite not null", errors.New("NOT NULL constraint failed: todo_lists.name"), NotNullViolationErr},
		{"sqlite index exists", errors.New("index idx_a already exists"), ExistIndexErr},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is, got := IsSqlError(tc.err)
			assert.True(t, is)
			assert.Equal(t, tc.want, got)
		})
	}

	is, got := IsSqlError(errors.New("boom"))
	assert.False(t, is)
	assert.Equal(t, UnknownErr, got)
}

func TestIntegrityViolations(t *testing.T) {
	assert.True(t, DuplicateKeyErr.IsIntegrityViolation())
	assert.True(t, ForeignKeyViolationErr.IsIntegrityViolation())
	assert.False(t, NoRowsErr.IsIntegrityViolation())
	assert.False(t, NoTableErr.IsIntegrityViolation())
}

func TestIsTransientError(t *testing.T) {
	assert.True(t, IsTransientError(driver.ErrBadConn))
	assert.True(t, IsTransientError(fmt.Errorf("exec: %w", mysql.ErrInvalidConn)))
	assert.True(t, IsTransientError(&pq.Error{Code: "08006"}))
	assert.True(t, IsTransientError(&pgconn.PgError{Code: "53300"}))
	assert.True(t, IsTransientError(errors.New("database is locked")))
	assert.True(t, IsTransientError(errors.New("sql: database is closed")))

	assert.False(t, IsTransientError(nil))
	assert.False(t, IsTransientError(&pq.Error{Code: "23505"}))
	assert.False(t, IsTransientError(errors.New("UNIQUE constraint failed")))
}
