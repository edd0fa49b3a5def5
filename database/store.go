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
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/schema"
)

var supportedTypes = []string{"mysql", "postgres", "postgresql", "sqlite", "sqlite3"}

// Store owns the bun handle for the configured dialect.
type Store struct {
	cfg    *Config
	logger Logger

	mu sync.RWMutex
	db *bun.DB
}

// Open connects, installs the query hooks, and migrates when
// cfg.Migrate.OnStartup is set. The returned store must be closed.
func Open(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	conn := &cfg.Connection
	if !slices.Contains(supportedTypes, conn.Type) {
		return nil, fmt.Errorf("unsupported database type %q, supported types: %v", conn.Type, supportedTypes)
	}
	if conn.ConnectTimeout <= 0 {
		conn.ConnectTimeout = 10 * time.Second
	}

	db, err := dial(conn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", conn.Type, err)
	}
	s := &Store{cfg: cfg, logger: GetLogger(), db: db}

	pingCtx, cancel := context.WithTimeout(ctx, conn.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database connection test failed: %w", err)
	}
	s.installHooks()

	if cfg.Migrate.OnStartup {
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
	}
	db.RegisterModel(RegisteredModelInstances()...)

	s.logger.Info("Database connected", "type", conn.Type, "host", conn.Host, "dbname", conn.DBName)
	return s, nil
}

func dial(c *ConnectionConfig) (*bun.DB, error) {
	var (
		driver, dsn string
		dialect     schema.Dialect
	)
	switch c.Type {
	case "mysql":
		driver, dsn, dialect = "mysql", mysqlDSN(c), mysqldialect.New()
	case "postgres", "postgresql":
		driver, dsn, dialect = "postgres", postgresDSN(c), pgdialect.New()
		if c.Driver == "pgx" {
			driver = "pgx"
		}
	default:
		driver, dsn, dialect = sqliteshim.ShimName, sqliteDSN(c), sqlitedialect.New()
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if c.isSQLite() {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	} else {
		sqlDB.SetMaxIdleConns(c.Pool.MaxIdle)
		sqlDB.SetMaxOpenConns(c.Pool.MaxOpen)
		sqlDB.SetConnMaxLifetime(c.Pool.MaxLifetime)
		sqlDB.SetConnMaxIdleTime(c.Pool.MaxIdleTime)
	}
	return bun.NewDB(sqlDB, dialect), nil
}

func mysqlDSN(c *ConnectionConfig) string {
	mc := mysql.NewConfig()
	mc.User = c.Username
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Timeout = c.ConnectTimeout
	mc.ReadTimeout = c.ReadTimeout
	mc.WriteTimeout = c.WriteTimeout
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// sqliteDSN enables foreign keys on every connection the pool opens.
// modernc reads _pragma and cgo sqlite reads _foreign_keys; each ignores the
// other.
func sqliteDSN(c *ConnectionConfig) string {
	const params = "?_pragma=foreign_keys(1)&_foreign_keys=1"
	if c.IsInMemory() {
		// Private memory database that lives as long as its connection.
		return "file::memory:" + params
	}
	return fmt.Sprintf("file:%s.db", c.DBName) + params
}

func postgresDSN(c *ConnectionConfig) string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	q := url.Values{}
	q.Set("sslmode", sslMode)
	q.Set("connect_timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds())))
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (s *Store) installHooks() {
	c := &s.cfg.Connection
	if c.QueryLog {
		s.db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}
	if c.SlowQuery > 0 {
		s.db.AddQueryHook(NewSlowQueryHook(c.SlowQuery, s.logger))
	}
	if c.Metrics {
		s.db.AddQueryHook(NewMetricsHook(c.Type))
	}
}

// DB returns the bun handle, or nil once the store is closed.
func (s *Store) DB() *bun.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// Migrate creates the registered tables, foreign keys and indexes, then
// seeds when cfg.Seed.Enabled. Applied versions are skipped.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.DB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	return NewMigrator(db, s.logger, s.cfg).Run(ctx)
}

// Health pings the database and reports pool usage.
func (s *Store) Health(ctx context.Context) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{Dialect: s.cfg.Connection.Type, CheckedAt: start}

	db := s.DB()
	if db == nil {
		status.LastError = "database not initialized"
		return status
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := db.PingContext(pingCtx)
	status.ResponseTime = time.Since(start)

	if err != nil {
		status.LastError = err.Error()
	} else {
		status.Healthy = true
		status.Connected = true
	}

	stats := db.DB.Stats()
	status.InUse = stats.InUse
	status.Idle = stats.Idle
	status.MaxOpen = stats.MaxOpenConnections
	return status
}

// Close releases the pool. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	db := s.db
	s.db = nil
	s.mu.Unlock()
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		s.logger.Error("Failed to close database connection", "error", err)
		return err
	}
	s.logger.Info("Database connection closed")
	return nil
}
