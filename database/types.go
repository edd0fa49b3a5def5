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

import "time"

// HealthStatus is what /healthz reports about the store.
type HealthStatus struct {
	Healthy      bool          `json:"healthy"`
	Connected    bool          `json:"connected"`
	Dialect      string        `json:"dialect,omitempty"`
	ResponseTime time.Duration `json:"response_time"`
	InUse        int           `json:"in_use"`
	Idle         int           `json:"idle"`
	MaxOpen      int           `json:"max_open"`
	LastError    string        `json:"last_error,omitempty"`
	CheckedAt    time.Time     `json:"checked_at"`
}

type PoolConfig struct {
	MaxIdle     int           `mapstructure:"max_idle"`
	MaxOpen     int           `mapstructure:"max_open"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
	MaxIdleTime time.Duration `mapstructure:"max_idle_time"`
}

// ConnectionConfig selects the dialect and driver and tunes the pool.
// Type is one of postgres, mysql or sqlite. For sqlite DBName is a file path
// without the ".db" suffix, or ":memory:".
type ConnectionConfig struct {
	Type           string        `mapstructure:"type"`
	Driver         string        `mapstructure:"driver"` // postgres only: pq (default) or pgx
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"dbname"`
	SSLMode        string        `mapstructure:"sslmode"`
	Pool           PoolConfig    `mapstructure:"pool"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	QueryLog       bool          `mapstructure:"query_log"`
	SlowQuery      time.Duration `mapstructure:"slow_query"`
	Metrics        bool          `mapstructure:"metrics"`
}

type MigrateConfig struct {
	OnStartup      bool   `mapstructure:"on_startup"`
	ForeignKeys    bool   `mapstructure:"foreign_keys"`
	ForeignKeyFile string `mapstructure:"foreign_key_file"`
}

// SeedConfig points at a directory of numbered .sql files: common/ runs
// first, then environments/<Environment>/.
type SeedConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Path        string `mapstructure:"path"`
	Environment string `mapstructure:"environment"`
}

type Config struct {
	Connection ConnectionConfig `mapstructure:"connection"`
	Migrate    MigrateConfig    `mapstructure:"migrate"`
	Seed       SeedConfig       `mapstructure:"seed"`
}

// DefaultConfig is a file-backed SQLite store migrated on startup with
// foreign keys and no seeding.
func DefaultConfig() *Config {
	return &Config{
		Connection: ConnectionConfig{
			Type:   "sqlite",
			DBName: "starter",
			Pool: PoolConfig{
				MaxIdle:     10,
				MaxOpen:     100,
				MaxLifetime: time.Hour,
				MaxIdleTime: 30 * time.Minute,
			},
			ConnectTimeout: 10 * time.Second,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			SlowQuery:      2 * time.Second,
		},
		Migrate: MigrateConfig{OnStartup: true, ForeignKeys: true},
		Seed:    SeedConfig{Path: "configs/sql", Environment: "prod"},
	}
}

func (c *ConnectionConfig) isSQLite() bool {
	return c.Type == "sqlite" || c.Type == "sqlite3"
}

// IsInMemory reports whether the connection targets a private SQLite memory
// database.
func (c *ConnectionConfig) IsInMemory() bool {
	return c.isSQLite() && c.DBName == ":memory:"
}
