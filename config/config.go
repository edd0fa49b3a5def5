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

// Package config loads the application settings. Sources in increasing
// priority: built-in defaults, config.yaml, a .env file, then STARTER_*
// environment variables (e.g. STARTER_HTTP_ADDR, STARTER_DATABASE_CONNECTION_TYPE).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tomoncle/starter/database"
)

const envPrefix = "STARTER"

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
	Output string `mapstructure:"output"` // stdout or stderr
}

// RedisConfig configures the message bus. The bus is off unless Enabled.
type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	StreamPrefix string `mapstructure:"stream_prefix"`
	Group        string `mapstructure:"group"`
	Consumer     string `mapstructure:"consumer"`
	MaxLen       int64  `mapstructure:"max_len"`
}

type AppConfig struct {
	HTTP     HTTPConfig      `mapstructure:"http"`
	Log      LogConfig       `mapstructure:"log"`
	Redis    RedisConfig     `mapstructure:"redis"`
	Database database.Config `mapstructure:"database"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.request_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream_prefix", "starter:")
	v.SetDefault("redis.group", "starter")
	v.SetDefault("redis.consumer", "starter-1")
	v.SetDefault("redis.max_len", 10000)

	db := database.DefaultConfig()
	c := db.Connection
	v.SetDefault("database.connection.type", c.Type)
	v.SetDefault("database.connection.driver", "")
	v.SetDefault("database.connection.host", "")
	v.SetDefault("database.connection.port", 0)
	v.SetDefault("database.connection.username", "")
	v.SetDefault("database.connection.password", "")
	v.SetDefault("database.connection.dbname", c.DBName)
	v.SetDefault("database.connection.sslmode", "")
	v.SetDefault("database.connection.pool.max_idle", c.Pool.MaxIdle)
	v.SetDefault("database.connection.pool.max_open", c.Pool.MaxOpen)
	v.SetDefault("database.connection.pool.max_lifetime", c.Pool.MaxLifetime)
	v.SetDefault("database.connection.pool.max_idle_time", c.Pool.MaxIdleTime)
	v.SetDefault("database.connection.connect_timeout", c.ConnectTimeout)
	v.SetDefault("database.connection.read_timeout", c.ReadTimeout)
	v.SetDefault("database.connection.write_timeout", c.WriteTimeout)
	v.SetDefault("database.connection.query_log", false)
	v.SetDefault("database.connection.slow_query", c.SlowQuery)
	v.SetDefault("database.connection.metrics", true)
	v.SetDefault("database.migrate.on_startup", db.Migrate.OnStartup)
	v.SetDefault("database.migrate.foreign_keys", db.Migrate.ForeignKeys)
	v.SetDefault("database.migrate.foreign_key_file", "")
	v.SetDefault("database.seed.enabled", false)
	v.SetDefault("database.seed.path", db.Seed.Path)
	v.SetDefault("database.seed.environment", db.Seed.Environment)
}

// Load reads the configuration. An empty path searches for config.yaml in
// the working directory and ./configs; a missing file is not an error.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
