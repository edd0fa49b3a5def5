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
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// Migration is a row of schema_migrations, one per applied step.
type Migration struct {
	bun.BaseModel `bun:"table:schema_migrations"`

	Version     string    `bun:"version,pk"`
	Name        string    `bun:"name"`
	AppliedAt   time.Time `bun:"applied_at"`
	Description string    `bun:"description"`
}

// Step is one versioned migration. Up runs inside the transaction that also
// records the step.
type Step struct {
	Version     string
	Name        string
	Description string
	Up          func(ctx context.Context, db bun.IDB) error
}

// Migrator builds the schema from a Registry:
//
//	001 create_tables  every registered model, foreign keys declared inline
//	002 create_indexes explicit indexes plus one per foreign key column
//	003 seed           SQL seed files, only when cfg.Seed.Enabled
type Migrator struct {
	db       *bun.DB
	logger   Logger
	config   *Config
	registry *Registry
}

// NewMigrator uses the default registry. A nil config means DefaultConfig.
func NewMigrator(db *bun.DB, logger Logger, cfg *Config) *Migrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = GetLogger()
	}
	return &Migrator{db: db, logger: logger, config: cfg, registry: DefaultRegistry()}
}

func (m *Migrator) WithRegistry(r *Registry) *Migrator {
	m.registry = r
	return m
}

func (m *Migrator) steps() []Step {
	steps := []Step{
		{Version: "001", Name: "create_tables", Description: "Create registered tables", Up: m.createTables},
		{Version: "002", Name: "create_indexes", Description: "Create secondary and foreign key column indexes", Up: m.createIndexes},
	}
	if m.config.Seed.Enabled {
		steps = append(steps, Step{Version: "003", Name: "seed", Description: "Run SQL seed files", Up: m.seed})
	}
	return steps
}

// Run applies every step not yet recorded in schema_migrations. The slow
// query hook is muted meanwhile unless BUNDEBUG_MIGRATION is set.
func (m *Migrator) Run(ctx context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not initialized")
	}
	if _, ok := os.LookupEnv("BUNDEBUG_MIGRATION"); !ok {
		EnableBunSqlSilent(true)
		defer EnableBunSqlSilent(false)
	}

	if _, err := m.db.NewCreateTable().Model((*Migration)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	for _, step := range m.steps() {
		if err := m.apply(ctx, step); err != nil {
			return fmt.Errorf("migration %s_%s: %w", step.Version, step.Name, err)
		}
	}
	m.logger.Info("Database migrations completed")
	return nil
}

func (m *Migrator) apply(ctx context.Context, step Step) error {
	done, err := m.db.NewSelect().Model((*Migration)(nil)).Where("version = ?", step.Version).Exists(ctx)
	if err != nil || done {
		return err
	}
	err = m.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := step.Up(ctx, tx); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(&Migration{
			Version:     step.Version,
			Name:        step.Name,
			AppliedAt:   time.Now().UTC(),
			Description: step.Description,
		}).Exec(ctx)
		return err
	})
	if err == nil {
		m.logger.Info("Migration applied", "version", step.Version, "name", step.Name)
	}
	return err
}

// Applied lists the recorded steps by version.
func (m *Migrator) Applied(ctx context.Context) ([]Migration, error) {
	var out []Migration
	err := m.db.NewSelect().Model(&out).Order("version ASC").Scan(ctx)
	return out, err
}

// foreignKeys prefers cfg.Migrate.ForeignKeyFile and falls back to the
// registry when it is unset or unreadable.
func (m *Migrator) foreignKeys() (ForeignKeys, error) {
	fks := m.registry.ForeignKeys()
	if path := m.config.Migrate.ForeignKeyFile; path != "" {
		loaded, err := ReadForeignKeys(path)
		if err != nil {
			m.logger.Warn("Using code-defined foreign keys", "file", path, "error", err)
		} else {
			fks = loaded
		}
	}
	if err := fks.Validate(); err != nil {
		return nil, fmt.Errorf("invalid foreign keys: %w", err)
	}
	return fks, nil
}

func (m *Migrator) createTables(ctx context.Context, db bun.IDB) error {
	var fks ForeignKeys
	if m.config.Migrate.ForeignKeys {
		var err error
		if fks, err = m.foreignKeys(); err != nil {
			return err
		}
	}
	for _, model := range m.registry.Instances() {
		table := m.db.Table(reflect.TypeOf(model)).Name
		q := db.NewCreateTable().Model(model).IfNotExists()
		for _, fk := range fks.ForTable(table) {
			q = fk.ApplyTo(q)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}

func (m *Migrator) createIndexes(ctx context.Context, db bun.IDB) error {
	// MySQL has no CREATE INDEX IF NOT EXISTS.
	ifNotExists := m.db.Dialect().Name() != dialect.MySQL
	for _, idx := range m.registry.Indexes() {
		q := db.NewCreateIndex().Table(idx.Table).Index(idx.Name).Column(idx.Columns...)
		if ifNotExists {
			q = q.IfNotExists()
		}
		if _, err := q.Exec(ctx); err != nil {
			if _, code := IsSqlError(err); code == ExistIndexErr {
				continue
			}
			return fmt.Errorf("create index %s: %w", idx.Name, err)
		}
	}
	return nil
}

func (m *Migrator) seed(ctx context.Context, db bun.IDB) error {
	root := m.config.Seed.Path
	if root == "" {
		root = "configs/sql"
	}
	return NewSeeder(os.DirFS(root), m.config.Seed.Environment, m.logger).Run(ctx, db)
}
