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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"
)

var referentialActions = []string{"CASCADE", "RESTRICT", "SET NULL", "NO ACTION"}

// ForeignKeyConstraint is one column reference, declared in code by the entity
// package or loaded from a YAML file.
type ForeignKeyConstraint struct {
	Table           string `yaml:"table"`
	Column          string `yaml:"column"`
	ReferenceTable  string `yaml:"reference_table"`
	ReferenceColumn string `yaml:"reference_column"`
	OnDelete        string `yaml:"on_delete,omitempty"` // CASCADE, RESTRICT, SET NULL, NO ACTION
	OnUpdate        string `yaml:"on_update,omitempty"`
	ConstraintName  string `yaml:"constraint_name,omitempty"`
}

// Name returns ConstraintName or fk_<table>_<column>.
func (fk ForeignKeyConstraint) Name() string {
	if fk.ConstraintName != "" {
		return fk.ConstraintName
	}
	return fmt.Sprintf("fk_%s_%s", fk.Table, fk.Column)
}

// ApplyTo adds the constraint to a CREATE TABLE query. SQLite cannot add
// constraints with ALTER TABLE, so they are always declared inline.
func (fk ForeignKeyConstraint) ApplyTo(q *bun.CreateTableQuery) *bun.CreateTableQuery {
	var clause strings.Builder
	clause.WriteString("(?) REFERENCES ? (?)")
	if fk.OnDelete != "" {
		clause.WriteString(" ON DELETE " + strings.ToUpper(fk.OnDelete))
	}
	if fk.OnUpdate != "" {
		clause.WriteString(" ON UPDATE " + strings.ToUpper(fk.OnUpdate))
	}
	return q.ForeignKey(clause.String(), bun.Ident(fk.Column), bun.Ident(fk.ReferenceTable), bun.Ident(fk.ReferenceColumn))
}

// Validate reports every missing name and unknown referential action.
func (fk ForeignKeyConstraint) Validate() error {
	var problems []error
	missing := func(what, value string) {
		if value == "" {
			problems = append(problems, fmt.Errorf("%s: %s is empty", fk.Name(), what))
		}
	}
	missing("table", fk.Table)
	missing("column", fk.Column)
	missing("reference table", fk.ReferenceTable)
	missing("reference column", fk.ReferenceColumn)
	if !isReferentialAction(fk.OnDelete) {
		problems = append(problems, fmt.Errorf("%s: invalid on delete action %q", fk.Name(), fk.OnDelete))
	}
	if !isReferentialAction(fk.OnUpdate) {
		problems = append(problems, fmt.Errorf("%s: invalid on update action %q", fk.Name(), fk.OnUpdate))
	}
	return errors.Join(problems...)
}

func isReferentialAction(action string) bool {
	return action == "" || slices.ContainsFunc(referentialActions, func(a string) bool {
		return strings.EqualFold(a, action)
	})
}

// ForeignKeys is the set of constraints applied while creating tables.
type ForeignKeys []ForeignKeyConstraint

type foreignKeyFile struct {
	ForeignKeys ForeignKeys `yaml:"foreign_keys"`
}

// ReadForeignKeys loads a file written by WriteYAML.
func ReadForeignKeys(path string) (ForeignKeys, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f foreignKeyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f.ForeignKeys, nil
}

// WriteYAML exports the set, creating parent directories as needed.
func (s ForeignKeys) WriteYAML(path string) error {
	data, err := yaml.Marshal(foreignKeyFile{ForeignKeys: s})
	if err != nil {
		return fmt.Errorf("marshal foreign keys: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ForTable returns the constraints declared on table.
func (s ForeignKeys) ForTable(table string) ForeignKeys {
	var out ForeignKeys
	for _, fk := range s {
		if strings.EqualFold(fk.Table, table) {
			out = append(out, fk)
		}
	}
	return out
}

func (s ForeignKeys) Validate() error {
	var problems []error
	for _, fk := range s {
		if err := fk.Validate(); err != nil {
			problems = append(problems, err)
		}
	}
	return errors.Join(problems...)
}
