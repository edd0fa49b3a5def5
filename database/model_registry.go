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
	"fmt"
	"slices"
	"sync"
)

// Model is a table created by migrations. Lower priorities are created first,
// so a parent must sort before every table that references it.
type Model struct {
	Instance any // nil struct pointer, e.g. (*entity.TodoList)(nil)
	Priority int
}

// IndexDefinition is a secondary index created after the tables exist.
// Foreign key columns are indexed without one.
type IndexDefinition struct {
	Table   string
	Name    string
	Columns []string
}

// Registry collects the tables, foreign keys and indexes that migrations
// create. Entity packages fill the default registry from init.
type Registry struct {
	mu          sync.RWMutex
	models      []Model
	foreignKeys ForeignKeys
	indexes     []IndexDefinition
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(models ...Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models = append(r.models, models...)
}

func (r *Registry) RegisterForeignKeys(fks ...ForeignKeyConstraint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.foreignKeys = append(r.foreignKeys, fks...)
}

func (r *Registry) RegisterIndex(idx IndexDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexes = append(r.indexes, idx)
}

// Models returns the models by ascending priority, keeping registration order
// among equals.
func (r *Registry) Models() []Model {
	r.mu.RLock()
	out := slices.Clone(r.models)
	r.mu.RUnlock()
	slices.SortStableFunc(out, func(a, b Model) int { return a.Priority - b.Priority })
	return out
}

// Instances returns the model pointers in creation order.
func (r *Registry) Instances() []any {
	models := r.Models()
	out := make([]any, len(models))
	for i, m := range models {
		out[i] = m.Instance
	}
	return out
}

func (r *Registry) ForeignKeys() ForeignKeys {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.foreignKeys)
}

// Indexes returns the explicit definitions followed by one idx_<table>_<column>
// index per foreign key column.
func (r *Registry) Indexes() []IndexDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Clone(r.indexes)
	for _, fk := range r.foreignKeys {
		out = append(out, IndexDefinition{
			Table:   fk.Table,
			Name:    fmt.Sprintf("idx_%s_%s", fk.Table, fk.Column),
			Columns: []string{fk.Column},
		})
	}
	return out
}

var defaultRegistry = NewRegistry()

// DefaultRegistry is the process-wide registry used by Store and migrations.
func DefaultRegistry() *Registry { return defaultRegistry }

func RegisterModels(models ...Model)                  { defaultRegistry.Register(models...) }
func RegisterForeignKeys(fks ...ForeignKeyConstraint) { defaultRegistry.RegisterForeignKeys(fks...) }
func RegisterIndex(idx IndexDefinition)               { defaultRegistry.RegisterIndex(idx) }

// RegisteredModelInstances is DefaultRegistry().Instances().
func RegisteredModelInstances() []any { return defaultRegistry.Instances() }
