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

package repository

import (
	"context"
	"reflect"
	"sync"

	"github.com/tomoncle/starter/entity"
	"github.com/uptrace/bun"
)

// Manager hands out repositories that share one unit of work. Build one per
// logical operation with a Provider and drop it afterwards.
type Manager struct {
	db    *bun.DB
	uow   *UnitOfWork
	repos sync.Map // reflect.Type -> Repository[T]
}

func NewManager(db *bun.DB, opts ...Option) *Manager {
	return &Manager{
		db:  db,
		uow: NewUnitOfWork(db, opts...),
	}
}

// For returns the cached generic repository for T, creating it on first use.
func For[T any](m *Manager) Repository[T] {
	key := reflect.TypeFor[T]()
	if repo, ok := m.repos.Load(key); ok {
		return repo.(Repository[T])
	}
	repo, _ := m.repos.LoadOrStore(key, NewRepository[T](m.db, m.uow))
	return repo.(Repository[T])
}

func (m *Manager) TodoLists() TodoListRepository {
	return &todoListRepository{Repository: For[entity.TodoList](m)}
}

func (m *Manager) TodoItems() TodoItemRepository {
	return &todoItemRepository{Repository: For[entity.TodoItem](m)}
}

func (m *Manager) Billers() BillerRepository {
	return &billerRepository{Repository: For[entity.Biller](m)}
}

func (m *Manager) UnitOfWork() *UnitOfWork {
	return m.uow
}

// SaveChanges is shorthand for m.UnitOfWork().SaveChanges.
func (m *Manager) SaveChanges(ctx context.Context) (int64, error) {
	return m.uow.SaveChanges(ctx)
}

// Provider builds a fresh Manager per operation over a shared database.
type Provider struct {
	db   *bun.DB
	opts []Option
}

func NewProvider(db *bun.DB, opts ...Option) *Provider {
	return &Provider{db: db, opts: opts}
}

func (p *Provider) New() *Manager {
	return NewManager(p.db, p.opts...)
}

func (p *Provider) DB() *bun.DB {
	return p.db
}
