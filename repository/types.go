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

	"github.com/tomoncle/starter/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// ReadRepository defines the queries available on every entity type. Reads
// hit the store immediately and never see staged mutations.
type ReadRepository[T any] interface {
	// GetAll returns every row, or an empty slice.
	GetAll(ctx context.Context) ([]*T, error)

	// GetByID returns (nil, nil) when no row has the key.
	GetByID(ctx context.Context, id any) (*T, error)

	// GetWithRelations is GetByID plus eager loading of the named bun relations.
	GetWithRelations(ctx context.Context, id any, relations ...string) (*T, error)

	Find(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	FirstOrDefault(ctx context.Context, filter *types.QueryFilter) (*T, error)

	Exists(ctx context.Context, filter *types.QueryFilter) (bool, error)

	Count(ctx context.Context, filter *types.QueryFilter) (int, error)
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// WriteRepository stages mutations on the unit of work. Nothing reaches the
// store until UnitOfWork.SaveChanges.
type WriteRepository[T any] interface {
	Insert(entity *T)
	Update(entity *T)
	// Upsert inserts entity or, when conflictKeys collide, updates fields.
	Upsert(entity *T, fields []string, conflictKeys ...string)
	Remove(entity *T)
	RemoveRange(entities []*T)
}

// Repository combines reads, pagination and staged writes and exposes the
// Bun select builder for queries the interface does not cover.
type Repository[T any] interface {
	ReadRepository[T]
	PageQueryRepository[T]
	WriteRepository[T]
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
}
