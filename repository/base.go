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
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tomoncle/starter/entity"
	"github.com/tomoncle/starter/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db  *bun.DB
	uow *UnitOfWork
}

// NewRepository returns a generic repository that reads from db and stages
// writes on uow.
func NewRepository[T any](db *bun.DB, uow *UnitOfWork) Repository[T] {
	return &baseRepositoryImpl[T]{db: db, uow: uow}
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	models := make([]*T, 0)
	if err := r.db.NewSelect().Model(&models).Scan(ctx); err != nil {
		return nil, classify(err)
	}
	return models, nil
}

func (r *baseRepositoryImpl[T]) GetByID(ctx context.Context, id any) (*T, error) {
	return r.GetWithRelations(ctx, id)
}

func (r *baseRepositoryImpl[T]) GetWithRelations(ctx context.Context, id any, relations ...string) (*T, error) {
	model := new(T)
	query := r.db.NewSelect().Model(model).Where("?TableAlias.id = ?", id)
	for _, rel := range relations {
		query = query.Relation(rel)
	}
	if err := query.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err)
	}
	return model, nil
}

func (r *baseRepositoryImpl[T]) Find(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	models := make([]*T, 0)
	query := r.db.NewSelect().Model(&models)
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, classify(err)
	}
	return models, nil
}

func (r *baseRepositoryImpl[T]) FirstOrDefault(ctx context.Context, filter *types.QueryFilter) (*T, error) {
	model := new(T)
	query := r.db.NewSelect().Model(model)
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	if err := query.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err)
	}
	return model, nil
}

func (r *baseRepositoryImpl[T]) Exists(ctx context.Context, filter *types.QueryFilter) (bool, error) {
	query := r.db.NewSelect().Model((*T)(nil))
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	ok, err := query.Exists(ctx)
	if err != nil {
		return false, classify(err)
	}
	return ok, nil
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, filter *types.QueryFilter) (int, error) {
	query := r.db.NewSelect().Model((*T)(nil))
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	n, err := query.Count(ctx)
	if err != nil {
		return 0, classify(err)
	}
	return n, nil
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	var models []*T
	query := r.db.NewSelect().Model(&models)
	if pageRequest.GetFilter() != nil {
		query = query.Where(pageRequest.GetFilter().Schema, pageRequest.GetFilter().Args...)
	}
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	total, err := query.Count(ctx)
	if err != nil || total == 0 {
		return pagination, classify(err)
	}
	err = query.
		Offset(pageRequest.GetOffset()).
		Limit(pageRequest.GetPageSize()).
		Order(pageRequest.GetOrders()...).
		Scan(ctx)
	if err != nil {
		return nil, classify(err)
	}
	pagination.Total = total
	pagination.Items = models
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) Insert(model *T) {
	r.uow.stage(Mutation{
		Kind:   MutationInsert,
		Entity: model,
		exec: func(ctx context.Context, tx bun.Tx) (sql.Result, error) {
			return tx.NewInsert().Model(model).Exec(ctx)
		},
	})
}

// Update writes every column but created_at.
func (r *baseRepositoryImpl[T]) Update(model *T) {
	r.uow.stage(Mutation{
		Kind:   MutationUpdate,
		Entity: model,
		exec: func(ctx context.Context, tx bun.Tx) (sql.Result, error) {
			query := tx.NewUpdate().Model(model).WherePK()
			if isAuditable(model) {
				query = query.ExcludeColumn("created_at")
			}
			return query.Exec(ctx)
		},
	})
}

// Upsert never overwrites created_at on conflict.
func (r *baseRepositoryImpl[T]) Upsert(model *T, fields []string, conflictKeys ...string) {
	columns := append([]string(nil), fields...)
	if isAuditable(model) {
		columns = append(columns, "updated_at")
	}
	r.uow.stage(Mutation{
		Kind:   MutationUpsert,
		Entity: model,
		exec: func(ctx context.Context, tx bun.Tx) (sql.Result, error) {
			return upsert(ctx, tx, model, columns, conflictKeys)
		},
	})
}

func (r *baseRepositoryImpl[T]) Remove(model *T) {
	r.uow.stage(Mutation{
		Kind:   MutationDelete,
		Entity: model,
		exec: func(ctx context.Context, tx bun.Tx) (sql.Result, error) {
			return tx.NewDelete().Model(model).WherePK().Exec(ctx)
		},
	})
}

func (r *baseRepositoryImpl[T]) RemoveRange(models []*T) {
	if len(models) == 0 {
		return
	}
	batch := make([]*T, len(models))
	copy(batch, models)
	r.uow.stage(Mutation{
		Kind:   MutationDelete,
		Entity: batch,
		exec: func(ctx context.Context, tx bun.Tx) (sql.Result, error) {
			return tx.NewDelete().Model(&batch).WherePK().Exec(ctx)
		},
	})
}

func isAuditable(model any) bool {
	_, ok := model.(entity.Auditable)
	return ok
}

// upsert picks the dialect's conflict clause: ON CONFLICT for Postgres and
// SQLite, ON DUPLICATE KEY for MySQL.
func upsert(ctx context.Context, tx bun.Tx, model any, fields, conflictKeys []string) (sql.Result, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("fields cannot be empty")
	}
	features := tx.Dialect().Features()

	switch {
	case features.Has(feature.InsertOnConflict):
		if len(conflictKeys) == 0 {
			conflictKeys = []string{"id"}
		}
		sets := make([]string, len(fields))
		for i, field := range fields {
			sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", field, field)
		}
		return tx.NewInsert().
			Model(model).
			On("CONFLICT (" + strings.Join(conflictKeys, ",") + ") DO UPDATE").
			Set(strings.Join(sets, ", ")).
			Exec(ctx)
	case features.Has(feature.InsertOnDuplicateKey):
		sets := make([]string, len(fields))
		for i, field := range fields {
			sets[i] = fmt.Sprintf("%s = VALUES(%s)", field, field)
		}
		return tx.NewInsert().
			Model(model).
			On("DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")).
			Exec(ctx)
	default:
		return nil, fmt.Errorf("upsert is not supported by dialect %s", tx.Dialect().Name())
	}
}
