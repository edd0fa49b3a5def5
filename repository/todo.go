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

	"github.com/google/uuid"
	"github.com/tomoncle/starter/entity"
	"github.com/tomoncle/starter/types"
)

// TodoListRepository adds eager loading of items.
type TodoListRepository interface {
	Repository[entity.TodoList]
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.TodoList, error)
	GetAllWithItems(ctx context.Context) ([]*entity.TodoList, error)
}

type TodoItemRepository interface {
	Repository[entity.TodoItem]
	GetByListID(ctx context.Context, listID uuid.UUID) ([]*entity.TodoItem, error)
}

type todoListRepository struct {
	Repository[entity.TodoList]
}

func (r *todoListRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.TodoList, error) {
	return r.GetWithRelations(ctx, id, "Items")
}

func (r *todoListRepository) GetAllWithItems(ctx context.Context) ([]*entity.TodoList, error) {
	lists := make([]*entity.TodoList, 0)
	err := r.NewSelect().
		Model(&lists).
		Relation("Items").
		OrderExpr("?TableAlias.created_at ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, classify(err)
	}
	return lists, nil
}

type todoItemRepository struct {
	Repository[entity.TodoItem]
}

func (r *todoItemRepository) GetByListID(ctx context.Context, listID uuid.UUID) ([]*entity.TodoItem, error) {
	return r.Find(ctx, types.Eq("todo_list_id", listID))
}
