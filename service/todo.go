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

package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/starter/entity"
	"github.com/tomoncle/starter/errs"
	"github.com/tomoncle/starter/repository"
	"github.com/tomoncle/starter/validation"
)

type TodoListService interface {
	// GetAll returns every list with its items, oldest first.
	GetAll(ctx context.Context) ([]*entity.TodoList, error)

	// GetByID returns the list with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.TodoList, error)

	Create(ctx context.Context, dto TodoListForCreation) (*entity.TodoList, error)

	Update(ctx context.Context, id uuid.UUID, dto TodoListForUpdate) error

	// Delete removes the list and, by cascade, its items.
	Delete(ctx context.Context, id uuid.UUID) error
}

type TodoItemService interface {
	GetByList(ctx context.Context, listID uuid.UUID) ([]*entity.TodoItem, error)

	GetByID(ctx context.Context, id uuid.UUID) (*entity.TodoItem, error)

	// Create fails with a parent NotFoundError when the list does not exist.
	Create(ctx context.Context, dto TodoItemForCreation) (*entity.TodoItem, error)

	Update(ctx context.Context, id uuid.UUID, dto TodoItemForUpdate) error

	// Complete marks the item done and notifies. Completing a completed item
	// writes nothing and does not notify.
	Complete(ctx context.Context, id uuid.UUID) error

	Delete(ctx context.Context, id uuid.UUID) error
}

type todoListService struct {
	repos *repository.Provider
}

func (s *todoListService) GetAll(ctx context.Context) ([]*entity.TodoList, error) {
	return s.repos.New().TodoLists().GetAllWithItems(ctx)
}

func (s *todoListService) GetByID(ctx context.Context, id uuid.UUID) (*entity.TodoList, error) {
	list, err := s.repos.New().TodoLists().GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, errs.NotFound(entityTodoList, id)
	}
	return list, nil
}

func (s *todoListService) Create(ctx context.Context, dto TodoListForCreation) (*entity.TodoList, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	m := s.repos.New()
	list := &entity.TodoList{
		ID:          uuid.New(),
		Name:        dto.Name,
		Description: dto.Description,
		Items:       []*entity.TodoItem{},
	}
	m.TodoLists().Insert(list)
	if err := commit(ctx, m, logrus.Fields{"list_id": list.ID}, "created todo list"); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *todoListService) Update(ctx context.Context, id uuid.UUID, dto TodoListForUpdate) error {
	if err := validation.Struct(dto); err != nil {
		return err
	}
	m := s.repos.New()
	list, err := load[entity.TodoList](ctx, m.TodoLists(), entityTodoList, id)
	if err != nil {
		return err
	}
	list.Name = dto.Name
	list.Description = dto.Description
	m.TodoLists().Update(list)
	return commit(ctx, m, logrus.Fields{"list_id": id}, "updated todo list")
}

func (s *todoListService) Delete(ctx context.Context, id uuid.UUID) error {
	m := s.repos.New()
	list, err := load[entity.TodoList](ctx, m.TodoLists(), entityTodoList, id)
	if err != nil {
		return err
	}
	m.TodoLists().Remove(list)
	return commit(ctx, m, logrus.Fields{"list_id": id}, "deleted todo list")
}

type todoItemService struct {
	repos    *repository.Provider
	notifier Notifier
}

func (s *todoItemService) GetByList(ctx context.Context, listID uuid.UUID) ([]*entity.TodoItem, error) {
	return s.repos.New().TodoItems().GetByListID(ctx, listID)
}

func (s *todoItemService) GetByID(ctx context.Context, id uuid.UUID) (*entity.TodoItem, error) {
	return load[entity.TodoItem](ctx, s.repos.New().TodoItems(), entityTodoItem, id)
}

func (s *todoItemService) Create(ctx context.Context, dto TodoItemForCreation) (*entity.TodoItem, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	m := s.repos.New()
	if err := requireParent[entity.TodoList](ctx, m.TodoLists(), entityTodoList, dto.TodoListID); err != nil {
		return nil, err
	}
	item := &entity.TodoItem{
		ID:          uuid.New(),
		Title:       dto.Title,
		Description: dto.Description,
		DueDate:     dto.DueDate,
		Priority:    priorityOrDefault(dto.Priority),
		TodoListID:  dto.TodoListID,
	}
	m.TodoItems().Insert(item)
	fields := logrus.Fields{"item_id": item.ID, "list_id": item.TodoListID}
	if err := commit(ctx, m, fields, "created todo item"); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *todoItemService) Update(ctx context.Context, id uuid.UUID, dto TodoItemForUpdate) error {
	if err := validation.Struct(dto); err != nil {
		return err
	}
	m := s.repos.New()
	item, err := load[entity.TodoItem](ctx, m.TodoItems(), entityTodoItem, id)
	if err != nil {
		return err
	}
	item.Title = dto.Title
	item.Description = dto.Description
	item.DueDate = dto.DueDate
	item.Priority = priorityOrDefault(dto.Priority)
	m.TodoItems().Update(item)
	return commit(ctx, m, logrus.Fields{"item_id": id}, "updated todo item")
}

func (s *todoItemService) Complete(ctx context.Context, id uuid.UUID) error {
	m := s.repos.New()
	item, err := load[entity.TodoItem](ctx, m.TodoItems(), entityTodoItem, id)
	if err != nil {
		return err
	}
	if item.IsCompleted {
		return nil
	}
	item.MarkComplete()
	m.TodoItems().Update(item)
	if err := commit(ctx, m, logrus.Fields{"item_id": id}, "completed todo item"); err != nil {
		return err
	}
	return s.notifier.NotifyCompleted(ctx, item)
}

func (s *todoItemService) Delete(ctx context.Context, id uuid.UUID) error {
	m := s.repos.New()
	item, err := load[entity.TodoItem](ctx, m.TodoItems(), entityTodoItem, id)
	if err != nil {
		return err
	}
	m.TodoItems().Remove(item)
	return commit(ctx, m, logrus.Fields{"item_id": id}, "deleted todo item")
}

func priorityOrDefault(p entity.Priority) entity.Priority {
	if p == 0 {
		return entity.PriorityMedium
	}
	return p
}
