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

package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/tomoncle/starter/entity"
	"github.com/tomoncle/starter/service"
)

// Commands executes todo commands and publishes the resulting events.
type Commands struct {
	items     service.TodoItemService
	publisher Publisher
}

func NewCommands(items service.TodoItemService, publisher Publisher) *Commands {
	return &Commands{items: items, publisher: publisher}
}

// Handle routes a message by type. Unknown types are an error so they stay
// pending for inspection.
func (c *Commands) Handle(ctx context.Context, msg Message) error {
	switch msg.Type {
	case TypeCreateTodoItem:
		var cmd CreateTodoItem
		if err := msg.Decode(&cmd); err != nil {
			return err
		}
		return c.CreateTodoItem(ctx, cmd)
	default:
		return fmt.Errorf("unknown command type %q", msg.Type)
	}
}

// CreateTodoItem creates the item and, once it is committed, publishes
// TodoItemCreated. Nothing is published when the create fails.
func (c *Commands) CreateTodoItem(ctx context.Context, cmd CreateTodoItem) error {
	item, err := c.items.Create(ctx, cmd.TodoItemForCreation)
	if err != nil {
		return err
	}
	return c.publisher.Publish(ctx, TopicEvents, TodoItemCreated{
		ItemID:     item.ID,
		TodoListID: item.TodoListID,
		Title:      item.Title,
		CreatedAt:  item.CreatedAt,
	})
}

// BusNotifier publishes TodoItemCompleted for every completed item.
type BusNotifier struct {
	publisher Publisher
	now       func() time.Time
}

var _ service.Notifier = (*BusNotifier)(nil)

func NewBusNotifier(publisher Publisher) *BusNotifier {
	return &BusNotifier{publisher: publisher, now: time.Now}
}

func (n *BusNotifier) NotifyCompleted(ctx context.Context, item *entity.TodoItem) error {
	completedAt := item.UpdatedAt
	if completedAt.IsZero() {
		completedAt = n.now().UTC()
	}
	return n.publisher.Publish(ctx, TopicEvents, TodoItemCompleted{
		ItemID:      item.ID,
		TodoListID:  item.TodoListID,
		CompletedAt: completedAt,
	})
}
