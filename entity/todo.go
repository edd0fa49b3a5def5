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

package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type TodoList struct {
	bun.BaseModel `bun:"table:todo_lists,alias:tl"`

	ID          uuid.UUID   `bun:"id,pk,type:varchar(36)" json:"id"`
	Name        string      `bun:"name,notnull,type:varchar(150)" json:"name"`
	Description string      `bun:"description,type:varchar(500)" json:"description,omitempty"`
	Items       []*TodoItem `bun:"rel:has-many,join:id=todo_list_id" json:"items"`
	Audit
}

type TodoItem struct {
	bun.BaseModel `bun:"table:todo_items,alias:ti"`

	ID          uuid.UUID  `bun:"id,pk,type:varchar(36)" json:"id"`
	Title       string     `bun:"title,notnull,type:varchar(200)" json:"title"`
	Description string     `bun:"description,type:varchar(2000)" json:"description,omitempty"`
	IsCompleted bool       `bun:"is_completed,notnull" json:"isCompleted"`
	DueDate     *time.Time `bun:"due_date" json:"dueDate,omitempty"`
	Priority    Priority   `bun:"priority,notnull,type:varchar(16)" json:"priority"`
	TodoListID  uuid.UUID  `bun:"todo_list_id,notnull,type:varchar(36)" json:"todoListId"`
	Audit
}

// MarkComplete flags the item as done. Calling it again is a no-op.
func (t *TodoItem) MarkComplete() {
	t.IsCompleted = true
}
