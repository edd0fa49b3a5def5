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

// Package messaging carries todo commands and events over Redis streams.
// Each topic is one stream; entries hold a "type" and a JSON "payload" field.
package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tomoncle/starter/service"
)

// Topics.
const (
	TopicCommands = "todo.commands"
	TopicEvents   = "todo.events"
)

// Message type names.
const (
	TypeCreateTodoItem    = "CreateTodoItem"
	TypeTodoItemCreated   = "TodoItemCreated"
	TypeTodoItemCompleted = "TodoItemCompleted"
)

// Typed is implemented by every payload published on the bus.
type Typed interface {
	MessageType() string
}

// CreateTodoItem asks the worker to create an item in an existing list.
type CreateTodoItem struct {
	service.TodoItemForCreation
}

func (CreateTodoItem) MessageType() string { return TypeCreateTodoItem }

// TodoItemCreated is published after the item is committed.
type TodoItemCreated struct {
	ItemID     uuid.UUID `json:"itemId"`
	TodoListID uuid.UUID `json:"todoListId"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (TodoItemCreated) MessageType() string { return TypeTodoItemCreated }

type TodoItemCompleted struct {
	ItemID      uuid.UUID `json:"itemId"`
	TodoListID  uuid.UUID `json:"todoListId"`
	CompletedAt time.Time `json:"completedAt"`
}

func (TodoItemCompleted) MessageType() string { return TypeTodoItemCompleted }

// Message is one stream entry as delivered to a handler.
type Message struct {
	ID      string
	Type    string
	Payload []byte
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("decode %s %s: %w", m.Type, m.ID, err)
	}
	return nil
}

func encode(msg Typed) (map[string]any, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.MessageType(), err)
	}
	return map[string]any{"type": msg.MessageType(), "payload": string(payload)}, nil
}

func decode(id string, values map[string]any) (Message, error) {
	typ, _ := values["type"].(string)
	payload, _ := values["payload"].(string)
	if typ == "" {
		return Message{}, fmt.Errorf("stream entry %s has no type", id)
	}
	return Message{ID: id, Type: typ, Payload: []byte(payload)}, nil
}
