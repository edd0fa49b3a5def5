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
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/starter/database/dbtest"
	"github.com/tomoncle/starter/entity"
	"github.com/tomoncle/starter/errs"
	"github.com/tomoncle/starter/repository"
	"github.com/tomoncle/starter/service"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, msg Typed) error {
	return m.Called(ctx, topic, msg).Error(0)
}

func newServices(t *testing.T, notifier service.Notifier) *service.Manager {
	return service.NewManager(repository.NewProvider(dbtest.New(t)), notifier)
}

func commandMessage(t *testing.T, cmd CreateTodoItem) Message {
	values, err := encode(cmd)
	require.NoError(t, err)
	msg, err := decode("1-0", values)
	require.NoError(t, err)
	return msg
}

func TestEnvelopeRoundTrip(t *testing.T) {
	listID := uuid.New()
	msg := commandMessage(t, CreateTodoItem{service.TodoItemForCreation{
		Title: "Milk", TodoListID: listID, Priority: entity.PriorityHigh,
	}})
	assert.Equal(t, TypeCreateTodoItem, msg.Type)
	assert.Equal(t, "1-0", msg.ID)

	var cmd CreateTodoItem
	require.NoError(t, msg.Decode(&cmd))
	assert.Equal(t, "Milk", cmd.Title)
	assert.Equal(t, listID, cmd.TodoListID)
	assert.Equal(t, entity.PriorityHigh, cmd.Priority)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &raw))
	assert.Equal(t, "High", raw["priority"])

	_, err := decode("2-0", map[string]any{"payload": "{}"})
	assert.Error(t, err)
}

func TestCreateTodoItemPublishesAfterCommit(t *testing.T) {
	services := newServices(t, nil)
	ctx := context.Background()
	list, err := services.TodoLists().Create(ctx, service.TodoListForCreation{Name: "Groceries"})
	require.NoError(t, err)

	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, TopicEvents, mock.MatchedBy(func(e TodoItemCreated) bool {
		return e.TodoListID == list.ID && e.Title == "Milk" && !e.CreatedAt.IsZero()
	})).Return(nil).Once()

	commands := NewCommands(services.TodoItems(), publisher)
	msg := commandMessage(t, CreateTodoItem{service.TodoItemForCreation{Title: "Milk", TodoListID: list.ID}})
	require.NoError(t, commands.Handle(ctx, msg))
	publisher.AssertExpectations(t)

	items, err := services.TodoItems().GetByList(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Title)
}

func TestCreateTodoItemFailureIsNotPublished(t *testing.T) {
	services := newServices(t, nil)
	publisher := &mockPublisher{}
	commands := NewCommands(services.TodoItems(), publisher)

	err := commands.CreateTodoItem(context.Background(), CreateTodoItem{service.TodoItemForCreation{Title: "Milk", TodoListID: uuid.New()}})
	assert.True(t, errs.IsParentNotFound(err))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)

	err = commands.Handle(context.Background(), Message{ID: "3-0", Type: "Unknown"})
	assert.Error(t, err)
}

func TestBusNotifierPublishesCompletion(t *testing.T) {
	publisher := &mockPublisher{}
	services := newServices(t, NewBusNotifier(publisher))
	ctx := context.Background()

	list, err := services.TodoLists().Create(ctx, service.TodoListForCreation{Name: "Chores"})
	require.NoError(t, err)
	item, err := services.TodoItems().Create(ctx, service.TodoItemForCreation{Title: "Dishes", TodoListID: list.ID})
	require.NoError(t, err)

	publisher.On("Publish", mock.Anything, TopicEvents, mock.MatchedBy(func(e TodoItemCompleted) bool {
		return e.ItemID == item.ID && e.TodoListID == list.ID && !e.CompletedAt.IsZero()
	})).Return(nil).Once()
	require.NoError(t, services.TodoItems().Complete(ctx, item.ID))
	publisher.AssertExpectations(t)

	failing := &mockPublisher{}
	failing.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
	err = NewBusNotifier(failing).NotifyCompleted(ctx, item)
	assert.EqualError(t, err, "redis down")
}

func TestDispatchLogsFailedAckOfMalformedEntry(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	bus := NewRedisBus(client)
	logger, hook := test.NewNullLogger()

	called := false
	bus.dispatch(context.Background(), logrus.NewEntry(logger), "todo.commands", "workers",
		redis.XMessage{ID: "1-0", Values: map[string]any{"payload": "{}"}},
		func(context.Context, Message) error { called = true; return nil })

	assert.False(t, called, "malformed entries never reach the handler")
	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, "dropping stream entry", hook.AllEntries()[0].Message)
	last := hook.LastEntry()
	assert.Equal(t, "ack failed", last.Message)
	assert.Equal(t, logrus.WarnLevel, last.Level)
	assert.Equal(t, "1-0", last.Data["id"])
	assert.NotNil(t, last.Data[logrus.ErrorKey])
}
