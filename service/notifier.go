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

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/starter/entity"
)

// Notifier is told about a todo item after its completion is committed.
// Errors are returned to the caller of Complete; the commit stands.
type Notifier interface {
	NotifyCompleted(ctx context.Context, item *entity.TodoItem) error
}

// LogNotifier only writes a log line.
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyCompleted(_ context.Context, item *entity.TodoItem) error {
	n.logger.WithFields(logrus.Fields{
		"item_id": item.ID,
		"list_id": item.TodoListID,
	}).Info("todo item completed")
	return nil
}
