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

package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("get list: %w", NotFound("TodoList", 42))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsParentNotFound(err))
	assert.Equal(t, "get list: TodoList with key 42 was not found", err.Error())

	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, "TodoList", nf.Entity)
	assert.Equal(t, 42, nf.Key)
}

func TestParentNotFound(t *testing.T) {
	err := ParentNotFound("TodoList", "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsParentNotFound(err))
	assert.Contains(t, err.Error(), "parent TodoList")
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"title": "is required", "description": "too long"}}
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "validation failed: description: too long; title: is required", err.Error())
	assert.ErrorIs(t, Invalid("name", "is required"), ErrValidation)
}

func TestStoreErrorsKeepCause(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: users.email")
	err := Integrity(cause)
	assert.ErrorIs(t, err, ErrIntegrity)
	assert.ErrorIs(t, err, cause)

	err = Unavailable(cause)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrIntegrity)
}
