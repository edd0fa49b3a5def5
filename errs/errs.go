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

// Package errs defines the error taxonomy shared by services and transports.
// Callers test with errors.Is against the sentinel values.
package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrIntegrity   = errors.New("integrity violation")
	ErrUnavailable = errors.New("store unavailable")
)

// NotFoundError reports a missing entity. Parent is set when the missing row
// is the owner named by a child create, e.g. the todo list of a new item.
type NotFoundError struct {
	Entity string
	Key    any
	Parent bool
}

func (e *NotFoundError) Error() string {
	if e.Parent {
		return fmt.Sprintf("parent %s with key %v was not found", e.Entity, e.Key)
	}
	return fmt.Sprintf("%s with key %v was not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NotFound(entity string, key any) error {
	return &NotFoundError{Entity: entity, Key: key}
}

func ParentNotFound(entity string, key any) error {
	return &NotFoundError{Entity: entity, Key: key, Parent: true}
}

// IsParentNotFound reports whether err is a NotFoundError for a missing owner.
func IsParentNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Parent
}

// ValidationError maps field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Integrity wraps a constraint violation raised by the store.
func Integrity(err error) error {
	return fmt.Errorf("%w: %w", ErrIntegrity, err)
}

// Unavailable wraps a failure to reach the store.
func Unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
