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

import "time"

// Auditable is implemented by every persisted entity. The unit of work stamps
// the timestamps through it at commit time.
type Auditable interface {
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
	SetCreatedAt(time.Time)
	SetUpdatedAt(time.Time)
}

// Audit carries the creation and modification timestamps shared by all
// tables. Embed it by value.
type Audit struct {
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

func (a *Audit) GetCreatedAt() time.Time  { return a.CreatedAt }
func (a *Audit) GetUpdatedAt() time.Time  { return a.UpdatedAt }
func (a *Audit) SetCreatedAt(t time.Time) { a.CreatedAt = t }
func (a *Audit) SetUpdatedAt(t time.Time) { a.UpdatedAt = t }

// Touch stamps v if it is Auditable and reports whether it did. New entities
// get both timestamps set to now. Existing ones only move UpdatedAt, and
// never backwards.
func Touch(v any, now time.Time, isNew bool) bool {
	a, ok := v.(Auditable)
	if !ok {
		return false
	}
	if isNew {
		a.SetCreatedAt(now)
		a.SetUpdatedAt(now)
		return true
	}
	if prev := a.GetUpdatedAt(); now.Before(prev) {
		now = prev
	}
	a.SetUpdatedAt(now)
	return true
}
