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
	"database/sql/driver"
	"fmt"

	"github.com/tomoncle/starter/types"
)

// Priority ranks a todo item. The zero value means "not given" and is
// replaced by PriorityMedium on create.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var priorityNames = map[Priority]string{
	PriorityLow:      "Low",
	PriorityMedium:   "Medium",
	PriorityHigh:     "High",
	PriorityCritical: "Critical",
}

var _ types.BaseEnum = PriorityLow

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

func (p Priority) IsValid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p Priority) Number() int    { return int(p) }
func (p Priority) String() string { return p.Name() }
func (p Priority) Desc() string   { return p.Name() + " priority" }
func (p Priority) Name() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return types.IllegalName
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(p.Name()), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	v, err := types.ParseEnum(string(text), Priorities()...)
	if err != nil {
		return fmt.Errorf("priority: %w", err)
	}
	*p = v
	return nil
}

func (p Priority) Value() (driver.Value, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return p.Name(), nil
}

func (p *Priority) Scan(src interface{}) error {
	return scanEnum(src, p, Priorities())
}

// AddressType classifies a customer address.
type AddressType int

const (
	AddressBilling AddressType = iota + 1
	AddressShipping
	AddressMailing
)

var addressTypeNames = map[AddressType]string{
	AddressBilling:  "Billing",
	AddressShipping: "Shipping",
	AddressMailing:  "Mailing",
}

var _ types.BaseEnum = AddressBilling

func AddressTypes() []AddressType {
	return []AddressType{AddressBilling, AddressShipping, AddressMailing}
}

func (a AddressType) IsValid() bool {
	_, ok := addressTypeNames[a]
	return ok
}

func (a AddressType) Number() int    { return int(a) }
func (a AddressType) String() string { return a.Name() }
func (a AddressType) Desc() string   { return a.Name() + " address" }
func (a AddressType) Name() string {
	if name, ok := addressTypeNames[a]; ok {
		return name
	}
	return types.IllegalName
}

func (a AddressType) MarshalText() ([]byte, error) {
	if !a.IsValid() {
		return nil, fmt.Errorf("invalid address type %d", int(a))
	}
	return []byte(a.Name()), nil
}

func (a *AddressType) UnmarshalText(text []byte) error {
	v, err := types.ParseEnum(string(text), AddressTypes()...)
	if err != nil {
		return fmt.Errorf("address type: %w", err)
	}
	*a = v
	return nil
}

func (a AddressType) Value() (driver.Value, error) {
	if !a.IsValid() {
		return nil, fmt.Errorf("invalid address type %d", int(a))
	}
	return a.Name(), nil
}

func (a *AddressType) Scan(src interface{}) error {
	return scanEnum(src, a, AddressTypes())
}

// scanEnum accepts the stored name, or a legacy numeric value.
func scanEnum[E interface {
	~int
	types.BaseEnum
}](src interface{}, dst *E, values []E) error {
	switch v := src.(type) {
	case string:
		e, err := types.ParseEnum(v, values...)
		if err != nil {
			return err
		}
		*dst = e
	case []byte:
		e, err := types.ParseEnum(string(v), values...)
		if err != nil {
			return err
		}
		*dst = e
	case int64:
		*dst = E(v)
	case nil:
		var zero E
		*dst = zero
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}
	return nil
}
