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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAndSkipsNilFilters(t *testing.T) {
	f := And(Eq("customer_id", 7), nil, NewQueryFilter("is_default = ?", true))
	require.NotNil(t, f)
	assert.Equal(t, "(customer_id = ?) AND (is_default = ?)", f.Schema)
	assert.Equal(t, []interface{}{7, true}, f.Args)

	assert.Nil(t, And(nil, nil))
}

func TestPageRequestDefaults(t *testing.T) {
	p := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, p.GetPage())
	assert.Equal(t, 10, p.GetPageSize())
	assert.Equal(t, 0, p.GetOffset())

	p = NewDefaultPageRequest(3, 25)
	assert.Equal(t, 50, p.GetOffset())

	pg := NewDefaultPagination[struct{}](1, 10)
	pg.Total = 21
	assert.Equal(t, 3, pg.Pages())
}

func TestJsonObjectScan(t *testing.T) {
	var j JsonObject
	require.NoError(t, j.Scan(`{"late_fee":5}`))
	assert.Equal(t, float64(5), j["late_fee"])

	require.NoError(t, j.Scan([]byte(`{"a":"b"}`)))
	assert.Equal(t, "b", j["a"])

	require.NoError(t, j.Scan(nil))
	assert.Nil(t, j)

	assert.Error(t, j.Scan(42))

	v, err := JsonObject{"x": 1}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, v)
}

type color int

func (c color) IsValid() bool  { return c >= 0 }
func (c color) Number() int    { return int(c) }
func (c color) String() string { return c.Name() }
func (c color) Desc() string   { return c.Name() }
func (c color) Name() string   { return [...]string{"Red", "Green"}[c] }

func TestParseEnum(t *testing.T) {
	c, err := ParseEnum[color](" green", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, color(1), c)

	_, err = ParseEnum[color]("blue", 0, 1)
	assert.Error(t, err)
}
