// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query_test

import (
	"encoding/json"
	"testing"

	"github.com/patrickascher/dynapi/query"
	"github.com/stretchr/testify/assert"
)

// TestNullString tests the constructor and the JSON encoding.
func TestNullString(t *testing.T) {
	asserts := assert.New(t)

	test := query.NewNullString("test", true)
	asserts.Equal("test", test.String)
	asserts.True(test.Valid)

	b, err := json.Marshal(test)
	asserts.NoError(err)
	asserts.Equal(`"test"`, string(b))

	b, err = json.Marshal(query.NewNullString("", false))
	asserts.NoError(err)
	asserts.Equal("null", string(b))
	asserts.Nil(query.NewNullString("", false).Ptr())

	var s query.NullString
	asserts.NoError(json.Unmarshal([]byte(`""`), &s))
	asserts.True(s.Valid)
	asserts.NoError(json.Unmarshal([]byte(`null`), &s))
	asserts.False(s.Valid)
	asserts.Error(json.Unmarshal([]byte(`1`), &s))
}

// TestNullInt tests the constructor, scanner and the JSON encoding.
func TestNullInt(t *testing.T) {
	asserts := assert.New(t)

	test := query.NewNullInt(1, true)
	asserts.Equal(int64(1), test.Int64)
	asserts.True(test.Valid)

	b, err := json.Marshal(struct{ I query.NullInt }{query.NewNullInt(0, false)})
	asserts.NoError(err)
	asserts.Equal(`{"I":null}`, string(b))

	var i query.NullInt
	asserts.NoError(i.Scan(int64(255)))
	asserts.Equal(query.NewNullInt(255, true), i)
	v, err := i.Value()
	asserts.NoError(err)
	asserts.Equal(int64(255), v)

	asserts.NoError(json.Unmarshal([]byte(`0`), &i))
	asserts.True(i.Valid)
	asserts.Error(json.Unmarshal([]byte(`"a"`), &i))
}
