// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package endpoint_test

import (
	"testing"

	"github.com/patrickascher/dynapi/apperror"
	"github.com/patrickascher/dynapi/catalog"
	"github.com/patrickascher/dynapi/endpoint"
	"github.com/patrickascher/dynapi/query"
	"github.com/patrickascher/dynapi/schema"
	"github.com/stretchr/testify/assert"
)

// TestNewRegistry tests the nil cache error.
func TestNewRegistry(t *testing.T) {
	asserts := assert.New(t)
	r, err := endpoint.NewRegistry(nil, nil)
	asserts.Nil(r)
	asserts.Equal(endpoint.ErrCache, err)
}

// TestDescriptor tests the mapping of the columns.
func TestDescriptor(t *testing.T) {
	asserts := assert.New(t)

	d := endpoint.Descriptor(catalog.Table{Name: "widgets", Columns: []catalog.Column{
		{Name: "label", DataType: schema.ShortText, IsRequired: true, MaxLength: query.NewNullInt(10, true)},
		{Name: "qty", DataType: schema.Integer},
	}})
	asserts.Equal("widgets", d.Table())
	asserts.Equal([]string{"id", "created_at", "updated_at", "label", "qty"}, d.Columns())
	asserts.Equal("max=10", d.Tag("label"))
	asserts.True(d.Fields()[0].Required)
}

// TestRegistry tests the registration and the observer notifications.
func TestRegistry(t *testing.T) {
	asserts := assert.New(t)
	_, s, reg := newStack(t)

	// the observer was set by the stack.
	_, err := s.CreateTable(catalog.CreateTable{Name: "widgets"})
	asserts.NoError(err)
	_, err = s.CreateTable(catalog.CreateTable{Name: "apples"})
	asserts.NoError(err)
	asserts.Equal([]string{"apples", "widgets"}, reg.Tables())

	d, err := reg.Descriptor("widgets")
	asserts.NoError(err)
	asserts.Equal("widgets", d.Table())
	asserts.Equal(0, len(d.Fields()))

	tbl, err := s.TableByName("widgets")
	asserts.NoError(err)
	_, err = s.CreateColumn(catalog.CreateColumn{TableID: tbl.ID, Name: "label", DataType: schema.ShortText})
	asserts.NoError(err)
	d, err = reg.Descriptor("widgets")
	asserts.NoError(err)
	asserts.Equal(1, len(d.Fields()))

	asserts.NoError(s.DeleteTable(tbl.ID))
	_, err = reg.Descriptor("widgets")
	asserts.True(apperror.Is(err, apperror.KindNotFound))
	asserts.Equal([]string{"apples"}, reg.Tables())

	// unregister of an unknown table is a no-op.
	reg.Unregister("widgets")

	// load rebuilds the registry from the catalog.
	reg.Remove("apples")
	asserts.Equal([]string{}, reg.Tables())
	asserts.NoError(reg.Load(s))
	asserts.Equal([]string{"apples"}, reg.Tables())
}
