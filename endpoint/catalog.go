// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"net/http"
	"strconv"

	"github.com/patrickascher/dynapi/catalog"
	"github.com/patrickascher/dynapi/controller"
)

// catalogController serves the table and column declarations.
type catalogController struct {
	controller.Base
	store *catalog.Store
}

// Tables returns all tables. If the name param is set, only the table with that name is returned.
func (c *catalogController) Tables() {
	if name := param(c, "name"); name != "" {
		t, err := c.store.TableByName(name)
		if err != nil {
			c.Error(err)
			return
		}
		c.Set("data", t)
		return
	}

	tables, err := c.store.Tables()
	if err != nil {
		c.Error(err)
		return
	}
	c.Set("data", tables)
}

// Table returns the table with its columns.
func (c *catalogController) Table() {
	tableID, err := paramID(c, "id", "table")
	if err != nil {
		c.Error(err)
		return
	}
	t, err := c.store.Table(tableID)
	if err != nil {
		c.Error(err)
		return
	}
	c.Set("data", t)
}

// CreateTable declares a table.
func (c *catalogController) CreateTable() {
	b, err := body(c)
	if err != nil {
		c.Error(err)
		return
	}
	var in catalog.CreateTable
	if err = decode(b, &in); err != nil {
		c.Error(err)
		return
	}

	t, err := c.store.CreateTable(in)
	if err != nil {
		c.Error(err)
		return
	}
	c.SetStatus(http.StatusCreated)
	c.Set("data", t)
}

// DeleteTable deletes the declaration and the data of the table.
func (c *catalogController) DeleteTable() {
	tableID, err := paramID(c, "id", "table")
	if err != nil {
		c.Error(err)
		return
	}
	if err = c.store.DeleteTable(tableID); err != nil {
		c.Error(err)
		return
	}
	c.SetStatus(http.StatusNoContent)
}

// TableColumns returns the columns of the table.
func (c *catalogController) TableColumns() {
	tableID, err := paramID(c, "id", "table")
	if err != nil {
		c.Error(err)
		return
	}
	cols, err := c.store.Columns(tableID)
	if err != nil {
		c.Error(err)
		return
	}
	c.Set("data", cols)
}

// Column returns the column by id.
func (c *catalogController) Column() {
	columnID, err := paramID(c, "id", "column")
	if err != nil {
		c.Error(err)
		return
	}
	col, err := c.store.Column(columnID)
	if err != nil {
		c.Error(err)
		return
	}
	c.Set("data", col)
}

// CreateColumn declares a column.
// A boolean or numeric default value is accepted and stored in its text form.
func (c *catalogController) CreateColumn() {
	b, err := body(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err = require(b, "table_id", "name", "data_type"); err != nil {
		c.Error(err)
		return
	}
	if v, ok := b["default_value"].(bool); ok {
		b["default_value"] = strconv.FormatBool(v)
	}

	var in catalog.CreateColumn
	if err = decode(b, &in); err != nil {
		c.Error(err)
		return
	}

	col, err := c.store.CreateColumn(in)
	if err != nil {
		c.Error(err)
		return
	}
	c.SetStatus(http.StatusCreated)
	c.Set("data", col)
}

// UpdateColumn changes the mutable fields of a column.
func (c *catalogController) UpdateColumn() {
	columnID, err := paramID(c, "id", "column")
	if err != nil {
		c.Error(err)
		return
	}
	b, err := body(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err = catalog.CheckColumnUpdate(keys(b)); err != nil {
		c.Error(err)
		return
	}

	var in catalog.UpdateColumn
	if err = decode(b, &in); err != nil {
		c.Error(err)
		return
	}

	col, err := c.store.UpdateColumn(columnID, in)
	if err != nil {
		c.Error(err)
		return
	}
	c.Set("data", col)
}

// DeleteColumn deletes the declaration and drops the physical column.
func (c *catalogController) DeleteColumn() {
	columnID, err := paramID(c, "id", "column")
	if err != nil {
		c.Error(err)
		return
	}
	if err = c.store.DeleteColumn(columnID); err != nil {
		c.Error(err)
		return
	}
	c.SetStatus(http.StatusNoContent)
}
