// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"math"
	"net/http"

	"github.com/patrickascher/dynapi/controller"
)

// dataController serves the data surface of every registered table.
type dataController struct {
	controller.Base
	registry *Registry
	records  *Records
}

// table returns the requested table name. A NotFound error is rendered if it is not registered.
func (c *dataController) table() (string, bool) {
	name := param(c, "table")
	if _, err := c.registry.Descriptor(name); err != nil {
		c.Error(err)
		return "", false
	}
	return name, true
}

// List records.
func (c *dataController) List() {
	table, ok := c.table()
	if !ok {
		return
	}
	limit, err := bounded(c, "limit", DefaultLimit, 1, MaxLimit, MsgLimit)
	if err != nil {
		c.Error(err)
		return
	}
	offset, err := bounded(c, "offset", 0, 0, math.MaxInt32, MsgOffset)
	if err != nil {
		c.Error(err)
		return
	}

	page, err := c.records.List(table, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}
	c.Set("data", page.Data)
	c.Set("pagination", page.Pagination)
}

// Get a record by id.
func (c *dataController) Get() {
	table, ok := c.table()
	if !ok {
		return
	}
	recordID, err := paramID(c, "id", "record")
	if err != nil {
		c.Error(err)
		return
	}

	rec, err := c.records.Get(table, recordID)
	if err != nil {
		c.Error(err)
		return
	}
	c.Set("data", rec)
}

// Create a record.
func (c *dataController) Create() {
	table, ok := c.table()
	if !ok {
		return
	}
	b, err := body(c)
	if err != nil {
		c.Error(err)
		return
	}

	rec, err := c.records.Create(table, b)
	if err != nil {
		c.Error(err)
		return
	}
	c.SetStatus(http.StatusCreated)
	c.Set("data", rec)
}

// Update a record partially.
func (c *dataController) Update() {
	table, ok := c.table()
	if !ok {
		return
	}
	recordID, err := paramID(c, "id", "record")
	if err != nil {
		c.Error(err)
		return
	}
	b, err := body(c)
	if err != nil {
		c.Error(err)
		return
	}

	rec, err := c.records.Update(table, recordID, b)
	if err != nil {
		c.Error(err)
		return
	}
	c.Set("data", rec)
}

// Delete a record.
func (c *dataController) Delete() {
	table, ok := c.table()
	if !ok {
		return
	}
	recordID, err := paramID(c, "id", "record")
	if err != nil {
		c.Error(err)
		return
	}

	if err = c.records.Delete(table, recordID); err != nil {
		c.Error(err)
		return
	}
	c.SetStatus(http.StatusNoContent)
}
