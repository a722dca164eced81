// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package condition_test

import (
	"fmt"
	"testing"

	"github.com/patrickascher/dynapi/query/condition"
	"github.com/stretchr/testify/assert"
)

// TestCondition_Order tests:
// - single order set.
// - checks if order is getting overwritten.
// - multiple arguments.
// - shortcut for DESC.
// - if manually added asc,desc are getting uppercased.
// - error if no value is set.
func TestCondition_Order(t *testing.T) {
	asserts := assert.New(t)
	c := condition.New()

	c.SetOrder("A")
	asserts.Equal([]string{"A ASC"}, c.Order())

	// ok: order should be overwritten and only used once.
	c.SetOrder("B")
	asserts.Equal([]string{"B ASC"}, c.Order())

	c.SetOrder("A", "-B")
	asserts.Equal([]string{"A ASC", "B DESC"}, c.Order())

	c.SetOrder("A asc", "B desc")
	asserts.Equal([]string{"A ASC", "B DESC"}, c.Order())

	// error: no value set
	c.SetOrder()
	asserts.Nil(c.Order())
	asserts.Equal(fmt.Sprintf(condition.ErrValue, "SetOrder"), c.Error().Error())
}

// TestCondition_LimitOffset tests the setter and the render rule, that OFFSET needs a LIMIT.
func TestCondition_LimitOffset(t *testing.T) {
	asserts := assert.New(t)
	c := condition.New()

	c.SetOffset(10)
	asserts.Equal(10, c.Offset())
	stmt, args, err := c.Render(condition.Placeholder{Char: "?"})
	asserts.NoError(err)
	asserts.Equal("", stmt)
	asserts.Nil(args)

	c.SetLimit(20)
	asserts.Equal(20, c.Limit())
	stmt, _, err = c.Render(condition.Placeholder{Char: "?"})
	asserts.NoError(err)
	asserts.Equal("LIMIT 20 OFFSET 10", stmt)
}

// TestCondition_Where tests:
// - chaining by AND.
// - slice arguments are expanded.
// - []byte is not expanded.
// - numeric placeholders.
// - placeholder mismatch.
func TestCondition_Where(t *testing.T) {
	asserts := assert.New(t)

	c := condition.New()
	c.SetWhere("a = ?", 1)
	c.SetWhere("b IN (?) AND c IN (?)", []int{2, 3}, []string{"x", "y", "z"})
	c.SetWhere("d = ?", []byte("raw"))
	c.SetOrder("-created_at", "-id")
	c.SetLimit(5)

	stmt, args, err := c.Render(condition.Placeholder{Char: "?"})
	asserts.NoError(err)
	asserts.Equal("WHERE a = ? AND b IN (?, ?) AND c IN (?, ?, ?) AND d = ? ORDER BY created_at DESC, id DESC LIMIT 5", stmt)
	asserts.Equal([]interface{}{1, 2, 3, "x", "y", "z", []byte("raw")}, args)

	stmt, _, err = c.Render(condition.Placeholder{Char: "$", Numeric: true})
	asserts.NoError(err)
	asserts.Equal("WHERE a = $1 AND b IN ($2, $3) AND c IN ($4, $5, $6) AND d = $7 ORDER BY created_at DESC, id DESC LIMIT 5", stmt)

	// error: mismatch
	c = condition.New()
	c.SetWhere("a = ? AND b = ?", 1)
	_, _, err = c.Render(condition.Placeholder{Char: "?"})
	asserts.Equal(fmt.Sprintf(condition.ErrPlaceholderMismatch, "a = ? AND b = ?", 2, 1), err.Error())
}

// TestCondition_Reset tests a partial and a complete reset.
func TestCondition_Reset(t *testing.T) {
	asserts := assert.New(t)

	c := condition.New()
	c.SetWhere("a = ?", 1).SetOrder("a").SetLimit(1).SetOffset(2)

	c.Reset(condition.LIMIT, condition.OFFSET)
	asserts.Equal(0, c.Limit())
	asserts.Equal(0, c.Offset())
	if asserts.Equal(1, len(c.Where())) {
		asserts.Equal("a = ?", c.Where()[0].Condition())
		asserts.Equal([]interface{}{1}, c.Where()[0].Arguments())
	}

	c.Reset()
	asserts.Nil(c.Where())
	asserts.Nil(c.Order())
}
