// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package condition provides a sql condition builder for WHERE, ORDER, LIMIT and OFFSET clauses.
// Values are always passed as arguments and rendered as provider placeholders.
package condition

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Error messages.
var (
	ErrValue               = "query: %s was called with no value(s)"
	ErrPlaceholderMismatch = "query: %v placeholder(%d) and arguments(%d) does not fit"
)

// Clause interface.
type Clause interface {
	Arguments() []interface{}
	Condition() string
}

// Condition interface.
type Condition interface {
	SetWhere(condition string, args ...interface{}) Condition
	Where() []Clause
	SetLimit(limit int) Condition
	Limit() int
	SetOffset(offset int) Condition
	Offset() int
	SetOrder(order ...string) Condition
	Order() []string

	Reset(...int)
	Error() error
	Render(b Placeholder) (string, []interface{}, error)
}

// Allowed conditions.
const (
	WHERE = iota + 1
	LIMIT
	ORDER
	OFFSET
)

// clause is a helper struct for WHERE.
type clause struct {
	condition string
	arguments []interface{}
}

// Condition will return the defined condition.
func (c *clause) Condition() string {
	return c.condition
}

// Arguments of the condition.
func (c *clause) Arguments() []interface{} {
	return c.arguments
}

type condition struct {
	where  []Clause
	limit  int
	order  []string
	offset int
	error  error
}

// New creates a new Condition instance.
func New() Condition {
	return &condition{}
}

// Error of the condition.
func (c *condition) Error() error {
	return c.error
}

// SetWhere will create a sql WHERE condition.
// When called multiple times, its getting chained by AND operator.
// Arrays and slices can be passed as argument.
//		c.SetWhere("id = ?",1)
//		c.SetWhere("id IN (?)",[]int{10,11,12})
func (c *condition) SetWhere(condition string, args ...interface{}) Condition {
	condition, args, err := clauseManipulation(condition, args)
	if err != nil {
		c.error = err
	}
	c.where = append(c.where, &clause{condition: condition, arguments: args})
	return c
}

// Where returns the where clause.
func (c *condition) Where() []Clause {
	return c.where
}

// SetLimit for the condition.
func (c *condition) SetLimit(limit int) Condition {
	c.limit = limit
	return c
}

// Limit of the condition.
func (c *condition) Limit() int {
	return c.limit
}

// SetOffset for the condition.
func (c *condition) SetOffset(offset int) Condition {
	c.offset = offset
	return c
}

// Offset of the condition.
func (c *condition) Offset() int {
	return c.offset
}

// SetOrder should only be called once.
// If a column has a `-` prefix, DESC order will get set.
// If its called more often, the last values are set.
func (c *condition) SetOrder(order ...string) Condition {
	c.Reset(ORDER)

	if len(order) == 0 || (len(order) == 1 && order[0] == "") {
		c.error = fmt.Errorf(ErrValue, "SetOrder")
		return c
	}

	rv := make([]string, len(order))
	for k, o := range order {
		o = strings.Replace(o, " asc", " ASC", 1)
		o = strings.Replace(o, " desc", " DESC", 1)
		if strings.HasPrefix(o, "-") {
			o = o[1:] + " DESC"
		} else if !strings.HasSuffix(o, "ASC") && !strings.HasSuffix(o, "DESC") {
			o += " ASC"
		}
		rv[k] = o
	}

	c.order = rv
	return c
}

// Order return the order columns.
func (c *condition) Order() []string {
	return c.order
}

// Reset the complete condition or only single parts.
func (c *condition) Reset(r ...int) {
	if len(r) == 0 {
		r = []int{WHERE, LIMIT, ORDER, OFFSET}
	}

	for _, reset := range r {
		switch reset {
		case WHERE:
			c.where = nil
		case LIMIT:
			c.limit = 0
		case OFFSET:
			c.offset = 0
		case ORDER:
			c.order = nil
		}
	}
}

// Render the condition as sql string and arguments.
// OFFSET is only rendered together with a LIMIT.
func (c *condition) Render(p Placeholder) (string, []interface{}, error) {
	if c.error != nil {
		return "", nil, c.error
	}

	var sql []string
	var args []interface{}

	if len(c.where) > 0 {
		where := make([]string, len(c.where))
		for i, v := range c.where {
			where[i] = v.Condition()
			args = append(args, v.Arguments()...)
		}
		sql = append(sql, "WHERE "+strings.Join(where, " AND "))
	}

	if len(c.order) > 0 {
		sql = append(sql, "ORDER BY "+strings.Join(c.order, ", "))
	}

	if c.limit > 0 {
		sql = append(sql, "LIMIT "+strconv.Itoa(c.limit))
		if c.offset > 0 {
			sql = append(sql, "OFFSET "+strconv.Itoa(c.offset))
		}
	}

	return ReplacePlaceholders(strings.Join(sql, " "), p), args, nil
}

// ReplacePlaceholders will replace the query placeholder with the provider placeholder.
func ReplacePlaceholders(stmt string, p Placeholder) string {
	n := strings.Count(stmt, PLACEHOLDER)
	for i := 1; i <= n; i++ {
		stmt = strings.Replace(stmt, PLACEHOLDER, p.placeholder(), 1)
	}
	return stmt
}

// clauseManipulation is a helper for array or slice arguments.
// Every slice argument is expanded into one placeholder per element.
func clauseManipulation(clause string, args []interface{}) (string, []interface{}, error) {
	clause = strings.TrimSpace(clause)

	if count := strings.Count(clause, PLACEHOLDER); count != len(args) {
		return "", nil, fmt.Errorf(ErrPlaceholderMismatch, clause, count, len(args))
	}

	if len(args) == 0 {
		return clause, nil, nil
	}

	parts := strings.SplitAfter(clause, PLACEHOLDER)
	var rvArgs []interface{}
	for i, arg := range args {
		v := reflect.ValueOf(arg)
		if (v.Kind() == reflect.Array || v.Kind() == reflect.Slice) && v.Type().Elem().Kind() != reflect.Uint8 {
			parts[i] = strings.TrimSuffix(parts[i], PLACEHOLDER) + tmpPlaceholder + strings.Repeat(", "+tmpPlaceholder, v.Len()-1)
			for n := 0; n < v.Len(); n++ {
				rvArgs = append(rvArgs, v.Index(n).Interface())
			}
			continue
		}
		parts[i] = strings.TrimSuffix(parts[i], PLACEHOLDER) + tmpPlaceholder
		rvArgs = append(rvArgs, arg)
	}

	return strings.Replace(strings.Join(parts, ""), tmpPlaceholder, PLACEHOLDER, -1), rvArgs, nil
}
