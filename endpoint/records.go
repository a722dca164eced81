// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/patrickascher/dynapi/apperror"
	"github.com/patrickascher/dynapi/logger"
	"github.com/patrickascher/dynapi/persistence"
	"github.com/patrickascher/dynapi/query"
	"github.com/patrickascher/dynapi/schema"
	"github.com/patrickascher/dynapi/validation"
)

// Pagination limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page of records.
type Page struct {
	Data       []map[string]interface{} `json:"data"`
	Pagination Pagination               `json:"pagination"`
}

// Pagination of a page.
type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

// Records provides the data operations of the registered tables.
// The descriptor is resolved inside the session, so a table which is deleted concurrently is reported as not found.
type Records struct {
	engine   *persistence.Engine
	registry *Registry
	logger   logger.Manager
}

// NewRecords creates the data operations.
func NewRecords(e *persistence.Engine, r *Registry, l logger.Manager) *Records {
	if l == nil {
		l = logger.New(discard{})
	}
	return &Records{engine: e, registry: r, logger: l}
}

// List returns a page of records, newest first.
func (r *Records) List(table string, limit int, offset int) (Page, error) {
	page := Page{Data: []map[string]interface{}{}, Pagination: Pagination{Limit: limit, Offset: offset}}
	err := r.engine.Read(func(q query.QueryTx) error {
		d, err := r.registry.Descriptor(table)
		if err != nil {
			return err
		}

		row, err := q.Select(d.Table()).Columns(query.DbExpr("COUNT(*)")).First()
		if err != nil {
			return internalErr(err)
		}
		if err = row.Scan(&page.Pagination.Total); err != nil {
			return internalErr(err)
		}

		rows, err := q.Select(d.Table()).Columns(d.Columns()...).Order("-"+schema.ColumnCreatedAt, "-"+schema.ColumnID).Limit(limit).Offset(offset).All()
		if err != nil {
			return internalErr(err)
		}
		defer rows.Close()
		for rows.Next() {
			rec, err := scan(rows, d)
			if err != nil {
				return internalErr(err)
			}
			page.Data = append(page.Data, rec)
		}
		return internalErr(rows.Err())
	})
	if err != nil {
		return Page{}, err
	}

	page.Pagination.HasMore = int64(offset+len(page.Data)) < page.Pagination.Total
	return page, nil
}

// Get returns the record by id.
func (r *Records) Get(table string, id int64) (map[string]interface{}, error) {
	var rec map[string]interface{}
	err := r.engine.Read(func(q query.QueryTx) error {
		d, err := r.registry.Descriptor(table)
		if err != nil {
			return err
		}
		rec, err = record(q, d, id)
		return err
	})
	return rec, err
}

// Create validates the payload and inserts the record.
func (r *Records) Create(table string, payload map[string]interface{}) (map[string]interface{}, error) {
	var rec map[string]interface{}
	err := r.engine.Write(func(tx query.QueryTx) error {
		d, err := r.registry.Descriptor(table)
		if err != nil {
			return err
		}
		values, err := d.Create(payload)
		if err != nil {
			return err
		}

		now := schema.Now()
		values[schema.ColumnCreatedAt] = now
		values[schema.ColumnUpdatedAt] = now

		var id int64
		if _, err = tx.Insert(d.Table()).Values([]map[string]interface{}{values}).LastInsertedID(&id).Exec(); err != nil {
			return internalErr(err)
		}
		rec, err = record(tx, d, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logger.Fields{"table": table, "id": rec[schema.ColumnID]}).Debug("endpoint: record created")
	return rec, nil
}

// Update validates the partial payload and updates the record.
// The updated_at timestamp is always refreshed and strictly increases.
func (r *Records) Update(table string, id int64, payload map[string]interface{}) (map[string]interface{}, error) {
	var rec map[string]interface{}
	err := r.engine.Write(func(tx query.QueryTx) error {
		d, err := r.registry.Descriptor(table)
		if err != nil {
			return err
		}
		values, err := d.Update(payload)
		if err != nil {
			return err
		}

		current, err := record(tx, d, id)
		if err != nil {
			return err
		}
		values[schema.ColumnUpdatedAt] = nextTimestamp(current[schema.ColumnUpdatedAt])

		if _, err = tx.Update(d.Table()).Set(values).Where(schema.ColumnID+" = ?", id).Exec(); err != nil {
			return internalErr(err)
		}
		rec, err = record(tx, d, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logger.Fields{"table": table, "id": id}).Debug("endpoint: record updated")
	return rec, nil
}

// Delete the record.
func (r *Records) Delete(table string, id int64) error {
	err := r.engine.Write(func(tx query.QueryTx) error {
		d, err := r.registry.Descriptor(table)
		if err != nil {
			return err
		}
		res, err := tx.Delete(d.Table()).Where(schema.ColumnID+" = ?", id).Exec()
		if err != nil {
			return internalErr(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return internalErr(err)
		}
		if n == 0 {
			return apperror.NotFound("record", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.WithFields(logger.Fields{"table": table, "id": id}).Debug("endpoint: record deleted")
	return nil
}

// nextTimestamp returns the current timestamp or, if the clock did not advance, the previous one plus a microsecond.
// The canonical encoding has a fixed width, so the strings compare chronologically.
func nextTimestamp(prev interface{}) string {
	now := schema.Now()
	p, ok := prev.(string)
	if !ok || now > p {
		return now
	}
	t, err := time.Parse(schema.TimestampLayout, p)
	if err != nil {
		return now
	}
	return schema.FormatTimestamp(t.Add(time.Microsecond))
}

// record returns the converted record by id.
func record(q query.QueryTx, d *validation.Descriptor, id int64) (map[string]interface{}, error) {
	rows, err := q.Select(d.Table()).Columns(d.Columns()...).Where(schema.ColumnID+" = ?", id).All()
	if err != nil {
		return nil, internalErr(err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, internalErr(err)
		}
		return nil, apperror.NotFound("record", id)
	}
	return scan(rows, d)
}

// scan the current row into the response representation.
func scan(rows *sql.Rows, d *validation.Descriptor) (map[string]interface{}, error) {
	columns := d.Columns()
	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(map[string]interface{}, len(columns))
	for i, c := range columns {
		row[c] = values[i]
	}
	return d.Response(row), nil
}

// internalErr wraps unexpected errors, nil is returned unchanged.
func internalErr(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return fmt.Errorf("endpoint: %w", err)
}
