// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/patrickascher/dynapi/apperror"
	"github.com/patrickascher/dynapi/logger"
	"github.com/patrickascher/dynapi/query"
	"github.com/patrickascher/dynapi/schema"
	"github.com/patrickascher/dynapi/slicer"
)

// Messages of the column operations.
var (
	MsgImmutable   = "%s can not be changed, the column must be deleted and created again"
	MsgNoChange    = "at least one of display_name, is_required, max_length or position must be given"
	MsgPosition    = "must be zero or positive"
	MsgMaxLengthN  = "must be a positive number"
	MsgDisplayName = "display_name must not be empty"
)

// immutable column fields, changing them would require a physical migration.
var immutable = []string{"table_id", "name", "data_type", "is_unique", "default_value"}

// Column declaration.
type Column struct {
	ID           int64            `json:"id"`
	TableID      int64            `json:"table_id"`
	Name         string           `json:"name"`
	DisplayName  string           `json:"display_name"`
	DataType     schema.Type      `json:"data_type"`
	IsRequired   bool             `json:"is_required"`
	IsUnique     bool             `json:"is_unique"`
	DefaultValue query.NullString `json:"default_value"`
	MaxLength    query.NullInt    `json:"max_length"`
	Position     int64            `json:"position"`
	CreatedAt    string           `json:"created_at"`
}

// Spec returns the physical column description.
func (c Column) Spec() schema.ColumnSpec {
	return schema.ColumnSpec{
		Name:      c.Name,
		Type:      c.DataType,
		Required:  c.IsRequired,
		Unique:    c.IsUnique,
		Default:   c.DefaultValue.Ptr(),
		MaxLength: int(c.MaxLength.Int64),
	}
}

// CreateColumn is the input of Store.CreateColumn.
// If Position is nil, the column is appended.
type CreateColumn struct {
	TableID      int64       `mapstructure:"table_id"`
	Name         string      `mapstructure:"name"`
	DisplayName  string      `mapstructure:"display_name"`
	DataType     schema.Type `mapstructure:"data_type"`
	IsRequired   bool        `mapstructure:"is_required"`
	IsUnique     bool        `mapstructure:"is_unique"`
	DefaultValue *string     `mapstructure:"default_value"`
	MaxLength    *int64      `mapstructure:"max_length"`
	Position     *int64      `mapstructure:"position"`
}

// UpdateColumn is the input of Store.UpdateColumn.
// Only the given fields are changed.
type UpdateColumn struct {
	DisplayName *string `mapstructure:"display_name"`
	IsRequired  *bool   `mapstructure:"is_required"`
	MaxLength   *int64  `mapstructure:"max_length"`
	Position    *int64  `mapstructure:"position"`
}

// CheckColumnUpdate returns a policy error if one of the fields can not be changed.
func CheckColumnUpdate(fields []string) error {
	sort.Strings(fields)
	for _, f := range fields {
		if _, ok := slicer.StringExists(immutable, f); ok {
			return apperror.Policy(fmt.Sprintf(MsgImmutable, f))
		}
	}
	return nil
}

// Columns returns the columns of the table, ordered by position and id.
func (s *Store) Columns(tableID int64) ([]Column, error) {
	var cols []Column
	err := s.engine.Read(func(q query.QueryTx) error {
		if _, err := s.tableBy(q, "id = ?", tableID); err != nil {
			return err
		}
		var err error
		cols, err = selectColumns(q, "table_id = ?", tableID)
		return err
	})
	if cols == nil && err == nil {
		cols = []Column{}
	}
	return cols, err
}

// Column returns the column.
func (s *Store) Column(id int64) (Column, error) {
	var c Column
	err := s.engine.Read(func(q query.QueryTx) error {
		var err error
		c, err = columnBy(q, id)
		return err
	})
	return c, err
}

// CreateColumn declares a column and adds the physical column.
// All checks run before any catalog row is written.
func (s *Store) CreateColumn(in CreateColumn) (Column, error) {
	if err := ValidateColumnName(in.Name); err != nil {
		return Column{}, err
	}

	c := Column{
		TableID:     in.TableID,
		Name:        in.Name,
		DisplayName: strings.TrimSpace(in.DisplayName),
		DataType:    in.DataType,
		IsRequired:  in.IsRequired,
		IsUnique:    in.IsUnique,
		CreatedAt:   schema.Now(),
	}
	if c.DisplayName == "" {
		c.DisplayName = DisplayName(c.Name)
	}
	if in.DefaultValue != nil {
		c.DefaultValue = query.NewNullString(*in.DefaultValue, true)
	}
	if in.MaxLength != nil {
		if *in.MaxLength <= 0 {
			return Column{}, apperror.Validation(schema.MsgMaxLength, apperror.Detail{Field: "max_length", Message: MsgMaxLengthN})
		}
		c.MaxLength = query.NewNullInt(*in.MaxLength, true)
	}
	if in.Position != nil {
		if *in.Position < 0 {
			return Column{}, apperror.Validation(MsgPosition, apperror.Detail{Field: "position", Message: MsgPosition})
		}
		c.Position = *in.Position
	}
	if err := s.mutator.CheckColumn(c.Spec()); err != nil {
		return Column{}, err
	}

	var t Table
	err := s.engine.Write(func(tx query.QueryTx) error {
		var err error
		t, err = s.tableBy(tx, "id = ?", c.TableID)
		if err != nil {
			return err
		}
		for _, existing := range t.Columns {
			if existing.Name == c.Name {
				return apperror.Duplicate("column", c.Name)
			}
		}
		if in.Position == nil {
			c.Position = int64(len(t.Columns))
		}

		err = newSaga("create column "+t.Name+"."+c.Name, s.logger).
			Step("insert catalog row", func() error {
				return insertColumn(tx, &c, false)
			}, func() error {
				_, err := tx.Delete(TableColumns).Where("id = ?", c.ID).Exec()
				return err
			}).
			Step("add physical column", func() error {
				return s.mutator.AddColumn(tx, t.Name, c.Spec())
			}, nil).
			Step("touch table", func() error {
				return touchTable(tx, t.ID)
			}, nil).
			Run()
		if err != nil {
			return err
		}

		t, err = s.tableBy(tx, "id = ?", t.ID)
		return err
	}, func() {
		s.refresh(t)
	})
	if err != nil {
		return Column{}, err
	}

	s.logger.WithFields(logger.Fields{"table": t.Name, "column": c.Name, "id": c.ID}).Info("catalog: column created")
	return c, nil
}

// UpdateColumn changes the presentation and validation attributes of a column.
// The physical column is not changed.
func (s *Store) UpdateColumn(id int64, in UpdateColumn) (Column, error) {
	values := map[string]interface{}{}
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" {
			return Column{}, apperror.Validation(MsgDisplayName, apperror.Detail{Field: "display_name", Message: MsgDisplayName})
		}
		values["display_name"] = name
	}
	if in.IsRequired != nil {
		values["is_required"] = boolInt(*in.IsRequired)
	}
	if in.MaxLength != nil {
		if *in.MaxLength <= 0 {
			return Column{}, apperror.Validation(schema.MsgMaxLength, apperror.Detail{Field: "max_length", Message: MsgMaxLengthN})
		}
		values["max_length"] = *in.MaxLength
	}
	if in.Position != nil {
		if *in.Position < 0 {
			return Column{}, apperror.Validation(MsgPosition, apperror.Detail{Field: "position", Message: MsgPosition})
		}
		values["position"] = *in.Position
	}
	if len(values) == 0 {
		return Column{}, apperror.Validation(MsgNoChange)
	}

	var c Column
	var t Table
	err := s.engine.Write(func(tx query.QueryTx) error {
		var err error
		if c, err = columnBy(tx, id); err != nil {
			return err
		}
		if in.MaxLength != nil && !c.DataType.Text() {
			return apperror.Validation(schema.MsgMaxLength, apperror.Detail{Field: "max_length", Message: schema.MsgMaxLength})
		}

		if _, err = tx.Update(TableColumns).Set(values).Where("id = ?", id).Exec(); err != nil {
			return internalErr("update column", err)
		}
		if err = touchTable(tx, c.TableID); err != nil {
			return err
		}

		if c, err = columnBy(tx, id); err != nil {
			return err
		}
		t, err = s.tableBy(tx, "id = ?", c.TableID)
		return err
	}, func() {
		s.refresh(t)
	})
	if err != nil {
		return Column{}, err
	}

	s.logger.WithFields(logger.Fields{"table": t.Name, "column": c.Name, "id": c.ID}).Info("catalog: column updated")
	return c, nil
}

// DeleteColumn removes the declaration and drops the physical column.
func (s *Store) DeleteColumn(id int64) error {
	var c Column
	var t Table
	err := s.engine.Write(func(tx query.QueryTx) error {
		var err error
		if c, err = columnBy(tx, id); err != nil {
			return err
		}
		if t, err = s.tableBy(tx, "id = ?", c.TableID); err != nil {
			return err
		}

		err = newSaga("delete column "+t.Name+"."+c.Name, s.logger).
			Step("delete catalog row", func() error {
				_, err := tx.Delete(TableColumns).Where("id = ?", c.ID).Exec()
				if err != nil {
					return internalErr("delete column", err)
				}
				return nil
			}, func() error {
				return insertColumn(tx, &c, true)
			}).
			Step("drop physical column", func() error {
				return s.mutator.DropColumn(tx, t.Name, c.Name)
			}, nil).
			Step("touch table", func() error {
				return touchTable(tx, t.ID)
			}, nil).
			Run()
		if err != nil {
			return err
		}

		t, err = s.tableBy(tx, "id = ?", t.ID)
		return err
	}, func() {
		s.refresh(t)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logger.Fields{"table": t.Name, "column": c.Name, "id": c.ID}).Info("catalog: column deleted")
	return nil
}

// columnBy returns the column by id.
func columnBy(q query.QueryTx, id int64) (Column, error) {
	cols, err := selectColumns(q, "id = ?", id)
	if err != nil {
		return Column{}, err
	}
	if len(cols) == 0 {
		return Column{}, apperror.NotFound("column", id)
	}
	return cols[0], nil
}

// selectColumns returns the columns of the condition, ordered by position and id.
func selectColumns(q query.QueryTx, where string, args ...interface{}) ([]Column, error) {
	rows, err := q.Select(TableColumns).Columns(columnFields...).Where(where, args...).Order("table_id", "position", "id").All()
	if err != nil {
		return nil, internalErr("select columns", err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var c Column
		var dataType string
		if err = rows.Scan(&c.ID, &c.TableID, &c.Name, &c.DisplayName, &dataType, &c.IsRequired, &c.IsUnique, &c.DefaultValue, &c.MaxLength, &c.Position, &c.CreatedAt); err != nil {
			return nil, internalErr("scan column", err)
		}
		c.DataType = schema.Type(dataType)
		cols = append(cols, c)
	}
	if err = rows.Err(); err != nil {
		return nil, internalErr("select columns", err)
	}
	return cols, nil
}

// insertColumn inserts the catalog row.
// If withID is false, the generated id is set on the column.
func insertColumn(tx query.QueryTx, c *Column, withID bool) error {
	values := map[string]interface{}{
		"table_id":      c.TableID,
		"name":          c.Name,
		"display_name":  c.DisplayName,
		"data_type":     string(c.DataType),
		"is_required":   boolInt(c.IsRequired),
		"is_unique":     boolInt(c.IsUnique),
		"default_value": c.DefaultValue,
		"max_length":    c.MaxLength,
		"position":      c.Position,
		"created_at":    c.CreatedAt,
	}

	insert := tx.Insert(TableColumns)
	if withID {
		values["id"] = c.ID
	} else {
		insert.LastInsertedID(&c.ID)
	}
	if _, err := insert.Values([]map[string]interface{}{values}).Exec(); err != nil {
		return internalErr("insert column", err)
	}
	return nil
}

// touchTable sets the updated_at of the table.
func touchTable(tx query.QueryTx, id int64) error {
	_, err := tx.Update(TableTables).Set(map[string]interface{}{"updated_at": schema.Now()}).Where("id = ?", id).Exec()
	if err != nil {
		return internalErr("touch table", err)
	}
	return nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
