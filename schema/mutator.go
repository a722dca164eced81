// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package schema translates column declarations into physical data definition statements.
//
// The Mutator runs inside the write session of the caller, so a failing statement is rolled back together with
// the catalog rows of the same operation. Identifiers and default literals are rendered by the query provider.
package schema

import (
	"errors"
	"fmt"

	"github.com/patrickascher/dynapi/apperror"
	"github.com/patrickascher/dynapi/logger"
	"github.com/patrickascher/dynapi/query"
	"github.com/patrickascher/dynapi/query/types"
)

// Columns every physical table has.
const (
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
)

// Policy messages.
var (
	MsgUnique    = "unique columns are not supported by the storage engine"
	MsgMaxLength = "max_length must be a positive number and is only allowed on text types"
)

// ColumnSpec describes a physical column.
type ColumnSpec struct {
	Name      string
	Type      Type
	Required  bool
	Unique    bool
	Default   *string
	MaxLength int
}

// Mutator executes the data definition statements.
type Mutator struct {
	logger logger.Manager
}

// New creates a Mutator.
func New(l logger.Manager) *Mutator {
	return &Mutator{logger: l}
}

// CheckColumn returns a policy or validation error if the column can not be added.
// It must be called before any catalog row is written.
func (m *Mutator) CheckColumn(spec ColumnSpec) error {
	if !spec.Type.Valid() {
		return apperror.Validation(fmt.Sprintf(MsgType, spec.Type), apperror.Detail{Field: "data_type", Message: "must be one of short_text, long_text, integer, float, boolean, date, timestamp"})
	}
	if spec.Unique {
		return apperror.Policy(MsgUnique)
	}
	if spec.MaxLength < 0 || (spec.MaxLength > 0 && !spec.Type.Text()) {
		return apperror.Validation(MsgMaxLength, apperror.Detail{Field: "max_length", Message: MsgMaxLength})
	}
	if spec.Default != nil {
		if _, err := ParseDefault(spec.Type, *spec.Default); err != nil {
			msg := fmt.Sprintf(MsgDefault, *spec.Default, spec.Type)
			return apperror.Validation(msg, apperror.Detail{Field: "default_value", Message: msg})
		}
	}
	return nil
}

// Definition returns the physical column definition.
// NOT NULL is only rendered together with a default value, because existing rows need a value.
// Requiredness without a default is enforced by the create descriptor.
func (m *Mutator) Definition(spec ColumnSpec) (query.ColumnDefinition, error) {
	if err := m.CheckColumn(spec); err != nil {
		return query.ColumnDefinition{}, err
	}

	def := query.ColumnDefinition{Name: spec.Name, Type: spec.Type.Interface()}
	if spec.Default != nil {
		v, _ := ParseDefault(spec.Type, *spec.Default)
		def.Default = v
		def.NotNull = spec.Required
	}
	return def, nil
}

// CreateTable creates the physical table with the system columns.
func (m *Mutator) CreateTable(tx query.QueryTx, name string) error {
	err := tx.Table(name).Create(
		query.ColumnDefinition{Name: ColumnID, Type: types.NewInt(""), PrimaryKey: true, Autoincrement: true},
		query.ColumnDefinition{Name: ColumnCreatedAt, Type: types.NewDateTime(""), NotNull: true},
		query.ColumnDefinition{Name: ColumnUpdatedAt, Type: types.NewDateTime(""), NotNull: true},
	).Exec()
	return m.result("create table", name, "", err)
}

// DropTable drops the physical table.
// A missing physical table is not an error, so a drifted declaration can still be removed.
func (m *Mutator) DropTable(tx query.QueryTx, name string) error {
	return m.result("drop table", name, "", tx.Table(name).DropIfExists().Exec())
}

// AddColumn adds the physical column.
func (m *Mutator) AddColumn(tx query.QueryTx, table string, spec ColumnSpec) error {
	def, err := m.Definition(spec)
	if err != nil {
		return err
	}
	return m.result("add column", table, spec.Name, tx.Table(table).AddColumn(def).Exec())
}

// DropColumn drops the physical column.
// A missing physical column or table is skipped, so a drifted declaration can still be removed.
func (m *Mutator) DropColumn(tx query.QueryTx, table string, column string) error {
	_, err := tx.Information(table).Describe(column)
	if errors.Is(err, query.ErrNotExist) {
		if m.logger != nil {
			m.logger.WithFields(logger.Fields{"op": "drop column", "table": table, "column": column}).Warning("schema: physical column does not exist")
		}
		return nil
	}
	if err != nil {
		return m.result("describe", table, column, err)
	}
	return m.result("drop column", table, column, tx.Table(table).DropColumn(column).Exec())
}

// Describe returns the physical columns of the table.
func (m *Mutator) Describe(q query.QueryTx, table string) ([]query.Column, error) {
	cols, err := q.Information(table).Describe()
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return cols, nil
}

// result logs the statement and wraps the error.
func (m *Mutator) result(op string, table string, column string, err error) error {
	if m.logger != nil {
		fields := logger.Fields{"op": op, "table": table}
		if column != "" {
			fields["column"] = column
		}
		if err != nil {
			fields["error"] = err.Error()
			m.logger.WithFields(fields).Warning("schema: statement failed")
		} else {
			m.logger.WithFields(fields).Debug("schema: statement executed")
		}
	}
	if err != nil {
		return fmt.Errorf("schema: %s %s: %w", op, table, err)
	}
	return nil
}
