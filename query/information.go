// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"errors"

	"github.com/patrickascher/dynapi/query/types"
)

// ErrNotExist is wrapped by the providers if the described table or columns do not exist.
var ErrNotExist = errors.New("query: table or column does not exist")

// Column represents a physical database table column.
type Column struct {
	Table         string
	Name          string
	Position      int
	NullAble      bool
	PrimaryKey    bool
	Unique        bool
	Type          types.Interface
	DefaultValue  NullString
	Length        NullInt
	Autoincrement bool
}
