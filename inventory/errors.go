package inventory

import "errors"

// ErrNotFound indicates the input table does not exist.
var ErrNotFound = errors.New("input table not found")

// ErrEmpty indicates the input table has a header but no data rows.
var ErrEmpty = errors.New("input table has no records")
