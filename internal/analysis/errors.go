//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package analysis

import (
	"errors"
	"fmt"
)

// ErrEmptyResult is matched by every EmptyResultError.
var ErrEmptyResult = errors.New("aggregation produced no rows")

// EmptyResultError reports an aggregation over zero rows where a single
// best row is required.
type EmptyResultError struct {
	Analysis string
	Reason   string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Analysis, e.Reason, ErrEmptyResult)
}

func (e *EmptyResultError) Is(target error) bool {
	return target == ErrEmptyResult
}
