// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
// A missing row is reported as sql.ErrNoRows.
package repository

import "errors"

// ErrDuplicate is returned when a unique key already exists.
var ErrDuplicate = errors.New("repository: duplicate key")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
