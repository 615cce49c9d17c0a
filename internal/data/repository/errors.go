package repository

import "errors"

var (
	// ErrOverlap means an EXCLUDE constraint rejected the write: the interval
	// intersects another active booking or block.
	ErrOverlap = errors.New("interval overlaps an existing row")
	// ErrDuplicate means a UNIQUE constraint rejected the write.
	ErrDuplicate = errors.New("duplicate row")
	// ErrNotFound is returned by writes that matched no row. Reads return (nil, nil) instead.
	ErrNotFound = errors.New("row not found")
)
