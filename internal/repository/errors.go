// Package repository holds the MySQL data access layer.  The sentinel
// values below let the service layer tell "nothing matched" and "unique key
// taken" apart from genuine driver failures, which are wrapped and passed
// through unchanged.
package repository

import "errors"

// ErrNotFound is returned when a lookup or update matches no row.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when the users.email unique key rejects an
// insert.
var ErrEmailExists = errors.New("email already exists")

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062
