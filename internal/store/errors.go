// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied. Repository errors additionally wrap [blob.ErrRead] or
// [blob.ErrWrite] so that callers holding a [blob.Store] can classify them.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan blob row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan blob rows")
)

// Connection errors.
var (
	// ErrUnsupportedDialect is returned for a database backend other than
	// sqlite or postgres.
	ErrUnsupportedDialect = errors.New("unsupported sql dialect")

	// ErrConnecting is returned when the database cannot be opened or pinged.
	ErrConnecting = errors.New("error connecting database")
)
