// Package repository holds the MySQL-backed audit store.  Sentinel errors
// here let handlers tell a missing store apart from a failing one.
package repository

import "errors"

// ErrNoStore is returned when the activity log is requested but no audit
// store is configured.  Handlers render an explanatory empty state.
var ErrNoStore = errors.New("audit store not configured")
