// Package store implements durable CRUD over the six entity tables with
// index-backed listings, validation at the boundary, and change
// notifications consumed by the live-query registry.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh random identifier. Creates assign one when the
// caller leaves the id empty.
func NewID() string {
	return uuid.NewString()
}

// Timestamps are persisted as integer unix milliseconds, matching the
// precision the export file carries.

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// now returns the current time at millisecond precision so a row read back
// from the database compares equal to the value that was written.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func idExists(db *sql.DB, table, id string) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check id in %s: %w", table, err)
	}
	return n > 0, nil
}
