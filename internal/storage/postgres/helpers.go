package postgres

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// timestamp converts a nullable timestamptz to a time.Time, zero when null.
func timestamp(value pgtype.Timestamptz) time.Time {
	if !value.Valid {
		return time.Time{}
	}
	return value.Time
}

// derefString safely dereferences a string pointer, returning empty string if nil
func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
