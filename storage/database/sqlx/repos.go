// Package sqlxrepos implements the core repositories on PostgreSQL via sqlx.
//
// Each repository converts between its core entity and a private row struct
// (pack/unpack), generates UUIDs on insert and maps sql.ErrNoRows and empty
// update/delete results to the owning package's sentinel errors.
package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// queryExists runs an EXISTS query written with "?" bindvars, expanding any
// slice args, and reports the result.
func queryExists(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (bool, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return false, err
	}
	var exists bool
	if err = db.GetContext(ctx, &exists, db.Rebind(query), args...); err != nil {
		return false, err
	}
	return exists, nil
}
