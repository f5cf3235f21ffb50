package repository

import (
	"context"
	"fmt"

	"github.com/gatherly/api/internal/database"
)

// schemaStatements are applied at startup. DEFINE replaces any existing
// definition of the same name, so re-running on every boot is safe.
//
// The rsvp unique index is the one concurrency primitive the application
// relies on: it is what turns a racing duplicate insert into
// database.ErrDuplicate instead of a second row.
var schemaStatements = []string{
	`DEFINE INDEX rsvp_event_user ON TABLE rsvp COLUMNS event_id, user_id UNIQUE`,
	`DEFINE INDEX event_owner ON TABLE event COLUMNS owner_id`,
	`DEFINE INDEX event_date ON TABLE event COLUMNS event_date`,
}

// EnsureSchema applies the index definitions the repositories depend on
func EnsureSchema(ctx context.Context, db database.Database) error {
	for _, stmt := range schemaStatements {
		if err := db.Execute(ctx, stmt, nil); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
