// Package store persists the provisioning audit trail to postgres.
package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/hivelock/chatadmin"

	_ "github.com/lib/pq" // postgres drivers
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Database records and queries provisioning audit entries.
type Database interface {
	Record(*chatadmin.AuditEntry) error
	Recent(limit uint64) ([]*chatadmin.AuditEntry, error)

	Close()
}

type database struct {
	*sql.DB
}

// New connects to the postgres database and makes sure the audit table
// exists.
func New(psqlInfo string) (Database, error) {
	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, errors.Wrap(err, "Error opening database")
	}

	// make sure we have a good connection
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "Error pinging database")
	}

	if _, err := db.Exec(createAuditTable); err != nil {
		return nil, errors.Wrap(err, "Error creating audit table")
	}

	return &database{db}, nil
}

const createAuditTable = `
CREATE TABLE IF NOT EXISTS provisioning_audit (
	id TEXT PRIMARY KEY,
	occurred_at TIMESTAMPTZ NOT NULL,
	actor TEXT NOT NULL,
	action TEXT NOT NULL,
	target TEXT NOT NULL,
	detail TEXT NOT NULL
);`

// Close closes the database.
func (d *database) Close() {
	d.DB.Close()
}
