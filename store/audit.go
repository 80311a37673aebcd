package store

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hivelock/chatadmin"
)

type auditEntry struct {
	ID         string    `db:"id"`
	OccurredAt time.Time `db:"occurred_at"`
	Actor      string    `db:"actor"`
	Action     string    `db:"action"`
	Target     string    `db:"target"`
	Detail     string    `db:"detail"`
}

// entryFromModel converts the chatadmin.AuditEntry model into an auditEntry
// with properties only useful for the database.
func entryFromModel(e *chatadmin.AuditEntry) *auditEntry {
	return &auditEntry{
		ID:         e.ID,
		OccurredAt: e.OccurredAt,
		Actor:      e.Actor,
		Action:     e.Action,
		Target:     e.Target,
		Detail:     e.Detail,
	}
}

func (e *auditEntry) ToModel() *chatadmin.AuditEntry {
	return &chatadmin.AuditEntry{
		ID:         e.ID,
		OccurredAt: e.OccurredAt,
		Actor:      e.Actor,
		Action:     e.Action,
		Target:     e.Target,
		Detail:     e.Detail,
	}
}

func (d *database) Record(m *chatadmin.AuditEntry) error {
	e := entryFromModel(m)
	_, err := psql.Insert("provisioning_audit").
		Columns("id", "occurred_at", "actor", "action", "target", "detail").
		Values(e.ID, e.OccurredAt, e.Actor, e.Action, e.Target, e.Detail).
		RunWith(d).Exec()

	return errors.Wrap(err, "Error recording audit entry")
}

func (d *database) Recent(limit uint64) ([]*chatadmin.AuditEntry, error) {
	rows, err := psql.Select("id", "occurred_at", "actor", "action", "target", "detail").
		From("provisioning_audit").
		OrderBy("occurred_at DESC").
		Limit(limit).
		RunWith(d).Query()
	if err != nil {
		return nil, errors.Wrap(err, "Error querying audit entries")
	}
	defer rows.Close()

	var entries []*chatadmin.AuditEntry
	for rows.Next() {
		var e auditEntry
		if err := rows.Scan(&e.ID, &e.OccurredAt, &e.Actor, &e.Action, &e.Target, &e.Detail); err != nil {
			return nil, errors.Wrap(err, "Error scanning audit entry")
		}
		entries = append(entries, e.ToModel())
	}
	return entries, rows.Err()
}
