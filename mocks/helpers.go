package mocks

import (
	"context"

	"github.com/hivelock/chatadmin"
)

// NameChecker answers uniqueness queries with a fixed result.
type NameChecker struct {
	Unique bool
	Err    error
	Names  []string
}

func (m *NameChecker) IsUnique(ctx context.Context, name string) (bool, error) {
	m.Names = append(m.Names, name)
	if m.Err != nil {
		return false, m.Err
	}
	return m.Unique, nil
}

// Reauthenticater counts reauthentication attempts.
type Reauthenticater struct {
	Err   error
	Count int
}

func (m *Reauthenticater) Reauthenticate(ctx context.Context) error {
	m.Count++
	return m.Err
}

// Auditor collects recorded entries in memory.
type Auditor struct {
	Err     error
	Entries []*chatadmin.AuditEntry
}

func (m *Auditor) Record(entry *chatadmin.AuditEntry) error {
	if m.Err != nil {
		return m.Err
	}
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *Auditor) Recent(limit uint64) ([]*chatadmin.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit < uint64(len(m.Entries)) {
		return m.Entries[:limit], nil
	}
	return m.Entries, nil
}
