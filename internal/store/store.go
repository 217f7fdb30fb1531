// Package store implements the transient, in-memory table set that
// simulates persistence for live preview. A snapshot maps table names
// to record slices; every operation is copy-on-write and returns a new
// snapshot, so an action handler always works from one consistent view
// and replaces it atomically. Absent tables and record ids are treated
// as empty, never as errors.
package store

import (
	"github.com/google/uuid"

	"github.com/matthewbaird/appdeck/internal/document"
)

// Record is one loosely-typed row. Every record written through this
// package carries a unique "id" field.
type Record = map[string]any

// Snapshot is the full data-store state: table name → records.
type Snapshot map[string][]Record

// NewRecordID generates a fresh record id.
func NewRecordID() string {
	return uuid.New().String()
}

// Table returns the records of a table. Absent tables read as empty.
func (s Snapshot) Table(name string) []Record {
	return s[name]
}

// clone copies the top-level table map; record slices are shared until
// a table is rewritten.
func (s Snapshot) clone() Snapshot {
	out := make(Snapshot, len(s)+1)
	for name, records := range s {
		out[name] = records
	}
	return out
}

// AppendRecord adds a record to the end of a table, creating the table
// if missing. The record should already carry its id. Other tables keep
// their existing slices.
func AppendRecord(s Snapshot, table string, record Record) Snapshot {
	out := s.clone()
	existing := out[table]
	updated := make([]Record, len(existing), len(existing)+1)
	copy(updated, existing)
	out[table] = append(updated, record)
	return out
}

// UpdateRecord merges patch into the record with the matching id.
// A missing table or id leaves the table's contents unchanged.
func UpdateRecord(s Snapshot, table, id string, patch Record) Snapshot {
	out := s.clone()
	existing := out[table]
	updated := make([]Record, len(existing))
	for i, rec := range existing {
		if rid, _ := rec["id"].(string); rid == id {
			merged := make(Record, len(rec)+len(patch))
			for k, v := range rec {
				merged[k] = v
			}
			for k, v := range patch {
				merged[k] = v
			}
			updated[i] = merged
			continue
		}
		updated[i] = rec
	}
	out[table] = updated
	return out
}

// DeleteRecord removes the record with the matching id. A missing id is
// a no-op, but the table still gets a fresh slice so callers can rely
// on reference inequality to detect the write.
func DeleteRecord(s Snapshot, table, id string) Snapshot {
	out := s.clone()
	existing := out[table]
	updated := make([]Record, 0, len(existing))
	for _, rec := range existing {
		if rid, _ := rec["id"].(string); rid == id {
			continue
		}
		updated = append(updated, rec)
	}
	out[table] = updated
	return out
}

// SyncSchema creates an empty table for every schema table not yet in
// the snapshot. Existing tables, including ones the schema no longer
// declares, are left alone.
func SyncSchema(s Snapshot, schema document.DatabaseSchema) Snapshot {
	missing := false
	for name := range schema {
		if _, ok := s[name]; !ok {
			missing = true
			break
		}
	}
	if !missing {
		return s
	}
	out := s.clone()
	for name := range schema {
		if _, ok := out[name]; !ok {
			out[name] = []Record{}
		}
	}
	return out
}

// Defaults builds a record of the schema's declared default values for
// one table. Fields without defaults are omitted.
func Defaults(ts document.TableSchema) Record {
	rec := Record{}
	for name, field := range ts.Fields {
		if field.Default != nil {
			rec[name] = field.Default
		}
	}
	return rec
}

// Empty reports whether the snapshot holds no records in any table.
func (s Snapshot) Empty() bool {
	for _, records := range s {
		if len(records) > 0 {
			return false
		}
	}
	return true
}
