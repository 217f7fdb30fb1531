package store

import (
	"testing"

	"github.com/matthewbaird/appdeck/internal/document"
)

func TestAppendRecord_CreatesTableLazily(t *testing.T) {
	snap := Snapshot{}
	rec := Record{"id": NewRecordID(), "name": "Ada"}

	next := AppendRecord(snap, "people", rec)

	if len(next["people"]) != 1 {
		t.Fatalf("people = %d records, want 1", len(next["people"]))
	}
	if next["people"][0]["name"] != "Ada" {
		t.Errorf("name = %v, want Ada", next["people"][0]["name"])
	}
	if len(snap) != 0 {
		t.Error("original snapshot was mutated")
	}
}

func TestAppendRecord_LeavesSiblingTablesAlone(t *testing.T) {
	snap := Snapshot{"tasks": {{"id": "t1"}}}
	next := AppendRecord(snap, "people", Record{"id": "p1"})

	if len(next["tasks"]) != 1 {
		t.Fatalf("tasks = %d records, want 1", len(next["tasks"]))
	}
	if &next["tasks"][0] != &snap["tasks"][0] {
		t.Error("untouched table should share its slice")
	}
}

func TestUpdateRecord(t *testing.T) {
	snap := Snapshot{"tasks": {
		{"id": "t1", "title": "old", "done": false},
		{"id": "t2", "title": "keep"},
	}}

	next := UpdateRecord(snap, "tasks", "t1", Record{"title": "new"})

	if next["tasks"][0]["title"] != "new" {
		t.Errorf("title = %v, want new", next["tasks"][0]["title"])
	}
	if next["tasks"][0]["done"] != false {
		t.Error("unpatched fields must survive the merge")
	}
	if next["tasks"][1]["title"] != "keep" {
		t.Error("other records must be untouched")
	}
	if snap["tasks"][0]["title"] != "old" {
		t.Error("original record was mutated")
	}
}

func TestUpdateRecord_MissingIDIsNoop(t *testing.T) {
	snap := Snapshot{"tasks": {{"id": "t1"}}}
	next := UpdateRecord(snap, "tasks", "nope", Record{"x": 1})
	if len(next["tasks"]) != 1 || next["tasks"][0]["x"] != nil {
		t.Error("missing id must change nothing")
	}
}

func TestDeleteRecord(t *testing.T) {
	snap := Snapshot{
		"tasks":  {{"id": "t1"}, {"id": "t2"}},
		"people": {{"id": "p1"}},
	}

	next := DeleteRecord(snap, "tasks", "t1")

	if len(next["tasks"]) != 1 || next["tasks"][0]["id"] != "t2" {
		t.Fatalf("tasks = %v, want only t2", next["tasks"])
	}
	if len(next["people"]) != 1 {
		t.Error("sibling table was touched")
	}
}

func TestDeleteRecord_MissingIDFreshReference(t *testing.T) {
	snap := Snapshot{"tasks": {{"id": "t1"}}}
	next := DeleteRecord(snap, "tasks", "missing")

	if len(next["tasks"]) != 1 {
		t.Fatal("contents must be unchanged")
	}
	// The table gets a fresh slice even on a no-op delete, so growing it
	// cannot leak into the original snapshot.
	next["tasks"] = append(next["tasks"], Record{"id": "t9"})
	if len(snap["tasks"]) != 1 {
		t.Error("original snapshot was mutated")
	}
}

func TestSyncSchema(t *testing.T) {
	schema := document.DatabaseSchema{
		"tasks":  {Fields: map[string]document.FieldSchema{"title": {Type: "string"}}},
		"people": {Fields: map[string]document.FieldSchema{"name": {Type: "string"}}},
	}
	snap := Snapshot{"tasks": {{"id": "t1"}}}

	next := SyncSchema(snap, schema)

	if next["people"] == nil || len(next["people"]) != 0 {
		t.Error("schema tables must be created empty")
	}
	if len(next["tasks"]) != 1 {
		t.Error("existing tables must keep their records")
	}

	// Nothing missing: the same snapshot comes back.
	again := SyncSchema(next, schema)
	if len(again) != len(next) {
		t.Error("no-op sync should not grow the snapshot")
	}
}

func TestDefaults(t *testing.T) {
	ts := document.TableSchema{Fields: map[string]document.FieldSchema{
		"status": {Type: "string", Default: "open"},
		"title":  {Type: "string"},
	}}
	rec := Defaults(ts)
	if rec["status"] != "open" {
		t.Errorf("status = %v, want open", rec["status"])
	}
	if _, ok := rec["title"]; ok {
		t.Error("fields without defaults must be omitted")
	}
}

func TestSeedDemo(t *testing.T) {
	seeded := SeedDemo(Snapshot{}, DemoAppID)
	if len(seeded["contacts"]) == 0 {
		t.Fatal("empty demo store must be seeded")
	}

	// Any existing record anywhere disables the bootstrap.
	populated := Snapshot{"notes": {{"id": "n1"}}}
	if got := SeedDemo(populated, DemoAppID); len(got["contacts"]) != 0 {
		t.Error("non-empty store must not be seeded")
	}

	// Other apps never get fixture rows.
	if got := SeedDemo(Snapshot{}, "some-other-app"); len(got) != 0 {
		t.Error("seed rule is scoped to the demo app")
	}
}
