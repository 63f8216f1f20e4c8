// Package storagetest builds throwaway Sahana Eden databases for tests.
package storagetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Schema is the subset of the Sahana Eden schema the views read.
const Schema = `
CREATE TABLE pr_person (
	id INTEGER PRIMARY KEY,
	first_name TEXT,
	last_name TEXT,
	gender INTEGER,
	date_of_birth TEXT,
	pe_label TEXT,
	comments TEXT,
	created_on TEXT
);
CREATE TABLE gis_location (
	id INTEGER PRIMARY KEY,
	name TEXT,
	level TEXT,
	lat REAL,
	lon REAL,
	population INTEGER,
	addr_street TEXT,
	addr_postcode TEXT,
	comments TEXT
);
CREATE TABLE disease_case (
	id INTEGER PRIMARY KEY,
	case_number TEXT,
	person_id INTEGER,
	location_id INTEGER,
	diagnosis_date TEXT,
	hospitalized TEXT,
	illness_status TEXT
);
CREATE TABLE asset_asset (
	id INTEGER PRIMARY KEY,
	number TEXT,
	type INTEGER,
	category TEXT,
	status INTEGER,
	organisation_id INTEGER
);
CREATE TABLE org_organisation (
	id INTEGER PRIMARY KEY,
	name TEXT,
	acronym TEXT,
	website TEXT
);
`

// Fixture is a writable handle on a temporary database file.
type Fixture struct {
	Path string
	db   *sql.DB
}

// New creates the schema in a fresh file under t.TempDir().
func New(t testing.TB) *Fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eden.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Fixture{Path: path, db: db}
}

// Exec runs a write statement against the fixture.
func (f *Fixture) Exec(t testing.TB, stmt string, args ...interface{}) {
	t.Helper()
	if _, err := f.db.Exec(stmt, args...); err != nil {
		t.Fatalf("exec %q: %v", stmt, err)
	}
}

// AddPerson inserts a person row and returns its id.
func (f *Fixture) AddPerson(t testing.TB, first, last string, gender int, label, createdOn string) int64 {
	t.Helper()
	res, err := f.db.Exec(`INSERT INTO pr_person (first_name, last_name, gender, pe_label, created_on) VALUES (?, ?, ?, ?, ?)`,
		first, last, gender, nullable(label), createdOn)
	if err != nil {
		t.Fatalf("insert person: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// AddLocation inserts a location row and returns its id.
func (f *Fixture) AddLocation(t testing.TB, name string, population int64, lat, lon float64) int64 {
	t.Helper()
	res, err := f.db.Exec(`INSERT INTO gis_location (name, population, lat, lon) VALUES (?, ?, ?, ?)`,
		name, population, lat, lon)
	if err != nil {
		t.Fatalf("insert location: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// AddCase inserts a case row.
func (f *Fixture) AddCase(t testing.TB, number string, personID, locationID int64, date, hospitalized, status string) {
	t.Helper()
	f.Exec(t, `INSERT INTO disease_case (case_number, person_id, location_id, diagnosis_date, hospitalized, illness_status) VALUES (?, ?, ?, ?, ?, ?)`,
		number, personID, locationID, date, hospitalized, status)
}

// AddAsset inserts an asset row.
func (f *Fixture) AddAsset(t testing.TB, number string, assetType, status int) {
	t.Helper()
	f.Exec(t, `INSERT INTO asset_asset (number, type, status) VALUES (?, ?, ?)`, number, assetType, status)
}

// AddOrganisation inserts an organisation row.
func (f *Fixture) AddOrganisation(t testing.TB, name, acronym string) {
	t.Helper()
	f.Exec(t, `INSERT INTO org_organisation (name, acronym) VALUES (?, ?)`, name, nullable(acronym))
}

// DropTable removes a table to simulate schema drift.
func (f *Fixture) DropTable(t testing.TB, table string) {
	t.Helper()
	f.Exec(t, "DROP TABLE "+table)
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
