// Package storage is the thin contract over the embedded key/value store
// (§4.1): named tables, get/put/delete/cursor/truncate/dbremove, and the
// metadata sub-table. It never types its values — the catalog and query
// layers own that. Backed by modernc.org/sqlite (pure Go, no cgo): one
// file per environment, one real SQL table per named sub-table, each
// holding opaque (key, value) byte pairs so the store plays the role of
// the Python original's BerkeleyDB environment (db.DB, DB_HASH, cursor,
// truncate, dbremove) without ever letting user SQL reach it directly.
package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"

	_ "modernc.org/sqlite"
)

// MetadataTable is the distinguished sub-table holding one serialized
// schema document per table, keyed by upper-case table name.
const MetadataTable = "metadata"

var validName = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// Store is the environment: one open database file and the set of
// sub-tables known to exist within it.
type Store struct {
	db *sql.DB
}

// KV is one (key, value) pair as returned by Cursor, in unspecified order.
type KV struct {
	Key   string
	Value []byte
}

// Open creates the environment directory's backing file if absent and
// returns a handle to it. It does not open any sub-tables — callers (the
// catalog) do that per §4.2's startup enumeration.
func Open(envDir string) (*Store, error) {
	path := filepath.Join(envDir, "reldb.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open environment at %s: %w", envDir, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, err
	}
	s := &Store{db: db}
	if err := s.OpenTable(MetadataTable); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func physicalName(name string) (string, error) {
	if !validName.MatchString(name) {
		return "", fmt.Errorf("invalid sub-table name %q", name)
	}
	return "tbl_" + name, nil
}

// OpenTable opens (creating if absent) a named sub-table.
func (s *Store) OpenTable(name string) error {
	phys, err := physicalName(name)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS "%s" (k TEXT PRIMARY KEY, v BLOB NOT NULL)`, phys))
	return err
}

// DropTable deletes a named sub-table entirely (dbremove).
func (s *Store) DropTable(name string) error {
	phys, err := physicalName(name)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, phys))
	return err
}

// Put writes key/value into an opened sub-table, replacing any existing
// value stored under key.
func (s *Store) Put(table, key string, val []byte) error {
	phys, err := physicalName(table)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(fmt.Sprintf(
		`INSERT INTO "%s" (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`, phys),
		key, val)
	return err
}

// Get returns (value, true, nil) if key exists, or (nil, false, nil) if
// absent — absence is not an error (§4.1).
func (s *Store) Get(table, key string) ([]byte, bool, error) {
	phys, err := physicalName(table)
	if err != nil {
		return nil, false, err
	}
	var v []byte
	err = s.db.QueryRow(fmt.Sprintf(`SELECT v FROM "%s" WHERE k = ?`, phys), key).Scan(&v)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Delete removes key from a sub-table; deleting an absent key is a no-op.
func (s *Store) Delete(table, key string) error {
	phys, err := physicalName(table)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(fmt.Sprintf(`DELETE FROM "%s" WHERE k = ?`, phys), key)
	return err
}

// Truncate deletes every record in a sub-table and returns the count
// removed.
func (s *Store) Truncate(table string) (int, error) {
	phys, err := physicalName(table)
	if err != nil {
		return 0, err
	}
	res, err := s.db.Exec(fmt.Sprintf(`DELETE FROM "%s"`, phys))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Cursor returns every (key, value) pair in a sub-table, in unspecified
// order.
func (s *Store) Cursor(table string) ([]KV, error) {
	phys, err := physicalName(table)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(fmt.Sprintf(`SELECT k, v FROM "%s"`, phys))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []KV
	for rows.Next() {
		var kv KV
		if err := rows.Scan(&kv.Key, &kv.Value); err != nil {
			return nil, err
		}
		out = append(out, kv)
	}
	return out, rows.Err()
}

// Close releases every resource held by the environment.
func (s *Store) Close() error {
	return s.db.Close()
}
