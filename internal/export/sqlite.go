package export

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLiteStore persists export history across runs.
type SQLiteStore struct {
	db  *sql.DB
	log *logrus.Entry
}

const createExports = `CREATE TABLE IF NOT EXISTS exports (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	filename TEXT NOT NULL,
	path TEXT,
	image BLOB NOT NULL
);`

// NewSQLiteStore opens or creates the history database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open export history: %w", err)
	}
	if _, err := db.Exec(createExports); err != nil {
		if cerr := db.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("Failed to close export history database")
		}
		return nil, fmt.Errorf("create exports table: %w", err)
	}
	return &SQLiteStore{
		db:  db,
		log: logrus.WithField("component", "export-history"),
	}, nil
}

func (s *SQLiteStore) Add(rec Record) error {
	log := s.log.WithFields(logrus.Fields{
		"record_id":    rec.ID,
		"image_length": len(rec.Image),
	})

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM exports").Scan(&count); err != nil {
		log.WithError(err).Error("Failed to count export records")
		return err
	}
	if count >= HistoryLimit {
		_, err := s.db.Exec(
			"DELETE FROM exports WHERE id IN (SELECT id FROM exports ORDER BY created_at ASC, id ASC LIMIT ?)",
			count-HistoryLimit+1)
		if err != nil {
			log.WithError(err).Error("Failed to evict oldest export records")
		}
	}

	path := sql.NullString{String: rec.Path, Valid: rec.Path != ""}
	_, err := s.db.Exec(
		"INSERT INTO exports (id, created_at, filename, path, image) VALUES (?, ?, ?, ?, ?)",
		rec.ID, rec.Created.UnixMilli(), rec.Filename, path, rec.Image)
	if err != nil {
		log.WithError(err).Error("Failed to record export")
		return err
	}
	log.Debug("Export recorded")
	return nil
}

func (s *SQLiteStore) List() ([]Record, error) {
	rows, err := s.db.Query(
		"SELECT id, created_at, filename, path FROM exports ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.log.WithError(cerr).Warn("Failed to close export rows")
		}
	}()

	var records []Record
	for rows.Next() {
		var rec Record
		var created int64
		var path sql.NullString
		if err := rows.Scan(&rec.ID, &created, &rec.Filename, &path); err != nil {
			return nil, err
		}
		rec.Created = time.UnixMilli(created)
		rec.Path = path.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Get(id string) (Record, error) {
	var rec Record
	var created int64
	var path sql.NullString
	err := s.db.QueryRow(
		"SELECT id, created_at, filename, path, image FROM exports WHERE id = ?", id).
		Scan(&rec.ID, &created, &rec.Filename, &path, &rec.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	rec.Created = time.UnixMilli(created)
	rec.Path = path.String
	return rec, nil
}

func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec("DELETE FROM exports")
	return err
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
