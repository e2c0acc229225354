package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"ctdoc/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS files (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source TEXT NOT NULL,
  fileName TEXT NOT NULL,
  hash TEXT NOT NULL,
  rawRef TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'received',
  receivedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(hash)
);
CREATE INDEX IF NOT EXISTS idx_files_status ON files(status);

CREATE TABLE IF NOT EXISTS documents (
  documentId TEXT PRIMARY KEY,
  fileId INTEGER NOT NULL,
  fileName TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'extracted',
  docJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(fileId) REFERENCES files(id)
);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_fileId ON documents(fileId);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertFile(source, fileName, hash, rawRef, status string) (internal.FileRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO files (source, fileName, hash, rawRef, status)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(hash) DO UPDATE SET
  fileName=excluded.fileName,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, source, fileName, hash, rawRef, status)
	if err != nil {
		return internal.FileRow{}, err
	}

	row, err := d.GetFileByHash(hash)
	if err != nil {
		return internal.FileRow{}, err
	}
	if row == nil {
		return internal.FileRow{}, errors.New("failed to upsert file")
	}
	return *row, nil
}

func (d *DB) GetFileByHash(hash string) (*internal.FileRow, error) {
	var row internal.FileRow
	err := d.conn.QueryRow(`
SELECT id, source, fileName, hash, rawRef, status, receivedAt
FROM files WHERE hash = ?
`, hash).Scan(&row.ID, &row.Source, &row.FileName, &row.Hash, &row.RawRef, &row.Status, &row.ReceivedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) GetFileByID(id int) (*internal.FileRow, error) {
	var row internal.FileRow
	err := d.conn.QueryRow(`
SELECT id, source, fileName, hash, rawRef, status, receivedAt
FROM files WHERE id = ?
`, id).Scan(&row.ID, &row.Source, &row.FileName, &row.Hash, &row.RawRef, &row.Status, &row.ReceivedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListFilesByStatus(status string, limit int) ([]internal.FileRow, error) {
	rows, err := d.conn.Query(`
SELECT id, source, fileName, hash, rawRef, status, receivedAt
FROM files WHERE status = ? ORDER BY receivedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.FileRow
	for rows.Next() {
		var row internal.FileRow
		if err := rows.Scan(&row.ID, &row.Source, &row.FileName, &row.Hash, &row.RawRef, &row.Status, &row.ReceivedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateFileStatus(fileID int, status string) error {
	_, err := d.conn.Exec(`UPDATE files SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, fileID)
	return err
}

// DocumentRow pairs a stored document with its pipeline state.
type DocumentRow struct {
	DocumentID string
	FileID     int
	FileName   string
	Status     string
	Doc        internal.Document
}

func (d *DB) UpsertDocument(doc internal.Document, fileID int, status string) error {
	blob, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = d.conn.Exec(`
INSERT INTO documents (documentId, fileId, fileName, status, docJson)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(documentId) DO UPDATE SET
  fileId=excluded.fileId,
  fileName=excluded.fileName,
  status=excluded.status,
  docJson=excluded.docJson,
  updatedAt=CURRENT_TIMESTAMP
`, doc.DocumentID, fileID, doc.FileName, status, string(blob))
	return err
}

func (d *DB) GetDocument(documentID string) (*DocumentRow, error) {
	var row DocumentRow
	var blob string
	err := d.conn.QueryRow(`
SELECT documentId, fileId, fileName, status, docJson
FROM documents WHERE documentId = ?
`, documentID).Scan(&row.DocumentID, &row.FileID, &row.FileName, &row.Status, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(blob), &row.Doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", row.DocumentID, err)
	}
	return &row, nil
}

func (d *DB) GetDocumentByFileID(fileID int) (*DocumentRow, error) {
	var row DocumentRow
	var blob string
	err := d.conn.QueryRow(`
SELECT documentId, fileId, fileName, status, docJson
FROM documents WHERE fileId = ? ORDER BY updatedAt DESC LIMIT 1
`, fileID).Scan(&row.DocumentID, &row.FileID, &row.FileName, &row.Status, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(blob), &row.Doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", row.DocumentID, err)
	}
	return &row, nil
}

func (d *DB) ListDocumentsByStatus(status string, limit int) ([]DocumentRow, error) {
	rows, err := d.conn.Query(`
SELECT documentId, fileId, fileName, status, docJson
FROM documents WHERE status = ? ORDER BY createdAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentRow
	for rows.Next() {
		var row DocumentRow
		var blob string
		if err := rows.Scan(&row.DocumentID, &row.FileID, &row.FileName, &row.Status, &blob); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(blob), &row.Doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", row.DocumentID, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateDocumentStatus(documentID, status string) error {
	_, err := d.conn.Exec(`UPDATE documents SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE documentId = ?`, status, documentID)
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
