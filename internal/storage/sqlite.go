package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/models"
)

// MemoryDSN keeps the database in process memory only.
const MemoryDSN = ":memory:"

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewSQLiteStore creates a new SQLite store. An empty path keeps everything
// in memory.
func NewSQLiteStore(dbPath string, log logger.Logger) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = MemoryDSN
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == MemoryDSN {
		// Every new connection to :memory: would see an empty database.
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteStore{db: db, log: log}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Debug("opened SQLite store at %s", dbPath)
	return store, nil
}

// initSchema creates the database tables if they don't exist
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS previews (
		session_id TEXT NOT NULL,
		source_ref TEXT NOT NULL,
		page_index INTEGER NOT NULL,
		data BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (session_id, source_ref, page_index)
	);

	CREATE TABLE IF NOT EXISTS outputs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		filename TEXT NOT NULL,
		page_count INTEGER NOT NULL,
		data BLOB NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_outputs_created_at ON outputs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// GetPreview retrieves a cached page preview
func (s *SQLiteStore) GetPreview(ctx context.Context, key models.PreviewKey) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM previews
		WHERE session_id = ? AND source_ref = ? AND page_index = ?
	`, key.Session, key.Source, key.Page).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query preview: %w", err)
	}
	return data, true, nil
}

// PutPreview caches a page preview
func (s *SQLiteStore) PutPreview(ctx context.Context, key models.PreviewKey, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO previews (session_id, source_ref, page_index, data)
		VALUES (?, ?, ?, ?)
	`, key.Session, key.Source, key.Page, data)
	if err != nil {
		return fmt.Errorf("failed to insert preview: %w", err)
	}
	return nil
}

// DeletePreviews removes the previews of one source document
func (s *SQLiteStore) DeletePreviews(ctx context.Context, session, source string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM previews WHERE session_id = ? AND source_ref = ?
	`, session, source)
	if err != nil {
		return fmt.Errorf("failed to delete previews: %w", err)
	}
	return nil
}

// PurgePreviews removes every cached preview
func (s *SQLiteStore) PurgePreviews(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM previews`)
	if err != nil {
		return fmt.Errorf("failed to purge previews: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		s.log.Debug("purged %d stale previews", n)
	}
	return nil
}

// PutOutput stores a produced document. Outputs are identified by content,
// so storing the same bytes twice keeps a single row.
func (s *SQLiteStore) PutOutput(ctx context.Context, output *models.Output) error {
	if output.ID == "" {
		output.ID = generateOutputID(output.Data)
	}
	if output.CreatedAt.IsZero() {
		output.CreatedAt = time.Now().UTC()
	}
	if output.Filename == "" {
		output.Filename = models.OutputFilename(output.Kind, output.CreatedAt)
	}
	output.Size = len(output.Data)

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO outputs (id, kind, filename, page_count, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, output.ID, string(output.Kind), output.Filename, output.PageCount, output.Data, output.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert output: %w", err)
	}
	return nil
}

// GetOutput retrieves a produced document by ID
func (s *SQLiteStore) GetOutput(ctx context.Context, id string) (*models.Output, error) {
	var out models.Output
	var kind string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, filename, page_count, data, created_at
		FROM outputs
		WHERE id = ?
	`, id).Scan(&out.ID, &kind, &out.Filename, &out.PageCount, &out.Data, &out.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("output not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query output: %w", err)
	}
	out.Kind = models.OutputKind(kind)
	out.Size = len(out.Data)
	return &out, nil
}

// ListOutputs returns every stored output, newest first
func (s *SQLiteStore) ListOutputs(ctx context.Context) ([]models.OutputInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, filename, page_count, length(data), created_at
		FROM outputs
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query outputs: %w", err)
	}
	defer rows.Close()

	var outputs []models.OutputInfo
	for rows.Next() {
		var info models.OutputInfo
		var kind string
		if err := rows.Scan(&info.ID, &kind, &info.Filename, &info.PageCount, &info.Size, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan output: %w", err)
		}
		info.Kind = models.OutputKind(kind)
		outputs = append(outputs, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outputs: %w", err)
	}

	return outputs, nil
}

// DeleteOutput removes a produced document
func (s *SQLiteStore) DeleteOutput(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM outputs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete output: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("output not found: %s", id)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateOutputID derives an output ID from the document bytes
func generateOutputID(data []byte) string {
	sum := sha256.Sum256(data)
	return "out_" + hex.EncodeToString(sum[:8])
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
