package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"

	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/interfaces"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/model"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
)

// timestampFormat keeps a fixed-width fractional part so that lexicographic
// ORDER BY on the stored text matches chronological order. RFC3339Nano would
// trim trailing zeros and break that.
const timestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Client persists archive records in SQLite.
type Client struct {
	db *sql.DB
}

var _ interfaces.ArchiveRepository = (*Client)(nil)

// New wraps an open database handle and applies the schema.
func New(db *sql.DB) (*Client, error) {
	c := &Client{db: db}
	if err := c.migrate(); err != nil {
		return nil, goerr.Wrap(err, "failed to migrate archives schema")
	}
	return c, nil
}

// Open opens (or creates) a SQLite database at the given path.
func Open(path string) (*Client, error) {
	handle, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("path", path))
	}
	return New(handle)
}

func (x *Client) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS archives (
		id TEXT PRIMARY KEY,
		file_name TEXT NOT NULL,
		declared_size INTEGER NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		classification TEXT NOT NULL,
		members JSON NOT NULL,
		total_uncompressed_size INTEGER NOT NULL,
		storage_path TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);`
	_, err := x.db.ExecContext(context.Background(), query)
	return err
}

// Close closes the underlying database handle.
func (x *Client) Close() error {
	return x.db.Close()
}

func (x *Client) Create(ctx context.Context, archive *model.UploadedArchive) error {
	membersJSON, err := json.Marshal(archive.Members)
	if err != nil {
		return goerr.Wrap(err, "failed to encode member manifest")
	}

	query := `INSERT INTO archives (
		id, file_name, declared_size, content_type, classification,
		members, total_uncompressed_size, storage_path, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = x.db.ExecContext(ctx, query,
		archive.ID.String(), archive.FileName, archive.DeclaredSize,
		archive.ContentType, string(archive.Classification),
		string(membersJSON), archive.TotalUncompressedSize,
		archive.StoragePath, archive.CreatedAt.UTC().Format(timestampFormat),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to insert archive record", goerr.V("id", archive.ID))
	}
	return nil
}

const selectColumns = `id, file_name, declared_size, content_type, classification,
	members, total_uncompressed_size, storage_path, created_at`

func (x *Client) Get(ctx context.Context, id types.ArchiveID) (*model.UploadedArchive, error) {
	row := x.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM archives WHERE id = ?`, id.String())

	archive, err := scanArchive(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(types.ErrNotFound, "no such archive", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to query archive", goerr.V("id", id))
	}
	return archive, nil
}

func (x *Client) List(ctx context.Context, limit int) ([]*model.UploadedArchive, error) {
	rows, err := x.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM archives ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list archives")
	}
	defer func() { _ = rows.Close() }()

	var archives []*model.UploadedArchive
	for rows.Next() {
		archive, err := scanArchive(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan archive row")
		}
		archives = append(archives, archive)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate archive rows")
	}
	return archives, nil
}

func (x *Client) Delete(ctx context.Context, id types.ArchiveID) error {
	res, err := x.db.ExecContext(ctx, `DELETE FROM archives WHERE id = ?`, id.String())
	if err != nil {
		return goerr.Wrap(err, "failed to delete archive record", goerr.V("id", id))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return goerr.Wrap(types.ErrNotFound, "no such archive", goerr.V("id", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArchive(row rowScanner) (*model.UploadedArchive, error) {
	var (
		archive        model.UploadedArchive
		id             string
		classification string
		membersJSON    string
		createdAt      string
	)

	if err := row.Scan(&id, &archive.FileName, &archive.DeclaredSize,
		&archive.ContentType, &classification, &membersJSON,
		&archive.TotalUncompressedSize, &archive.StoragePath, &createdAt); err != nil {
		return nil, err
	}

	archive.ID = types.ArchiveID(id)
	archive.Classification = model.Classification(classification)
	if err := json.Unmarshal([]byte(membersJSON), &archive.Members); err != nil {
		return nil, goerr.Wrap(err, "failed to decode member manifest", goerr.V("id", id))
	}
	// RFC3339Nano also accepts the fixed-width form written by Create.
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse created_at", goerr.V("id", id))
	}
	archive.CreatedAt = ts

	return &archive, nil
}
