package interfaces

import (
	"context"
	"io"

	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/model"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
)

// ArchiveRepository persists archive records.
type ArchiveRepository interface {
	Create(ctx context.Context, archive *model.UploadedArchive) error
	// Get returns the record or a not-found error.
	Get(ctx context.Context, id types.ArchiveID) (*model.UploadedArchive, error)
	List(ctx context.Context, limit int) ([]*model.UploadedArchive, error)
	Delete(ctx context.Context, id types.ArchiveID) error
}

// BlobHandle is an open read handle on a stored blob. Random access is
// required because ZIP central directories are read from the end.
type BlobHandle interface {
	io.ReaderAt
	io.Closer
}

// Storage persists blobs under opaque names inside a fixed root. Every
// relative path is containment-checked before it reaches the filesystem.
type Storage interface {
	// Save writes the stream under a fresh random name inside the given
	// purpose directory and returns the root-relative path and byte count.
	// An existing file under the generated name is an error, never
	// overwritten.
	Save(ctx context.Context, dir, ext string, r io.Reader) (string, int64, error)

	// Open returns a read handle and the blob size.
	Open(ctx context.Context, rel string) (BlobHandle, int64, error)

	// Delete removes the blob. Absence is not an error.
	Delete(ctx context.Context, rel string) error
}
