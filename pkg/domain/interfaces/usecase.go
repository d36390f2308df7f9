package interfaces

import (
	"context"

	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/model"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
)

// ArchiveUseCase is the application service for uploaded archives.
type ArchiveUseCase interface {
	// Upload validates and persists one uploaded archive. All validation
	// runs before any durable write; a rejected upload leaves no state.
	Upload(ctx context.Context, input *model.UploadInput) (*model.UploadedArchive, error)

	Get(ctx context.Context, id types.ArchiveID) (*model.UploadedArchive, error)
	List(ctx context.Context, limit int) ([]*model.UploadedArchive, error)

	// Delete removes the record and, best effort, its storage blob.
	Delete(ctx context.Context, id types.ArchiveID) error

	// Manifest serves the archive's manifest member with its relative
	// resource references rewritten.
	Manifest(ctx context.Context, id types.ArchiveID) (*model.ResolvedResource, error)

	// Member serves one archive member by its requested logical path.
	// Invalid and absent paths are both reported as not found.
	Member(ctx context.Context, id types.ArchiveID, memberPath string) (*model.ResolvedResource, error)
}
