package usecase

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Gravesjacob778/visualflow-assets/pkg/archive"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/interfaces"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/model"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
	"github.com/Gravesjacob778/visualflow-assets/pkg/utils/async"
	"github.com/Gravesjacob778/visualflow-assets/pkg/utils/metrics"
)

// archiveStorageDir namespaces archive blobs inside the storage root.
const archiveStorageDir = "archives"

type archiveUseCase struct {
	repo          interfaces.ArchiveRepository
	storage       interfaces.Storage
	validator     *archive.Validator
	maxUploadSize int64
	metrics       metrics.Metrics
}

// NewArchive creates the archive use case. maxUploadSize caps the declared
// and actual byte length of one uploaded file.
func NewArchive(
	repo interfaces.ArchiveRepository,
	storage interfaces.Storage,
	validator *archive.Validator,
	maxUploadSize int64,
	m metrics.Metrics,
) interfaces.ArchiveUseCase {
	if m == nil {
		m = metrics.Noop{}
	}
	return &archiveUseCase{
		repo:          repo,
		storage:       storage,
		validator:     validator,
		maxUploadSize: maxUploadSize,
		metrics:       m,
	}
}

// Upload buffers the archive, validates it, and only then writes the blob
// and the record. A rejected upload leaves no durable state; a failed
// record insert triggers asynchronous blob cleanup so no orphan stays
// referenced.
func (uc *archiveUseCase) Upload(ctx context.Context, input *model.UploadInput) (*model.UploadedArchive, error) {
	logger := ctxlog.From(ctx)

	if !strings.HasSuffix(strings.ToLower(input.FileName), ".zip") {
		return nil, uc.rejected(goerr.New("file name must end in .zip",
			goerr.T(types.TagValidation), goerr.V("file_name", input.FileName)))
	}
	if input.Size <= 0 || input.Size > uc.maxUploadSize {
		return nil, uc.rejected(goerr.New("file size out of range",
			goerr.T(types.TagValidation),
			goerr.V("size", input.Size), goerr.V("limit", uc.maxUploadSize)))
	}

	classification := model.Classification(input.Classification)
	if input.Classification == "" {
		classification = model.ClassificationOther
	}
	if !classification.Valid() {
		return nil, uc.rejected(goerr.New("unknown classification",
			goerr.T(types.TagValidation), goerr.V("classification", input.Classification)))
	}

	// Buffered so validation and storage read the same bytes without
	// rewinding the client stream.
	data, err := io.ReadAll(io.LimitReader(input.Data, uc.maxUploadSize+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read upload stream")
	}
	if int64(len(data)) > uc.maxUploadSize {
		return nil, uc.rejected(goerr.New("file exceeds maximum size",
			goerr.T(types.TagValidation), goerr.V("limit", uc.maxUploadSize)))
	}

	manifest, err := uc.validator.Validate(ctx, data)
	if err != nil {
		return nil, uc.rejected(err)
	}

	rel, written, err := uc.storage.Save(ctx, archiveStorageDir, ".zip", bytes.NewReader(data))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store archive blob")
	}

	record := &model.UploadedArchive{
		ID:                    types.NewArchiveID(),
		FileName:              input.FileName,
		DeclaredSize:          input.Size,
		ContentType:           input.ContentType,
		Classification:        classification,
		Members:               manifest.Members,
		TotalUncompressedSize: manifest.TotalUncompressedSize,
		StoragePath:           rel,
		CreatedAt:             time.Now().UTC(),
	}

	if err := uc.repo.Create(ctx, record); err != nil {
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.storage.Delete(ctx, rel)
		})
		return nil, goerr.Wrap(err, "failed to persist archive record")
	}

	uc.metrics.IncUploadAccepted(string(classification))
	logger.Info("archive accepted",
		"archive_id", record.ID,
		"file_name", record.FileName,
		"members", len(record.Members),
		"total_uncompressed_size", record.TotalUncompressedSize,
		"stored_bytes", written,
	)

	return record, nil
}

func (uc *archiveUseCase) rejected(err error) error {
	uc.metrics.IncUploadRejected(types.RejectReason(err))
	return err
}

func (uc *archiveUseCase) Get(ctx context.Context, id types.ArchiveID) (*model.UploadedArchive, error) {
	return uc.repo.Get(ctx, id)
}

func (uc *archiveUseCase) List(ctx context.Context, limit int) ([]*model.UploadedArchive, error) {
	return uc.repo.List(ctx, limit)
}

// Delete removes the record first, then the blob. Blob removal failure is
// logged, not surfaced; the record is the source of truth.
func (uc *archiveUseCase) Delete(ctx context.Context, id types.ArchiveID) error {
	record, err := uc.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := uc.storage.Delete(ctx, record.StoragePath); err != nil {
		ctxlog.From(ctx).Warn("failed to remove archive blob",
			"archive_id", id, "error", err)
	}
	return nil
}
