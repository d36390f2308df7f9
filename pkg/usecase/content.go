package usecase

import (
	"archive/zip"
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Gravesjacob778/visualflow-assets/pkg/archive"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/model"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
)

// Member resolves one archive member by its requested logical path. An
// unsafe or unmatched path is reported as not found, identical to a
// missing archive.
func (uc *archiveUseCase) Member(ctx context.Context, id types.ArchiveID, memberPath string) (*model.ResolvedResource, error) {
	record, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	stored, ok := archive.FindMember(record.Members, memberPath)
	if !ok {
		return nil, goerr.Wrap(types.ErrNotFound, "no matching member",
			goerr.V("archive_id", id))
	}

	resource, err := uc.readMember(ctx, record, stored)
	if err != nil {
		return nil, err
	}

	uc.metrics.IncContentServed("member")
	uc.metrics.AddBytesServed(resource.Size)
	return resource, nil
}

// Manifest serves the archive's manifest member with its relative resource
// references rewritten for the content endpoint.
func (uc *archiveUseCase) Manifest(ctx context.Context, id types.ArchiveID) (*model.ResolvedResource, error) {
	record, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	stored, ok := archive.FindManifestMember(record.Members)
	if !ok {
		return nil, goerr.Wrap(types.ErrNotFound, "archive has no manifest member",
			goerr.V("archive_id", id))
	}

	resource, err := uc.readMember(ctx, record, stored)
	if err != nil {
		return nil, err
	}

	rewritten := archive.RewriteManifest(resource.Data)
	result := &model.ResolvedResource{
		Data:        rewritten,
		ContentType: resource.ContentType,
		Size:        int64(len(rewritten)),
		ETag:        archive.ETagFor(rewritten),
	}

	uc.metrics.IncContentServed("manifest")
	uc.metrics.AddBytesServed(result.Size)
	return result, nil
}

func (uc *archiveUseCase) readMember(ctx context.Context, record *model.UploadedArchive, stored string) (*model.ResolvedResource, error) {
	blob, size, err := uc.storage.Open(ctx, record.StoragePath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open stored archive",
			goerr.V("archive_id", record.ID))
	}
	defer func() { _ = blob.Close() }()

	zr, err := zip.NewReader(blob, size)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read stored archive",
			goerr.V("archive_id", record.ID))
	}

	return archive.ReadMember(ctx, zr, stored)
}
