package archive

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"path"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/model"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
)

// ManifestExtension marks the entry-point manifest member of an archive.
const ManifestExtension = ".gltf"

// FindMember matches a requested path against the recorded members
// case-insensitively and returns the stored spelling. Unsafe requested
// paths never match.
func FindMember(members []model.ArchiveMember, requested string) (string, bool) {
	clean, ok := CleanMemberPath(requested)
	if !ok {
		return "", false
	}
	for _, m := range members {
		if strings.EqualFold(m.Path, clean) {
			return m.Path, true
		}
	}
	return "", false
}

// ETagFor computes the quoted strong validator for a content body.
func ETagFor(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// ReadMember locates the entry with the given stored member path and
// buffers its decompressed bytes. Member sizes were capped in aggregate at
// validation time, so the full-buffer read is bounded. The resolver is
// range-agnostic; the transport layer slices the buffer for partial
// requests since ZIP decompression is not random access.
func ReadMember(ctx context.Context, zr *zip.Reader, memberPath string) (*model.ResolvedResource, error) {
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "member read cancelled")
		}

		name, ok := CleanMemberPath(f.Name)
		if !ok || name != memberPath {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open archive entry", goerr.V("member", memberPath))
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decompress archive entry", goerr.V("member", memberPath))
		}

		return &model.ResolvedResource{
			Data:        data,
			ContentType: ContentTypeFor(memberPath),
			Size:        int64(len(data)),
			ETag:        ETagFor(data),
		}, nil
	}

	return nil, goerr.Wrap(types.ErrNotFound, "member not present in archive", goerr.V("member", memberPath))
}

// FindManifestMember returns the stored path of the archive's manifest
// entry, if any.
func FindManifestMember(members []model.ArchiveMember) (string, bool) {
	for _, m := range members {
		if strings.EqualFold(path.Ext(m.Path), ManifestExtension) {
			return m.Path, true
		}
	}
	return "", false
}
