package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"math"
	"path"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/model"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
)

// Manifest is the result of a successful archive validation.
type Manifest struct {
	Members               []model.ArchiveMember
	TotalUncompressedSize int64
}

// Validator scans an uploaded ZIP's central directory and enforces the
// extension and size policy without extracting any entry.
type Validator struct {
	policy Policy
}

// NewValidator creates a validator with the given policy.
func NewValidator(policy Policy) *Validator {
	return &Validator{policy: policy}
}

// Validate walks every central-directory entry of the archive. It fails on
// the first policy violation and only returns a manifest when all entries
// pass. The caller keeps ownership of data and can hand the same bytes to
// storage afterward.
//
// Totals are accumulated from the declared uncompressed lengths in the
// central directory; a lying header is caught only when the entry is
// actually read.
func (v *Validator) Validate(ctx context.Context, data []byte) (*Manifest, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, goerr.Wrap(types.ErrCorruptArchive, "failed to read central directory", goerr.V("cause", err.Error()))
	}

	var members []model.ArchiveMember
	var total int64

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "archive scan cancelled")
		}

		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") || strings.HasSuffix(f.Name, `\`) {
			continue
		}

		memberPath, ok := CleanMemberPath(f.Name)
		if !ok {
			return nil, goerr.Wrap(types.ErrCorruptArchive, "unsafe member path", goerr.V("member", f.Name))
		}

		switch v.policy.Classify(path.Ext(memberPath)) {
		case VerdictForbidden:
			return nil, goerr.Wrap(types.ErrForbiddenContent, "executable content in archive", goerr.V("member", memberPath))
		case VerdictAllowed:
		default:
			return nil, goerr.Wrap(types.ErrDisallowedExtension, "extension not allowed", goerr.V("member", memberPath))
		}

		if f.UncompressedSize64 > math.MaxInt64 {
			return nil, goerr.Wrap(types.ErrUncompressedSizeExceeded, "entry size overflow", goerr.V("member", memberPath))
		}

		size := int64(f.UncompressedSize64)
		total += size
		// Checked per entry so a single lying header fails fast instead
		// of being caught only after the full scan.
		if total > v.policy.MaxUncompressedSize || total < 0 {
			return nil, goerr.Wrap(types.ErrUncompressedSizeExceeded, "declared total over limit",
				goerr.V("member", memberPath),
				goerr.V("declared_total", total),
				goerr.V("limit", v.policy.MaxUncompressedSize))
		}

		members = append(members, model.ArchiveMember{Path: memberPath, Size: size})
	}

	if len(members) == 0 {
		return nil, goerr.Wrap(types.ErrEmptyArchive, "no file entries in archive")
	}

	return &Manifest{Members: members, TotalUncompressedSize: total}, nil
}
