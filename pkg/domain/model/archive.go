package model

import (
	"io"
	"time"

	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
)

// Classification is a free-form category an uploader attaches to an archive.
type Classification string

const (
	ClassificationRobot       Classification = "robot"
	ClassificationTool        Classification = "tool"
	ClassificationEnvironment Classification = "environment"
	ClassificationFixture     Classification = "fixture"
	ClassificationOther       Classification = "other"
)

// Valid reports whether the classification is one of the known categories.
func (x Classification) Valid() bool {
	switch x {
	case ClassificationRobot, ClassificationTool, ClassificationEnvironment,
		ClassificationFixture, ClassificationOther:
		return true
	}
	return false
}

// ArchiveMember is one file entry of an archive as recorded at validation
// time. Path never contains traversal segments and is never absolute.
type ArchiveMember struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// UploadedArchive is the durable record of an accepted upload. It is
// immutable once created; deletion removes the record together with its
// storage blob.
type UploadedArchive struct {
	ID                    types.ArchiveID `json:"id"`
	FileName              string          `json:"file_name"`
	DeclaredSize          int64           `json:"declared_size"`
	ContentType           string          `json:"content_type"`
	Classification        Classification  `json:"classification"`
	Members               []ArchiveMember `json:"members"`
	TotalUncompressedSize int64           `json:"total_uncompressed_size"`
	StoragePath           string          `json:"-"`
	CreatedAt             time.Time       `json:"created_at"`
}

// UploadInput carries one upload request through the use case layer.
type UploadInput struct {
	FileName       string
	Size           int64
	ContentType    string
	Classification string
	Data           io.Reader
}
