package types

import "github.com/google/uuid"

// Version is the release version, overridden at build time via -ldflags.
var Version = "0.1.0"

// ArchiveID identifies a stored archive record.
type ArchiveID string

// NewArchiveID generates a fresh archive ID.
func NewArchiveID() ArchiveID {
	return ArchiveID(uuid.NewString())
}

func (x ArchiveID) String() string {
	return string(x)
}
