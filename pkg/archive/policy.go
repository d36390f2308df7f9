package archive

import "strings"

// Verdict is the outcome of the extension decision table.
type Verdict int

const (
	// VerdictUnknown means the extension is neither forbidden nor allowed.
	VerdictUnknown Verdict = iota
	VerdictAllowed
	VerdictForbidden
)

// DefaultForbiddenExtensions lists executable and installer formats that
// fail validation immediately, regardless of the allow list.
var DefaultForbiddenExtensions = []string{
	".exe", ".dll", ".so", ".dylib", ".bat", ".cmd", ".com", ".scr",
	".msi", ".ps1", ".sh", ".vbs", ".jar", ".app",
}

// DefaultAllowedExtensions lists the 3D-model, texture, and manifest
// formats an archive may contain.
var DefaultAllowedExtensions = []string{
	".gltf", ".glb", ".bin", ".png", ".jpg", ".jpeg", ".webp", ".ktx2",
}

// Policy holds the validation limits and the extension decision table. It
// is built once and injected into the validator, never ambient state.
type Policy struct {
	// MaxUncompressedSize caps the sum of declared uncompressed entry
	// sizes of one archive.
	MaxUncompressedSize int64

	verdicts map[string]Verdict
}

// NewPolicy builds a policy from explicit extension lists. Forbidden wins
// over allowed when an extension appears in both.
func NewPolicy(maxUncompressedSize int64, allowed, forbidden []string) Policy {
	verdicts := make(map[string]Verdict, len(allowed)+len(forbidden))
	for _, ext := range allowed {
		verdicts[strings.ToLower(ext)] = VerdictAllowed
	}
	for _, ext := range forbidden {
		verdicts[strings.ToLower(ext)] = VerdictForbidden
	}
	return Policy{
		MaxUncompressedSize: maxUncompressedSize,
		verdicts:            verdicts,
	}
}

// DefaultPolicy returns the built-in policy with a 200 MiB uncompressed
// ceiling.
func DefaultPolicy() Policy {
	return NewPolicy(200<<20, DefaultAllowedExtensions, DefaultForbiddenExtensions)
}

// Classify resolves an extension (with leading dot, any case) to its
// three-way verdict in a single lookup.
func (p Policy) Classify(ext string) Verdict {
	return p.verdicts[strings.ToLower(ext)]
}
