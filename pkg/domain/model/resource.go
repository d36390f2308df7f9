package model

// ResolvedResource is the transient result of a content read request. It is
// recomputed per request and never persisted.
type ResolvedResource struct {
	// Data holds the fully decompressed member bytes. Members were size
	// capped in aggregate at validation time, so buffering is bounded.
	Data []byte

	ContentType string
	Size        int64

	// ETag is the quoted strong validator over Data, ready for the
	// HTTP ETag header.
	ETag string
}
