package archive

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
)

// rewriteSections are the glTF arrays whose objects reference other
// archive members through a "uri" field.
var rewriteSections = []string{"buffers", "images"}

// RewriteManifest rewrites relative resource references of a glTF manifest
// into percent-encoded relative paths so they can be requested through the
// content endpoint verbatim. Data URIs, absolute URIs, and paths that fail
// the member-path safety check are left untouched. Documents that are not
// valid JSON pass through unchanged; the manifest format is owned by an
// external tool and is not validated here.
//
// The result is compact JSON with object keys in sorted order: the
// re-serialization normalizes whitespace and key order but no value other
// than the rewritten uri fields changes.
func RewriteManifest(raw []byte) []byte {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return raw
	}

	for _, section := range rewriteSections {
		items, ok := doc[section].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			uri, ok := obj["uri"].(string)
			if !ok || uri == "" {
				continue
			}
			if encoded, ok := encodeRelativeURI(uri); ok {
				obj["uri"] = encoded
			}
		}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return raw
	}
	return out
}

// encodeRelativeURI percent-encodes each path segment independently, so
// segment separators survive while characters like spaces are escaped. The
// URI is decoded first: an already-encoded reference comes out unchanged
// instead of double-encoded, and the safety check sees the real path (a raw
// "%2e%2e" segment is ".." once decoded).
func encodeRelativeURI(uri string) (string, bool) {
	if strings.HasPrefix(uri, "data:") {
		return "", false
	}
	if u, err := url.Parse(uri); err != nil || u.IsAbs() || strings.HasPrefix(uri, "//") {
		return "", false
	}

	// url.Parse above already rejected invalid escapes, so this cannot fail.
	decoded, err := url.PathUnescape(uri)
	if err != nil {
		return "", false
	}

	clean, ok := CleanMemberPath(decoded)
	if !ok {
		return "", false
	}

	segments := strings.Split(clean, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/"), true
}
