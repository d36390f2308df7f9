package archive

import (
	"path"
	"strings"
)

const octetStream = "application/octet-stream"

var contentTypes = map[string]string{
	".gltf": "model/gltf+json",
	".glb":  "model/gltf-binary",
	".bin":  octetStream,
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".ktx2": "image/ktx2",
}

// ContentTypeFor resolves a member path to its MIME type. Unknown
// extensions fall back to application/octet-stream.
func ContentTypeFor(memberPath string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(memberPath))]; ok {
		return ct
	}
	return octetStream
}
