package archive

import "strings"

// CleanMemberPath normalizes a member path and reports whether it is safe
// to use for lookup inside an archive. It rejects empty paths, NUL bytes,
// absolute paths (including Windows drive and UNC forms), and any `.` or
// `..` segment after backslashes are normalized to slashes. A leading `./`
// is stripped rather than rejected.
func CleanMemberPath(p string) (string, bool) {
	if p == "" || strings.ContainsRune(p, 0) {
		return "", false
	}

	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimPrefix(p, "./")

	if strings.HasPrefix(p, "/") {
		return "", false
	}
	if len(p) >= 2 && p[1] == ':' {
		return "", false
	}

	segments := strings.Split(p, "/")
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return "", false
		}
	}

	return p, true
}
