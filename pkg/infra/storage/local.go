package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/interfaces"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
)

// Client stores blobs on the local filesystem under a fixed root. Every
// path handed to the filesystem is first checked to stay inside the
// canonical root; no relative path from a caller is trusted without it.
type Client struct {
	root string
}

var _ interfaces.Storage = (*Client)(nil)

// New creates the storage root if needed and canonicalizes it so later
// containment checks compare against a symlink-free absolute path.
func New(root string) (*Client, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve storage root", goerr.V("root", root))
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage root", goerr.V("root", abs))
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to canonicalize storage root", goerr.V("root", abs))
	}
	return &Client{root: canonical}, nil
}

// resolve turns a root-relative path into an absolute one, refusing any
// result outside the root.
func (x *Client) resolve(rel string) (string, error) {
	if rel == "" || strings.ContainsRune(rel, 0) || filepath.IsAbs(rel) {
		return "", goerr.Wrap(types.ErrInvalidStoragePath, "malformed relative path", goerr.V("path", rel))
	}
	target := filepath.Clean(filepath.Join(x.root, filepath.FromSlash(rel)))
	if target != x.root && !strings.HasPrefix(target, x.root+string(os.PathSeparator)) {
		return "", goerr.Wrap(types.ErrInvalidStoragePath, "path outside storage root", goerr.V("path", rel))
	}
	return target, nil
}

// Save writes the stream to <root>/<dir>/<uuid><ext> with exclusive-create
// semantics. A name collision fails rather than overwriting. A cancelled or
// failed write removes the partial file.
func (x *Client) Save(ctx context.Context, dir, ext string, r io.Reader) (string, int64, error) {
	rel := path.Join(dir, uuid.NewString()+ext)
	target, err := x.resolve(rel)
	if err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
		return "", 0, goerr.Wrap(err, "failed to create storage directory", goerr.V("path", rel))
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", 0, goerr.Wrap(err, "failed to create blob file", goerr.V("path", rel))
	}

	n, err := io.Copy(f, &contextReader{ctx: ctx, r: r})
	if err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return "", 0, goerr.Wrap(err, "failed to write blob", goerr.V("path", rel))
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return "", 0, goerr.Wrap(err, "failed to finalize blob", goerr.V("path", rel))
	}

	return rel, n, nil
}

// Open returns a read handle on a stored blob after the containment check.
func (x *Client) Open(ctx context.Context, rel string) (interfaces.BlobHandle, int64, error) {
	target, err := x.resolve(rel)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, goerr.Wrap(types.ErrNotFound, "blob does not exist", goerr.V("path", rel))
		}
		return nil, 0, goerr.Wrap(err, "failed to open blob", goerr.V("path", rel))
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, goerr.Wrap(err, "failed to stat blob", goerr.V("path", rel))
	}
	return f, info.Size(), nil
}

// Delete removes a stored blob. A missing file is not an error.
func (x *Client) Delete(ctx context.Context, rel string) error {
	target, err := x.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return goerr.Wrap(err, "failed to remove blob", goerr.V("path", rel))
	}
	return nil
}

// contextReader aborts an in-flight copy when the request is cancelled.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (x *contextReader) Read(p []byte) (int, error) {
	if err := x.ctx.Err(); err != nil {
		return 0, err
	}
	return x.r.Read(p)
}
