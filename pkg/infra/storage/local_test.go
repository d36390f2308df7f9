package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
	"github.com/Gravesjacob778/visualflow-assets/pkg/infra/storage"
)

func TestClient_SaveOpenRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := gt.R1(storage.New(t.TempDir())).NoError(t)

	content := bytes.Repeat([]byte{0x42}, 4096)

	rel, n, err := client.Save(ctx, "archives", ".zip", bytes.NewReader(content))
	gt.NoError(t, err)
	gt.Value(t, n).Equal(int64(len(content)))
	gt.True(t, strings.HasPrefix(rel, "archives/"))
	gt.True(t, strings.HasSuffix(rel, ".zip"))

	blob, size, err := client.Open(ctx, rel)
	gt.NoError(t, err)
	defer blob.Close()

	gt.Value(t, size).Equal(int64(len(content)))
	read := make([]byte, size)
	_, err = blob.ReadAt(read, 0)
	gt.NoError(t, err)
	gt.True(t, bytes.Equal(read, content))
}

func TestClient_SaveGeneratesDistinctNames(t *testing.T) {
	ctx := context.Background()
	client := gt.R1(storage.New(t.TempDir())).NoError(t)

	first, _, err := client.Save(ctx, "archives", ".zip", strings.NewReader("a"))
	gt.NoError(t, err)
	second, _, err := client.Save(ctx, "archives", ".zip", strings.NewReader("b"))
	gt.NoError(t, err)

	gt.Value(t, first == second).Equal(false)
}

func TestClient_ContainmentCheck(t *testing.T) {
	ctx := context.Background()
	client := gt.R1(storage.New(t.TempDir())).NoError(t)

	for _, rel := range []string{
		"../escape.zip",
		"archives/../../escape.zip",
		"/etc/passwd",
		"",
	} {
		t.Run(rel, func(t *testing.T) {
			_, _, err := client.Open(ctx, rel)
			gt.True(t, errors.Is(err, types.ErrInvalidStoragePath))

			err = client.Delete(ctx, rel)
			gt.True(t, errors.Is(err, types.ErrInvalidStoragePath))
		})
	}
}

func TestClient_OpenMissingBlob(t *testing.T) {
	ctx := context.Background()
	client := gt.R1(storage.New(t.TempDir())).NoError(t)

	_, _, err := client.Open(ctx, "archives/nonexistent.zip")
	gt.True(t, errors.Is(err, types.ErrNotFound))
}

func TestClient_DeleteToleratesAbsence(t *testing.T) {
	ctx := context.Background()
	client := gt.R1(storage.New(t.TempDir())).NoError(t)

	gt.NoError(t, client.Delete(ctx, "archives/nonexistent.zip"))
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()
	client := gt.R1(storage.New(t.TempDir())).NoError(t)

	rel, _, err := client.Save(ctx, "archives", ".zip", strings.NewReader("payload"))
	gt.NoError(t, err)

	gt.NoError(t, client.Delete(ctx, rel))

	_, _, err = client.Open(ctx, rel)
	gt.True(t, errors.Is(err, types.ErrNotFound))
}

// slowReader yields one byte per read so cancellation lands mid-copy.
type slowReader struct {
	cancel context.CancelFunc
	reads  int
}

func (x *slowReader) Read(p []byte) (int, error) {
	x.reads++
	if x.reads == 2 {
		x.cancel()
	}
	if x.reads > 64 {
		return 0, io.EOF
	}
	p[0] = byte(x.reads)
	return 1, nil
}

func TestClient_CancelledSaveLeavesNoPartialFile(t *testing.T) {
	root := t.TempDir()
	client := gt.R1(storage.New(root)).NoError(t)

	ctx, cancel := context.WithCancel(context.Background())
	_, _, err := client.Save(ctx, "archives", ".zip", &slowReader{cancel: cancel})
	gt.True(t, errors.Is(err, context.Canceled))

	entries, err := os.ReadDir(filepath.Join(root, "archives"))
	gt.NoError(t, err)
	gt.Number(t, len(entries)).Equal(0)
}
