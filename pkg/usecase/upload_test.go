package usecase_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/Gravesjacob778/visualflow-assets/pkg/archive"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/interfaces"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/model"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
	"github.com/Gravesjacob778/visualflow-assets/pkg/usecase"
)

// memRepo is an in-memory ArchiveRepository.
type memRepo struct {
	records    map[types.ArchiveID]*model.UploadedArchive
	failCreate bool
}

func newMemRepo() *memRepo {
	return &memRepo{records: map[types.ArchiveID]*model.UploadedArchive{}}
}

func (x *memRepo) Create(ctx context.Context, archive *model.UploadedArchive) error {
	if x.failCreate {
		return errors.New("insert failed")
	}
	x.records[archive.ID] = archive
	return nil
}

func (x *memRepo) Get(ctx context.Context, id types.ArchiveID) (*model.UploadedArchive, error) {
	record, ok := x.records[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return record, nil
}

func (x *memRepo) List(ctx context.Context, limit int) ([]*model.UploadedArchive, error) {
	var out []*model.UploadedArchive
	for _, r := range x.records {
		if len(out) >= limit {
			break
		}
		out = append(out, r)
	}
	return out, nil
}

func (x *memRepo) Delete(ctx context.Context, id types.ArchiveID) error {
	if _, ok := x.records[id]; !ok {
		return types.ErrNotFound
	}
	delete(x.records, id)
	return nil
}

// memStorage is an in-memory Storage.
type memStorage struct {
	blobs map[string][]byte
	seq   int
}

func newMemStorage() *memStorage {
	return &memStorage{blobs: map[string][]byte{}}
}

type memBlob struct {
	*bytes.Reader
}

func (memBlob) Close() error { return nil }

func (x *memStorage) Save(ctx context.Context, dir, ext string, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	x.seq++
	rel := fmt.Sprintf("%s/blob-%d%s", dir, x.seq, ext)
	x.blobs[rel] = data
	return rel, int64(len(data)), nil
}

func (x *memStorage) Open(ctx context.Context, rel string) (interfaces.BlobHandle, int64, error) {
	data, ok := x.blobs[rel]
	if !ok {
		return nil, 0, types.ErrNotFound
	}
	return memBlob{bytes.NewReader(data)}, int64(len(data)), nil
}

func (x *memStorage) Delete(ctx context.Context, rel string) error {
	delete(x.blobs, rel)
	return nil
}

type zipEntry struct {
	name string
	data []byte
}

func createTestZip(t *testing.T, entries []zipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		gt.NoError(t, err)
		_, err = w.Write(e.data)
		gt.NoError(t, err)
	}
	gt.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestUseCase(repo *memRepo, store *memStorage) interfaces.ArchiveUseCase {
	return usecase.NewArchive(repo, store,
		archive.NewValidator(archive.DefaultPolicy()), 50<<20, nil)
}

func uploadInput(data []byte, classification string) *model.UploadInput {
	return &model.UploadInput{
		FileName:       "robot.zip",
		Size:           int64(len(data)),
		ContentType:    "application/zip",
		Classification: classification,
		Data:           bytes.NewReader(data),
	}
}

func TestArchiveUseCase_Upload(t *testing.T) {
	ctx := context.Background()

	validZip := func(t *testing.T) []byte {
		return createTestZip(t, []zipEntry{
			{name: "model.gltf", data: []byte(`{"asset":{"version":"2.0"}}`)},
			{name: "texture.png", data: bytes.Repeat([]byte{0xAA}, 64)},
			{name: "mesh.bin", data: bytes.Repeat([]byte{0xBB}, 128)},
		})
	}

	t.Run("accepts a valid package with default classification", func(t *testing.T) {
		repo, store := newMemRepo(), newMemStorage()
		uc := newTestUseCase(repo, store)

		record := gt.R1(uc.Upload(ctx, uploadInput(validZip(t), ""))).NoError(t)

		gt.Value(t, record.Classification).Equal(model.ClassificationOther)
		gt.Number(t, len(record.Members)).Equal(3)
		gt.Number(t, len(repo.records)).Equal(1)
		gt.Number(t, len(store.blobs)).Equal(1)
		gt.True(t, record.TotalUncompressedSize > 0)
	})

	t.Run("keeps explicit classification", func(t *testing.T) {
		repo, store := newMemRepo(), newMemStorage()
		uc := newTestUseCase(repo, store)

		record := gt.R1(uc.Upload(ctx, uploadInput(validZip(t), "robot"))).NoError(t)
		gt.Value(t, record.Classification).Equal(model.ClassificationRobot)
	})

	t.Run("rejects unknown classification", func(t *testing.T) {
		repo, store := newMemRepo(), newMemStorage()
		uc := newTestUseCase(repo, store)

		_, err := uc.Upload(ctx, uploadInput(validZip(t), "weapon"))
		gt.Error(t, err)
		gt.Number(t, len(store.blobs)).Equal(0)
	})

	t.Run("rejects forbidden content without writing storage", func(t *testing.T) {
		repo, store := newMemRepo(), newMemStorage()
		uc := newTestUseCase(repo, store)

		data := createTestZip(t, []zipEntry{
			{name: "model.gltf", data: []byte("{}")},
			{name: "payload.exe", data: []byte("MZ")},
		})

		_, err := uc.Upload(ctx, uploadInput(data, ""))
		gt.True(t, errors.Is(err, types.ErrForbiddenContent))
		gt.Number(t, len(store.blobs)).Equal(0)
		gt.Number(t, len(repo.records)).Equal(0)
	})

	t.Run("rejects non-zip file name", func(t *testing.T) {
		repo, store := newMemRepo(), newMemStorage()
		uc := newTestUseCase(repo, store)

		input := uploadInput(validZip(t), "")
		input.FileName = "robot.tar.gz"

		_, err := uc.Upload(ctx, input)
		gt.Error(t, err)
	})

	t.Run("rejects zero and oversized declared length", func(t *testing.T) {
		repo, store := newMemRepo(), newMemStorage()
		uc := newTestUseCase(repo, store)

		input := uploadInput(validZip(t), "")
		input.Size = 0
		_, err := uc.Upload(ctx, input)
		gt.Error(t, err)

		input = uploadInput(validZip(t), "")
		input.Size = (50 << 20) + 1
		_, err = uc.Upload(ctx, input)
		gt.Error(t, err)
	})

	t.Run("failed record insert leaves no referenced blob", func(t *testing.T) {
		repo, store := newMemRepo(), newMemStorage()
		repo.failCreate = true
		uc := newTestUseCase(repo, store)

		_, err := uc.Upload(ctx, uploadInput(validZip(t), ""))
		gt.Error(t, err)
		gt.Number(t, len(repo.records)).Equal(0)
	})
}

func TestArchiveUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	repo, store := newMemRepo(), newMemStorage()
	uc := newTestUseCase(repo, store)

	data := createTestZip(t, []zipEntry{
		{name: "model.gltf", data: []byte("{}")},
	})
	record := gt.R1(uc.Upload(ctx, uploadInput(data, ""))).NoError(t)

	gt.NoError(t, uc.Delete(ctx, record.ID))
	gt.Number(t, len(repo.records)).Equal(0)
	gt.Number(t, len(store.blobs)).Equal(0)

	err := uc.Delete(ctx, record.ID)
	gt.True(t, errors.Is(err, types.ErrNotFound))
}
