package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/model"
	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/types"
	"github.com/Gravesjacob778/visualflow-assets/pkg/infra/db"
)

func newTestClient(t *testing.T) *db.Client {
	t.Helper()
	client := gt.R1(db.Open(":memory:")).NoError(t)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testArchive(id string, createdAt time.Time) *model.UploadedArchive {
	return &model.UploadedArchive{
		ID:             types.ArchiveID(id),
		FileName:       "robot.zip",
		DeclaredSize:   2048,
		ContentType:    "application/zip",
		Classification: model.ClassificationRobot,
		Members: []model.ArchiveMember{
			{Path: "model.gltf", Size: 256},
			{Path: "textures/arm.png", Size: 1024},
		},
		TotalUncompressedSize: 1280,
		StoragePath:           "archives/" + id + ".zip",
		CreatedAt:             createdAt,
	}
}

func TestClient_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	want := testArchive("arch-1", time.Now().UTC().Truncate(time.Millisecond))
	gt.NoError(t, client.Create(ctx, want))

	got := gt.R1(client.Get(ctx, want.ID)).NoError(t)

	gt.Value(t, got.ID).Equal(want.ID)
	gt.Value(t, got.FileName).Equal(want.FileName)
	gt.Value(t, got.Classification).Equal(want.Classification)
	gt.Value(t, got.TotalUncompressedSize).Equal(want.TotalUncompressedSize)
	gt.Value(t, got.StoragePath).Equal(want.StoragePath)
	gt.Number(t, len(got.Members)).Equal(2)
	gt.Value(t, got.Members[1].Path).Equal("textures/arm.png")
	gt.True(t, got.CreatedAt.Equal(want.CreatedAt))
}

func TestClient_GetMissing(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.Get(ctx, "no-such-id")
	gt.True(t, errors.Is(err, types.ErrNotFound))
}

func TestClient_List(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	base := time.Now().UTC()
	gt.NoError(t, client.Create(ctx, testArchive("arch-old", base.Add(-time.Hour))))
	gt.NoError(t, client.Create(ctx, testArchive("arch-new", base)))

	archives := gt.R1(client.List(ctx, 10)).NoError(t)
	gt.Number(t, len(archives)).Equal(2)
	gt.Value(t, archives[0].ID).Equal(types.ArchiveID("arch-new"))

	limited := gt.R1(client.List(ctx, 1)).NoError(t)
	gt.Number(t, len(limited)).Equal(1)
}

func TestClient_ListSubsecondOrder(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	// A whole-second timestamp next to fractional neighbors: trimmed
	// fractional digits would make "...00Z" sort after "...00.5Z".
	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	gt.NoError(t, client.Create(ctx, testArchive("arch-a", base)))
	gt.NoError(t, client.Create(ctx, testArchive("arch-b", base.Add(500*time.Millisecond))))
	gt.NoError(t, client.Create(ctx, testArchive("arch-c", base.Add(time.Second))))

	archives := gt.R1(client.List(ctx, 10)).NoError(t)
	gt.Number(t, len(archives)).Equal(3)
	gt.Value(t, archives[0].ID).Equal(types.ArchiveID("arch-c"))
	gt.Value(t, archives[1].ID).Equal(types.ArchiveID("arch-b"))
	gt.Value(t, archives[2].ID).Equal(types.ArchiveID("arch-a"))
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	record := testArchive("arch-del", time.Now().UTC())
	gt.NoError(t, client.Create(ctx, record))
	gt.NoError(t, client.Delete(ctx, record.ID))

	_, err := client.Get(ctx, record.ID)
	gt.True(t, errors.Is(err, types.ErrNotFound))

	err = client.Delete(ctx, record.ID)
	gt.True(t, errors.Is(err, types.ErrNotFound))
}
