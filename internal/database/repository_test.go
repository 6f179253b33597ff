package database_test

import (
	"context"
	"testing"

	"station-api/internal/attachments"
	"station-api/internal/database"
	"station-api/internal/database/dbtest"
	"station-api/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnnouncement(title string, recs ...attachments.Record) *models.Announcement {
	return &models.Announcement{
		StationID:   uuid.New(),
		Title:       title,
		Details:     "details",
		Status:      "active",
		Attachments: recs,
	}
}

func TestCreateAndFindRoundTripsAttachments(t *testing.T) {
	ctx := context.Background()
	repo := database.NewRepository[models.Announcement](dbtest.New(t))

	rec := attachments.NewRecord("zeros.png", "image/png", []byte{0, 0, 0})
	a := newAnnouncement("notice", rec)
	require.NoError(t, repo.Create(ctx, a))
	require.NotEqual(t, uuid.Nil, a.ID)

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Attachments, 1)

	stored := got.Attachments[0]
	data, err := stored.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0}, data)
	assert.Equal(t, int64(3), stored.Size)
	assert.Equal(t, rec.ID, stored.ID)
	assert.Equal(t, "image/png", stored.Mimetype)
}

func TestSaveRejectsSizeDrift(t *testing.T) {
	ctx := context.Background()
	repo := database.NewRepository[models.Announcement](dbtest.New(t))

	rec := attachments.NewRecord("a.bin", "application/octet-stream", []byte{1, 2})
	rec.Size = 5

	err := repo.Create(ctx, newAnnouncement("drift", rec))
	assert.ErrorIs(t, err, attachments.ErrSizeMismatch)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := database.NewRepository[models.Announcement](dbtest.New(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestFindFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	repo := database.NewRepository[models.Clearance](dbtest.New(t))

	owner := uuid.New()
	for _, purpose := range []string{"employment", "travel"} {
		require.NoError(t, repo.Create(ctx, &models.Clearance{UserID: owner, Purpose: purpose}))
	}
	require.NoError(t, repo.Create(ctx, &models.Clearance{UserID: uuid.New(), Purpose: "other"}))

	mine, err := repo.Find(ctx, database.Query{
		Where: map[string]any{"user_id": owner},
		Order: "purpose desc",
	})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "travel", mine[0].Purpose)
	assert.Equal(t, models.ClearanceStatusPending, mine[0].Status)

	all, err := repo.Find(ctx, database.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := database.NewRepository[models.Announcement](dbtest.New(t))

	a := newAnnouncement("bye")
	require.NoError(t, repo.Create(ctx, a))

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), database.ErrNotFound)
}

func TestEachVisitsEveryRow(t *testing.T) {
	ctx := context.Background()
	repo := database.NewRepository[models.Announcement](dbtest.New(t))

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, newAnnouncement("n")))
	}

	seen := 0
	require.NoError(t, repo.Each(ctx, 2, func(a *models.Announcement) error {
		seen++
		return nil
	}))
	assert.Equal(t, 5, seen)
}

func TestBlotterNumbering(t *testing.T) {
	ctx := context.Background()
	repo := database.NewRepository[models.Blotter](dbtest.New(t))

	first := &models.Blotter{UserID: uuid.New()}
	second := &models.Blotter{UserID: uuid.New()}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Regexp(t, `^BLT-\d{6}-000001$`, first.BlotterNumber)
	assert.Regexp(t, `^BLT-\d{6}-000002$`, second.BlotterNumber)
	assert.Equal(t, models.BlotterStatusPending, first.Status)
}

func TestOfficerPictureSingleton(t *testing.T) {
	ctx := context.Background()
	repo := database.NewRepository[models.Officer](dbtest.New(t))

	o := &models.Officer{FirstName: "Ana", LastName: "Cruz", Email: "ana@example.com"}
	require.NoError(t, attachments.Set(o, attachments.List{attachments.NewRecord("me.jpg", "image/jpeg", []byte{0xff, 0xd8})}))
	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ProfilePicture)
	assert.Equal(t, "me.jpg", got.ProfilePicture.Filename)
	assert.Len(t, got.AttachmentList(), 1)

	got.SetAttachmentList(nil)
	require.NoError(t, repo.Save(ctx, got))

	again, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Nil(t, again.ProfilePicture)
}
