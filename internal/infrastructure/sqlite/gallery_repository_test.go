package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/roomstyler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *GalleryRepository {
	t.Helper()
	repo, err := NewGalleryRepository(filepath.Join(t.TempDir(), "nested", "gallery.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestGalleryRepository_InsertAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	image := &domain.GalleryImage{
		PublicID:         "hackathon-gallery/abc",
		URL:              "https://res.test/abc.png",
		OriginalFilename: "room.png",
		Width:            1024,
		Height:           768,
		Format:           "png",
		Bytes:            2048,
		DesignData:       `{"furniture":[]}`,
	}

	id, err := repo.Insert(ctx, image)
	require.NoError(t, err)
	assert.Equal(t, id, image.ID)
	assert.False(t, image.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hackathon-gallery/abc", found.PublicID)
	assert.Equal(t, "room.png", found.OriginalFilename)
	assert.Equal(t, 1024, found.Width)
	assert.Equal(t, 768, found.Height)
	assert.Equal(t, "png", found.Format)
	assert.Equal(t, 2048, found.Bytes)
	assert.Equal(t, `{"furniture":[]}`, found.DesignData)
	assert.WithinDuration(t, image.CreatedAt, found.CreatedAt, time.Second)
}

func TestGalleryRepository_OptionalFieldsMayBeEmpty(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, &domain.GalleryImage{PublicID: "p", URL: "u"})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, found.OriginalFilename)
	assert.Empty(t, found.DesignData)
	assert.Zero(t, found.Width)
}

func TestGalleryRepository_ListNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, name := range []string{"oldest", "middle", "newest"} {
		_, err := repo.Insert(ctx, &domain.GalleryImage{
			PublicID:  name,
			URL:       "https://res.test/" + name,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	images, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "newest", images[0].PublicID)
	assert.Equal(t, "middle", images[1].PublicID)

	images, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "oldest", images[0].PublicID)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestGalleryRepository_ListEmpty(t *testing.T) {
	repo := newTestRepository(t)

	images, err := repo.List(context.Background(), 30, 0)

	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestGalleryRepository_Delete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, &domain.GalleryImage{PublicID: "p", URL: "u"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Delete(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGalleryRepository_MigratesOldSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.sqlite")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		public_id TEXT NOT NULL,
		url TEXT NOT NULL,
		original_filename TEXT,
		width INTEGER,
		height INTEGER,
		format TEXT,
		bytes INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO images (public_id, url) VALUES ('legacy', 'https://res.test/legacy')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	repo, err := NewGalleryRepository(path)
	require.NoError(t, err)
	defer repo.Close()

	images, err := repo.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "legacy", images[0].PublicID)
	assert.Empty(t, images[0].DesignData)
	assert.False(t, images[0].CreatedAt.IsZero())

	_, err = repo.Insert(context.Background(), &domain.GalleryImage{PublicID: "new", URL: "u", DesignData: "{}"})
	assert.NoError(t, err)
}
