package repository

import (
	"context"
	"testing"
	"time"

	"photogallery/internal/entity"
	"photogallery/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlbumRepositoryPhotoMembership(t *testing.T) {
	db := testutil.NewDB(t)
	albums := NewAlbumRepository(db)
	photos := NewPhotoRepository(db)
	ctx := context.Background()
	owner := uuid.New()
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	album := &entity.Album{OwnerID: owner, Name: "Trips"}
	require.NoError(t, albums.Create(ctx, album))

	first := createPhoto(t, photos, owner, "first", "", base)
	second := createPhoto(t, photos, owner, "second", "", base.Add(time.Hour))

	require.NoError(t, albums.AddPhoto(ctx, album, first))
	require.NoError(t, albums.AddPhoto(ctx, album, second))

	stored, err := albums.FindByOwner(ctx, owner, album.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []uuid.UUID{second.ID, first.ID}, stored.PhotoIDs())

	require.NoError(t, albums.RemovePhoto(ctx, stored, first))
	stored, err = albums.FindByOwner(ctx, owner, album.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID}, stored.PhotoIDs())

	// deleting a photo drops its album links
	require.NoError(t, photos.Delete(ctx, second))
	stored, err = albums.FindByOwner(ctx, owner, album.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.PhotoIDs())
}

func TestAlbumRepositoryOwnershipAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	albums := NewAlbumRepository(db)
	photos := NewPhotoRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	album := &entity.Album{OwnerID: owner, Name: "Trips"}
	require.NoError(t, albums.Create(ctx, album))
	photo := createPhoto(t, photos, owner, "p", "", time.Now().UTC())
	require.NoError(t, albums.AddPhoto(ctx, album, photo))

	foreign, err := albums.FindByOwner(ctx, uuid.New(), album.ID)
	require.NoError(t, err)
	assert.Nil(t, foreign)

	require.NoError(t, albums.UpdateFields(ctx, album, map[string]any{"name": "Holidays"}))
	list, err := albums.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Holidays", list[0].Name)

	require.NoError(t, albums.Delete(ctx, album))
	gone, err := albums.FindByOwner(ctx, owner, album.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := photos.FindByOwner(ctx, owner, photo.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}
