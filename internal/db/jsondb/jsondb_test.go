package jsondb

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/linkwatch/internal/models"
	"github.com/patric-chuzhbe/linkwatch/internal/user"
)

const testDBFileName = "db_test.json"

func Test(t *testing.T) {
	t.Run("The base jsondb package test", func(t *testing.T) {
		theStorage, err := New(testDBFileName)
		require.NoError(t, err)
		require.NotNil(t, theStorage)
		defer func() {
			err := theStorage.Close()
			require.NoError(t, err)
			err = os.Remove(testDBFileName)
			require.NoError(t, err)
		}()

		ownerID, err := theStorage.CreateUser(
			context.Background(),
			&user.User{Username: "somebody", PasswordHash: "some hash"},
			nil,
		)
		assert.NoError(t, err, "The `theStorage.CreateUser()` should not return error")
		assert.NotEmpty(t, ownerID)

		usr, err := theStorage.GetUserByID(context.Background(), ownerID, nil)
		assert.NoError(t, err)
		assert.Equal(t, "somebody", usr.Username)

		usr, found, err := theStorage.FindUserByUsername(context.Background(), "somebody", nil)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, ownerID, usr.ID)

		_, found, err = theStorage.FindUserByUsername(context.Background(), "nobody", nil)
		assert.NoError(t, err)
		assert.False(t, found)

		linkID, err := theStorage.InsertLink(
			context.Background(),
			&models.Link{OwnerID: ownerID, URL: "https://example.com"},
			nil,
		)
		assert.NoError(t, err, "The `theStorage.InsertLink()` should not return error")
		assert.NotEmpty(t, linkID)

		links, err := theStorage.FindLinksByOwner(context.Background(), ownerID)
		assert.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://example.com", links[0].URL)

		_, found, err = theStorage.FindLinkByOwnerAndURL(context.Background(), ownerID, "https://example.com", nil)
		assert.NoError(t, err)
		assert.True(t, found)

		count, err := theStorage.CountLinksByOwner(context.Background(), ownerID, nil)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)

		all, err := theStorage.GetAllLinks(context.Background())
		assert.NoError(t, err)
		assert.Len(t, all, 1)

		deleted, err := theStorage.DeleteLinkByOwnerAndID(context.Background(), "someone else", linkID)
		assert.NoError(t, err)
		assert.False(t, deleted, "a foreign owner must not delete the link")

		deleted, err = theStorage.DeleteLinkByOwnerAndID(context.Background(), ownerID, linkID)
		assert.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = theStorage.DeleteLinkByOwnerAndID(context.Background(), ownerID, linkID)
		assert.NoError(t, err)
		assert.False(t, deleted, "deleting twice should be a no-op")
	})
}

func TestPersistsAcrossReopen(t *testing.T) {
	fileName := "db_reopen_test.json"
	defer os.Remove(fileName)

	theStorage, err := New(fileName)
	require.NoError(t, err)

	ownerID, err := theStorage.CreateUser(context.Background(), &user.User{Username: "keeper"}, nil)
	require.NoError(t, err)
	_, err = theStorage.InsertLink(context.Background(), &models.Link{OwnerID: ownerID, URL: "example.com"}, nil)
	require.NoError(t, err)
	require.NoError(t, theStorage.Close())

	reopened, err := New(fileName)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	links, err := reopened.FindLinksByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}
