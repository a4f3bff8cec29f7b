// Package mockstorage provides a testify-based mock implementation of the
// storage interface. It is used to unit-test the registry and the HTTP
// handlers without a real backend.
package mockstorage

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/linkwatch/internal/models"
	"github.com/patric-chuzhbe/linkwatch/internal/user"
)

// StorageMock is a testify mock that implements the storage interface.
type StorageMock struct {
	mock.Mock
}

// CreateUser mocks user creation and returns a generated ID.
func (m *StorageMock) CreateUser(ctx context.Context, usr *user.User, tx *sql.Tx) (string, error) {
	args := m.Called(ctx, usr, tx)
	return args.String(0), args.Error(1)
}

// GetUserByID mocks fetching a user by their ID.
func (m *StorageMock) GetUserByID(ctx context.Context, userID string, tx *sql.Tx) (*user.User, error) {
	args := m.Called(ctx, userID, tx)
	return args.Get(0).(*user.User), args.Error(1)
}

// FindUserByUsername mocks the login-name lookup.
func (m *StorageMock) FindUserByUsername(ctx context.Context, username string, tx *sql.Tx) (*user.User, bool, error) {
	args := m.Called(ctx, username, tx)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Bool(1), args.Error(2)
}

// InsertLink mocks inserting a new link.
func (m *StorageMock) InsertLink(ctx context.Context, link *models.Link, tx *sql.Tx) (string, error) {
	args := m.Called(ctx, link, tx)
	return args.String(0), args.Error(1)
}

// DeleteLinkByOwnerAndID mocks the ownership-scoped deletion.
func (m *StorageMock) DeleteLinkByOwnerAndID(ctx context.Context, ownerID, linkID string) (bool, error) {
	args := m.Called(ctx, ownerID, linkID)
	return args.Bool(0), args.Error(1)
}

// FindLinksByOwner mocks listing an owner's links.
func (m *StorageMock) FindLinksByOwner(ctx context.Context, ownerID string) (models.UserLinks, error) {
	args := m.Called(ctx, ownerID)
	links, _ := args.Get(0).(models.UserLinks)
	return links, args.Error(1)
}

// FindLinkByOwnerAndURL mocks the duplicate-URL lookup.
func (m *StorageMock) FindLinkByOwnerAndURL(
	ctx context.Context,
	ownerID,
	url string,
	tx *sql.Tx,
) (*models.Link, bool, error) {
	args := m.Called(ctx, ownerID, url, tx)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Bool(1), args.Error(2)
}

// CountLinksByOwner mocks the quota count.
func (m *StorageMock) CountLinksByOwner(ctx context.Context, ownerID string, tx *sql.Tx) (int, error) {
	args := m.Called(ctx, ownerID, tx)
	return args.Int(0), args.Error(1)
}

// GetAllLinks mocks the sweeper's system-wide link load.
func (m *StorageMock) GetAllLinks(ctx context.Context) (models.UserLinks, error) {
	args := m.Called(ctx)
	links, _ := args.Get(0).(models.UserLinks)
	return links, args.Error(1)
}

// BeginTransaction mocks the beginning of a transaction.
func (m *StorageMock) BeginTransaction() (*sql.Tx, error) {
	args := m.Called()
	tx, _ := args.Get(0).(*sql.Tx)
	return tx, args.Error(1)
}

// CommitTransaction mocks committing a transaction.
func (m *StorageMock) CommitTransaction(tx *sql.Tx) error {
	args := m.Called(tx)
	return args.Error(0)
}

// RollbackTransaction mocks rolling back a transaction.
func (m *StorageMock) RollbackTransaction(tx *sql.Tx) error {
	args := m.Called(tx)
	return args.Error(0)
}

// Ping mocks the storage health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks closing the storage.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
