// Package storage declares the persistence interface shared by the
// postgres, file and in-memory backends.
package storage

import (
	"context"
	"database/sql"

	"github.com/patric-chuzhbe/linkwatch/internal/models"
	"github.com/patric-chuzhbe/linkwatch/internal/user"
)

// Storage is the full persistence contract of the service. The file and
// memory backends accept a nil *sql.Tx and execute non-transactionally.
type Storage interface {
	CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error)

	GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, error)

	FindUserByUsername(
		ctx context.Context,
		username string,
		transaction *sql.Tx,
	) (*user.User, bool, error)

	InsertLink(ctx context.Context, link *models.Link, transaction *sql.Tx) (string, error)

	DeleteLinkByOwnerAndID(ctx context.Context, ownerID, linkID string) (bool, error)

	FindLinksByOwner(ctx context.Context, ownerID string) (models.UserLinks, error)

	FindLinkByOwnerAndURL(
		ctx context.Context,
		ownerID,
		url string,
		transaction *sql.Tx,
	) (*models.Link, bool, error)

	CountLinksByOwner(ctx context.Context, ownerID string, transaction *sql.Tx) (int, error)

	GetAllLinks(ctx context.Context) (models.UserLinks, error)

	BeginTransaction() (*sql.Tx, error)

	RollbackTransaction(transaction *sql.Tx) error

	CommitTransaction(transaction *sql.Tx) error

	Ping(ctx context.Context) error

	Close() error
}
