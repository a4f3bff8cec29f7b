// Package registry implements the link registry and the account
// operations. It mediates creation and deletion of links while enforcing
// ownership, quota and uniqueness invariants, and owns the
// register/login rules around users.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/patric-chuzhbe/linkwatch/internal/models"
	"github.com/patric-chuzhbe/linkwatch/internal/urlcheck"
	"github.com/patric-chuzhbe/linkwatch/internal/user"
)

type userKeeper interface {
	CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error)
	GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, error)
	FindUserByUsername(ctx context.Context, username string, transaction *sql.Tx) (*user.User, bool, error)
}

type linksKeeper interface {
	InsertLink(ctx context.Context, link *models.Link, transaction *sql.Tx) (string, error)
	DeleteLinkByOwnerAndID(ctx context.Context, ownerID, linkID string) (bool, error)
	FindLinksByOwner(ctx context.Context, ownerID string) (models.UserLinks, error)
	FindLinkByOwnerAndURL(ctx context.Context, ownerID, url string, transaction *sql.Tx) (*models.Link, bool, error)
	CountLinksByOwner(ctx context.Context, ownerID string, transaction *sql.Tx) (int, error)
}

type transactioner interface {
	BeginTransaction() (*sql.Tx, error)
	RollbackTransaction(transaction *sql.Tx) error
	CommitTransaction(transaction *sql.Tx) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	userKeeper
	linksKeeper
	transactioner
	pinger
}

type reachabilityProber interface {
	Probe(ctx context.Context, rawURL string) (float64, error)
}

// Registry is the service layer in front of the storage backends.
type Registry struct {
	db     storage
	prober reachabilityProber
}

// New creates a Registry over the given storage and probe implementation.
func New(db storage, prober reachabilityProber) *Registry {
	return &Registry{
		db:     db,
		prober: prober,
	}
}

// RegisterUser creates an account after validating the form fields.
// The password is stored only as a bcrypt hash.
func (r *Registry) RegisterUser(ctx context.Context, username, password string) (string, error) {
	if len(username) < models.MinUsernameLength {
		return "", models.ErrUsernameTooShort
	}

	if len(password) < models.MinPasswordLength {
		return "", models.ErrPasswordTooShort
	}

	_, found, err := r.db.FindUserByUsername(ctx, username, nil)
	if err != nil {
		return "", err
	}
	if found {
		return "", models.ErrDuplicateUsername
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return r.db.CreateUser(
		ctx,
		&user.User{
			Username:     username,
			PasswordHash: string(passwordHash),
		},
		nil,
	)
}

// LoginUser verifies the credentials and returns the stored user.
// Unknown name and wrong password both map to ErrUserNotFound so the
// login page reveals nothing about which field was wrong.
func (r *Registry) LoginUser(ctx context.Context, username, password string) (*user.User, error) {
	usr, found, err := r.db.FindUserByUsername(ctx, username, nil)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrUserNotFound
	}

	return usr, nil
}

// GetUser resolves an owner id to the stored user.
func (r *Registry) GetUser(ctx context.Context, userID string) (*user.User, error) {
	usr, err := r.db.GetUserByID(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if usr.ID == "" {
		return nil, models.ErrUserNotFound
	}

	return usr, nil
}

// AddLink validates rawURL, enforces the quota and uniqueness invariants,
// probes the target once and persists the link with the measured latency.
// The link is never stored without a successful probe. The quota and
// duplicate checks run in the same transaction as the insert; the UNIQUE
// (owner_id, url) constraint of the postgres backend is the atomic
// backstop for concurrent callers.
func (r *Registry) AddLink(ctx context.Context, ownerID, rawURL string) (*models.Link, error) {
	if !urlcheck.IsValid(rawURL) {
		return nil, models.ErrInvalidURLFormat
	}

	owner, err := r.GetUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTransaction()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.db.RollbackTransaction(tx)
	}()

	if !owner.IsAdmin {
		count, err := r.db.CountLinksByOwner(ctx, owner.ID, tx)
		if err != nil {
			return nil, err
		}
		if count >= models.MaxLinksPerUser {
			return nil, models.ErrQuotaExceeded
		}
	}

	_, found, err := r.db.FindLinkByOwnerAndURL(ctx, owner.ID, rawURL, tx)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, models.ErrDuplicateLink
	}

	latency, err := r.prober.Probe(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrProbeFailed, err)
	}

	link := &models.Link{
		OwnerID:    owner.ID,
		URL:        rawURL,
		LastPingMs: &latency,
	}
	linkID, err := r.db.InsertLink(ctx, link, tx)
	if err != nil {
		return nil, err
	}

	if err := r.db.CommitTransaction(tx); err != nil {
		return nil, err
	}
	link.ID = linkID

	return link, nil
}

// RemoveLink deletes the owner's link. A foreign or unknown id is a
// silent no-op: the route always redirects regardless of outcome, and
// the ownership scoping makes the no-op indistinguishable from a miss.
func (r *Registry) RemoveLink(ctx context.Context, ownerID, linkID string) error {
	_, err := r.db.DeleteLinkByOwnerAndID(ctx, ownerID, linkID)

	return err
}

// GetUserLinks lists every link owned by ownerID.
func (r *Registry) GetUserLinks(ctx context.Context, ownerID string) (models.UserLinks, error) {
	return r.db.FindLinksByOwner(ctx, ownerID)
}

// Ping checks the health of the storage layer.
func (r *Registry) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// IsDomainError reports whether err is one of the registry's sentinel
// errors, i.e. safe to show to the user verbatim.
func IsDomainError(err error) bool {
	for _, sentinel := range []error{
		models.ErrInvalidURLFormat,
		models.ErrQuotaExceeded,
		models.ErrDuplicateLink,
		models.ErrProbeFailed,
		models.ErrUserNotFound,
		models.ErrDuplicateUsername,
		models.ErrUsernameTooShort,
		models.ErrPasswordTooShort,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}
