// Package models holds the domain entities shared between the registry,
// the sweeper and the storage backends, together with the sentinel errors
// the handlers translate into user-facing messages.
package models

import (
	"errors"

	"github.com/patric-chuzhbe/linkwatch/internal/user"
)

// Link is a monitored URL owned by a user.
type Link struct {
	// ID is the unique identifier of the link, meaning a UUID.
	ID string `json:"id"`

	// OwnerID references the owning user. It is used only for lookup and
	// filtering, never for lifecycle control.
	OwnerID string `json:"owner_id"`

	// URL is the monitored address as the owner submitted it.
	URL string `json:"url"`

	// LastPingMs is the latency measured by the reachability probe that ran
	// when the link was created. The sweeper does not refresh it.
	LastPingMs *float64 `json:"last_ping_ms,omitempty"`
}

// UserLinks is the set of links rendered on a user's page.
type UserLinks []Link

// UptimePage is the view model handed to the presentation layer.
type UptimePage struct {
	User  *user.User
	Links UserLinks
	Error string
}

// MaxLinksPerUser is the quota applied to non-admin owners.
const MaxLinksPerUser = 3

// MinUsernameLength and MinPasswordLength bound the registration form fields.
const (
	MinUsernameLength = 3
	MinPasswordLength = 4
)

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)

var (
	// ErrInvalidURLFormat is returned when a submitted link fails the
	// URL-shape predicate. No probe is attempted in that case.
	ErrInvalidURLFormat = errors.New("invalid URL format")

	// ErrQuotaExceeded is returned when a non-admin owner already holds
	// MaxLinksPerUser links.
	ErrQuotaExceeded = errors.New("link quota exceeded")

	// ErrDuplicateLink is returned when the owner already monitors the URL.
	ErrDuplicateLink = errors.New("link already added")

	// ErrProbeFailed is returned when the creation-time reachability probe
	// does not succeed. The link is not persisted.
	ErrProbeFailed = errors.New("reachability probe failed")

	// ErrUnauthenticated is returned when no caller identity could be
	// resolved for a user-scoped operation.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUserNotFound is returned when an owner id or login name resolves
	// to no stored user.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUsername is returned on registration with a taken name.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrUsernameTooShort is returned before any storage access when the
	// submitted username is shorter than MinUsernameLength.
	ErrUsernameTooShort = errors.New("username too short")

	// ErrPasswordTooShort is returned before any storage access when the
	// submitted password is shorter than MinPasswordLength.
	ErrPasswordTooShort = errors.New("password too short")
)
