// Package user defines the user model used throughout the application,
// particularly for authentication and link ownership.
package user

// User represents a system user.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID string `json:"id"`

	// Username is the unique login name chosen at registration.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the user's password. The plaintext
	// is never stored.
	PasswordHash string `json:"password_hash"`

	// IsAdmin marks accounts exempt from the link quota. It is set only by
	// an out-of-band provisioning path, never through a handler.
	IsAdmin bool `json:"is_admin"`
}
