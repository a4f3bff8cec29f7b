// Package authenticator declares the session-gate contract consumed by
// the router. The concrete implementation lives in the auth package.
package authenticator

import "net/http"

// Authenticator gates user-scoped routes and manages the session cookie.
type Authenticator interface {
	// RequireUser resolves the caller's identity into the request context,
	// redirecting anonymous callers to the login page.
	RequireUser(h http.Handler) http.Handler

	// RedirectIfAuthenticated sends already-logged-in callers to their
	// user page; anonymous callers pass through.
	RedirectIfAuthenticated(h http.Handler) http.Handler

	// IssueSession sets a signed session cookie for the given user.
	IssueSession(response http.ResponseWriter, userID string) error

	// ClearSession expires the session cookie.
	ClearSession(response http.ResponseWriter)
}
