// Package auth implements the cookie-backed session gate. Identity is an
// HS256-signed JWT carried in a cookie; the registry and the storage
// layer never see the cookie itself, only the resolved user id.
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/linkwatch/internal/logger"
	"github.com/patric-chuzhbe/linkwatch/internal/user"
)

type userKeeper interface {
	GetUserByID(ctx context.Context, userID string, transaction *sql.Tx) (*user.User, error)
}

// Auth resolves and issues session cookies.
type Auth struct {
	// db is the interface to the user data storage.
	db userKeeper

	// authCookieName is the name of the cookie used to store the JWT.
	authCookieName string

	// authCookieSigningSecretKey is the key used to sign JWTs.
	authCookieSigningSecretKey []byte

	// tokenTTL bounds the lifetime of an issued session.
	tokenTTL time.Duration
}

// Claims represents the JWT claims used by the system.
// It embeds standard JWT claims and adds a user-specific identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserIDKey is the context key used to store and retrieve the authenticated user's ID.
const UserIDKey ContextKey = "userID"

// New creates an Auth gate over the given user storage.
func New(
	db userKeeper,
	authCookieName string,
	authCookieSigningSecretKey []byte,
	tokenTTL time.Duration,
) *Auth {
	return &Auth{
		db:                         db,
		authCookieName:             authCookieName,
		authCookieSigningSecretKey: authCookieSigningSecretKey,
		tokenTTL:                   tokenTTL,
	}
}

// UserIDFromContext returns the authenticated user's id stored by
// RequireUser, or "" when the request is anonymous.
func UserIDFromContext(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return ""
	}

	return userID
}

// RequireUser is an HTTP middleware that resolves the session cookie into
// a stored user and puts the user id into the request context. Anonymous
// or stale sessions are redirected to the login page.
func (a *Auth) RequireUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		userID := a.resolveUserID(request)
		if userID == "" {
			http.Redirect(response, request, "/login", http.StatusFound)
			return
		}

		usr, err := a.db.GetUserByID(request.Context(), userID, nil)
		if err != nil {
			logger.Log.Debugln("Error calling the `a.db.GetUserByID()`: ", zap.Error(err))
			response.WriteHeader(http.StatusInternalServerError)
			return
		}
		if usr.ID == "" {
			http.Redirect(response, request, "/login", http.StatusFound)
			return
		}

		ctx := context.WithValue(request.Context(), UserIDKey, usr.ID)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

// RedirectIfAuthenticated sends callers that already hold a valid session
// to their user page. Anonymous callers pass through to the wrapped
// handler (the login or register page).
func (a *Auth) RedirectIfAuthenticated(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		userID := a.resolveUserID(request)
		if userID != "" {
			http.Redirect(response, request, "/user/"+userID, http.StatusFound)
			return
		}

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}

// IssueSession signs a JWT for userID and sets it as the session cookie.
func (a *Auth) IssueSession(response http.ResponseWriter, userID string) error {
	JWTString, err := a.buildJWTString(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenTTL)),
		},
		UserID: userID,
	})
	if err != nil {
		return err
	}

	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.authCookieName,
			Value:    JWTString,
			Path:     "/",
			HttpOnly: true,
		},
	)

	return nil
}

// ClearSession expires the session cookie.
func (a *Auth) ClearSession(response http.ResponseWriter) {
	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.authCookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		},
	)
}

func (a *Auth) resolveUserID(request *http.Request) string {
	cookie, err := request.Cookie(a.authCookieName)
	if err != nil {
		return ""
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		cookie.Value,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.authCookieSigningSecretKey, nil
		},
	)
	if err != nil || !token.Valid {
		return ""
	}

	return claims.UserID
}

func (a *Auth) buildJWTString(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, *claims)

	tokenString, err := token.SignedString(a.authCookieSigningSecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
