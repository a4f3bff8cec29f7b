// Package router wires the HTTP routes and implements the form handlers.
// Every registry error is converted into a human-readable message on a
// re-rendered page or a redirect query parameter; no structured error
// crosses the HTTP boundary.
package router

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/linkwatch/internal/auth"
	"github.com/patric-chuzhbe/linkwatch/internal/authenticator"
	"github.com/patric-chuzhbe/linkwatch/internal/logger"
	"github.com/patric-chuzhbe/linkwatch/internal/models"
	"github.com/patric-chuzhbe/linkwatch/internal/user"
	"github.com/patric-chuzhbe/linkwatch/internal/view"
)

type linkRegistry interface {
	RegisterUser(ctx context.Context, username, password string) (string, error)
	LoginUser(ctx context.Context, username, password string) (*user.User, error)
	GetUser(ctx context.Context, userID string) (*user.User, error)
	AddLink(ctx context.Context, ownerID, rawURL string) (*models.Link, error)
	RemoveLink(ctx context.Context, ownerID, linkID string) error
	GetUserLinks(ctx context.Context, ownerID string) (models.UserLinks, error)
	Ping(ctx context.Context) error
}

type handlers struct {
	registry linkRegistry
	authGate authenticator.Authenticator
	views    *view.View
}

// New builds the chi router with all routes and middleware attached.
func New(
	registry linkRegistry,
	authGate authenticator.Authenticator,
	views *view.View,
) *chi.Mux {
	h := &handlers{
		registry: registry,
		authGate: authGate,
		views:    views,
	}

	router := chi.NewRouter()
	router.Use(logger.WithLoggingHTTPMiddleware)

	router.Get(`/`, func(response http.ResponseWriter, request *http.Request) {
		http.Redirect(response, request, "/login", http.StatusFound)
	})
	router.Get(`/ping`, h.getPing)

	router.Group(func(router chi.Router) {
		router.Use(authGate.RedirectIfAuthenticated)
		router.Get(`/login`, h.getLogin)
		router.Get(`/register`, h.getRegister)
	})

	router.Post(`/register`, h.postRegister)
	router.Post(`/login`, h.postLogin)
	router.Post(`/logout`, h.postLogout)

	router.Group(func(router chi.Router) {
		router.Use(authGate.RequireUser)
		router.Get(`/user/{userID}`, h.getUserPage)
		router.Post(`/user/{userID}`, h.postAddLink)
		router.Delete(`/user/{userID}/link/{linkID}`, h.deleteLink)
		router.Post(`/user/{userID}/link/{linkID}/delete`, h.deleteLink)
	})

	return router
}

// errorMessage maps a registry error to the text shown to the user.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrUsernameTooShort):
		return "Username must be at least 3 characters long."
	case errors.Is(err, models.ErrPasswordTooShort):
		return "Password must be at least 4 characters long."
	case errors.Is(err, models.ErrDuplicateUsername):
		return "This username is already taken."
	case errors.Is(err, models.ErrUserNotFound):
		return "No such user."
	case errors.Is(err, models.ErrInvalidURLFormat):
		return "Invalid URL format!"
	case errors.Is(err, models.ErrQuotaExceeded):
		return "Non-admin users may monitor at most 3 links!"
	case errors.Is(err, models.ErrDuplicateLink):
		return "This link is already added!"
	case errors.Is(err, models.ErrProbeFailed):
		return "The link did not respond to the reachability check."
	default:
		return "Something went wrong, please try again."
	}
}

func (h *handlers) getPing(response http.ResponseWriter, request *http.Request) {
	if err := h.registry.Ping(request.Context()); err != nil {
		logger.Log.Debugln("Error calling the `h.registry.Ping()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}
	response.WriteHeader(http.StatusOK)
}

func (h *handlers) getLogin(response http.ResponseWriter, request *http.Request) {
	h.renderLogin(response, "")
}

func (h *handlers) getRegister(response http.ResponseWriter, request *http.Request) {
	h.renderRegister(response, "")
}

func (h *handlers) postRegister(response http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		h.renderRegister(response, errorMessage(err))
		return
	}

	_, err := h.registry.RegisterUser(
		request.Context(),
		request.PostFormValue("username"),
		request.PostFormValue("password"),
	)
	if err != nil {
		logger.Log.Debugln("Error calling the `h.registry.RegisterUser()`: ", zap.Error(err))
		h.renderRegister(response, errorMessage(err))
		return
	}

	http.Redirect(response, request, "/login", http.StatusFound)
}

func (h *handlers) postLogin(response http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		h.renderLogin(response, errorMessage(err))
		return
	}

	usr, err := h.registry.LoginUser(
		request.Context(),
		request.PostFormValue("username"),
		request.PostFormValue("password"),
	)
	if err != nil {
		logger.Log.Debugln("Error calling the `h.registry.LoginUser()`: ", zap.Error(err))
		h.renderLogin(response, errorMessage(err))
		return
	}

	if err := h.authGate.IssueSession(response, usr.ID); err != nil {
		logger.Log.Debugln("Error calling the `h.authGate.IssueSession()`: ", zap.Error(err))
		h.renderLogin(response, errorMessage(err))
		return
	}

	http.Redirect(response, request, "/user/"+usr.ID, http.StatusFound)
}

func (h *handlers) postLogout(response http.ResponseWriter, request *http.Request) {
	h.authGate.ClearSession(response)
	http.Redirect(response, request, "/login", http.StatusFound)
}

func (h *handlers) getUserPage(response http.ResponseWriter, request *http.Request) {
	userID := auth.UserIDFromContext(request.Context())
	h.renderUserPage(response, request, userID, request.URL.Query().Get("error"))
}

func (h *handlers) postAddLink(response http.ResponseWriter, request *http.Request) {
	userID := auth.UserIDFromContext(request.Context())

	if err := request.ParseForm(); err != nil {
		h.renderUserPage(response, request, userID, errorMessage(err))
		return
	}

	_, err := h.registry.AddLink(request.Context(), userID, request.PostFormValue("link"))
	if err != nil {
		logger.Log.Debugln("Error calling the `h.registry.AddLink()`: ", zap.Error(err))
		h.renderUserPage(response, request, userID, errorMessage(err))
		return
	}

	http.Redirect(response, request, "/user/"+userID, http.StatusFound)
}

// deleteLink always redirects back to the user page; a failure is only
// surfaced through the error query parameter.
func (h *handlers) deleteLink(response http.ResponseWriter, request *http.Request) {
	userID := auth.UserIDFromContext(request.Context())
	linkID := chi.URLParam(request, "linkID")

	target := "/user/" + userID
	if err := h.registry.RemoveLink(request.Context(), userID, linkID); err != nil {
		logger.Log.Debugln("Error calling the `h.registry.RemoveLink()`: ", zap.Error(err))
		target += "?error=" + url.QueryEscape(errorMessage(err))
	}

	http.Redirect(response, request, target, http.StatusFound)
}

func (h *handlers) renderLogin(response http.ResponseWriter, errText string) {
	if err := h.views.RenderLogin(response, view.AuthPage{Error: errText}); err != nil {
		logger.Log.Debugln("Error calling the `h.views.RenderLogin()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *handlers) renderRegister(response http.ResponseWriter, errText string) {
	if err := h.views.RenderRegister(response, view.AuthPage{Error: errText}); err != nil {
		logger.Log.Debugln("Error calling the `h.views.RenderRegister()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *handlers) renderUserPage(
	response http.ResponseWriter,
	request *http.Request,
	userID string,
	errText string,
) {
	usr, err := h.registry.GetUser(request.Context(), userID)
	if err != nil {
		logger.Log.Debugln("Error calling the `h.registry.GetUser()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	links, err := h.registry.GetUserLinks(request.Context(), userID)
	if err != nil {
		logger.Log.Debugln("Error calling the `h.registry.GetUserLinks()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	page := models.UptimePage{
		User:  usr,
		Links: links,
		Error: errText,
	}
	if err := h.views.RenderUptime(response, page); err != nil {
		logger.Log.Debugln("Error calling the `h.views.RenderUptime()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
	}
}
