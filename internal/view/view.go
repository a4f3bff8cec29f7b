// Package view renders the server-side HTML pages. It is a thin
// presentation collaborator: handlers hand it a view model and it writes
// the page; no business rule lives here.
package view

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/patric-chuzhbe/linkwatch/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// AuthPage is the view model of the login and register pages.
type AuthPage struct {
	Error string
}

// View holds the parsed page templates.
type View struct {
	templates *template.Template
}

// New parses the embedded templates.
func New() (*View, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &View{templates: templates}, nil
}

// RenderLogin writes the login page.
func (v *View) RenderLogin(response http.ResponseWriter, page AuthPage) error {
	return v.render(response, "login.html", page)
}

// RenderRegister writes the registration page.
func (v *View) RenderRegister(response http.ResponseWriter, page AuthPage) error {
	return v.render(response, "register.html", page)
}

// RenderUptime writes a user's link page.
func (v *View) RenderUptime(response http.ResponseWriter, page models.UptimePage) error {
	return v.render(response, "uptime.html", page)
}

func (v *View) render(response http.ResponseWriter, name string, data interface{}) error {
	response.Header().Set("Content-Type", "text/html; charset=utf-8")

	return v.templates.ExecuteTemplate(response, name, data)
}
