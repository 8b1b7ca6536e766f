// Package views holds the HTML templates, the markdown sources of the
// static pages and the stylesheets, embedded into the binary.
package views

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed pages/*.md
var pageFS embed.FS

//go:embed static
var staticFS embed.FS

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"now": func() time.Time {
			return time.Now()
		},
	}
}

// Templates parses every template; each is addressable by its file name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Page returns the markdown source of a static page, e.g. "about".
func Page(name string) ([]byte, error) {
	return pageFS.ReadFile("pages/" + name + ".md")
}

// Static serves the embedded assets rooted at the static directory, so
// "css/styles.css" is the stylesheet.
func Static() (http.FileSystem, error) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}
