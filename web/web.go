// Package web embeds the HTML templates.
package web

import (
	"embed"
	"html/template"
	"net/url"

	"github.com/01moynul/stitchshop/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Funcs are available in every template.
var Funcs = template.FuncMap{
	// upload builds the public URL of a stored image.
	"upload": func(name string) string {
		return "/uploads/" + url.PathEscape(name)
	},
	// isSel reports whether an optional id equals id.
	"isSel": func(selected *int64, id int64) bool {
		return selected != nil && *selected == id
	},
	"price": models.FormatCents,
}

// Templates parses every embedded page. Each is addressed by file name,
// e.g. "categories.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(templatesFS, "templates/*.html")
}
