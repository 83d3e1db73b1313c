// Package web embeds the HTML template and static assets of the browser UI.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Templates parses the page templates. html/template escapes every task text
// for the context it lands in, so stored text is never read as markup.
func Templates() (*template.Template, error) {
	return template.ParseFS(assets, "templates/*.html")
}

// Static returns the stylesheet and script served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		// This should never happen with properly embedded assets
		panic("failed to access embedded web assets: " + err.Error())
	}
	return sub
}
