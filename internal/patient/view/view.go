// Package view renders the directory as server-side HTML.
//
// Every control is a link or a GET form whose URL carries the next
// query.State, so the page works without client-side state.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"patientdir/internal/patient/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Loading is the text shown until the first load completes.
const Loading = service.LoadingMessage

// NoData replaces the whole view when the document holds no records.
const NoData = "No data"

type sizedPhoto struct {
	Photo Photo
	Size  int
}

var funcs = template.FuncMap{
	"sized": func(r Record, size int) sizedPhoto {
		return sizedPhoto{Photo: r.Photo, Size: size}
	},
}

// Renderer executes the directory templates.
type Renderer struct {
	tmpl   *template.Template
	images ImagePolicy
}

// New parses the embedded templates. allowedHosts limits which photo hosts
// the page may load from.
func New(allowedHosts []string) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, images: NewImagePolicy(allowedHosts)}, nil
}

// Directory renders a query result.
func (r *Renderer) Directory(w io.Writer, res *service.Result) error {
	return r.execute(w, "directory", NewDirectory(res, r.images))
}

// Loading renders the placeholder shown while records load.
func (r *Renderer) Loading(w io.Writer) error {
	return r.execute(w, "status", Loading)
}

// Empty renders the placeholder for a document without records.
func (r *Renderer) Empty(w io.Writer) error {
	return r.execute(w, "status", NoData)
}

// Failed renders the terminal load error in place of the whole view.
func (r *Renderer) Failed(w io.Writer, msg string) error {
	return r.execute(w, "status", "Error: "+msg)
}

// execute buffers so a template error never leaves a half-written page.
func (r *Renderer) execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
