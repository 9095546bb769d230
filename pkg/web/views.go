// Package web renders server-side pages from embedded Go templates and
// serves their static assets.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// View is a page rendered from a template inside a shared layout.
type View struct {
	Pattern  string
	Template string
	Title    string
}

// ViewData is passed to every template. BasePath is the mount point of the
// module serving the page; Data carries page specific values.
type ViewData struct {
	Title    string
	BasePath string
	Data     any
}

// TemplateSet holds one parsed template tree per view, each cloned from the
// shared layouts. Templates are parsed once so a broken template fails at
// startup.
type TemplateSet struct {
	layout   string
	views    map[string]*template.Template
	basePath string
	data     any
}

// NewTemplateSet parses layoutGlob from fsys and clones it once per view.
// layout names the template executed on render; data is attached to every
// page.
func NewTemplateSet(fsys fs.FS, layoutGlob, layout, basePath string, data any, views ...View) (*TemplateSet, error) {
	layouts, err := template.ParseFS(fsys, layoutGlob)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	set := &TemplateSet{
		layout:   layout,
		views:    make(map[string]*template.Template, len(views)),
		basePath: basePath,
		data:     data,
	}

	for _, v := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(fsys, v.Template); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", v.Template, err)
		}
		set.views[v.Template] = t
	}

	return set, nil
}

// Handler renders view with the given status code.
func (ts *TemplateSet) Handler(view View, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := ts.Render(&buf, view); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		w.Write(buf.Bytes())
	})
}

// Render executes the layout for view into buf.
func (ts *TemplateSet) Render(buf *bytes.Buffer, view View) error {
	t, ok := ts.views[view.Template]
	if !ok {
		return fmt.Errorf("template not found: %s", view.Template)
	}
	return t.ExecuteTemplate(buf, ts.layout, ViewData{
		Title:    view.Title,
		BasePath: ts.basePath,
		Data:     ts.data,
	})
}
