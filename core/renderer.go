package core

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
)

const (
	layoutFile    = "layout.html"
	partialsGlob  = "partials/*.html"
	layoutName    = "layout"
	viewExtension = ".html"
)

// ViewContext is the data handed to a view.
type ViewContext map[string]interface{}

type Renderer interface {
	Render(w io.Writer, view string, data ViewContext) error
}

// ViewRenderer renders <name>.html from an fs.FS. When layout.html is present
// the view is executed through its "layout" template, and every file under
// partials/ is parsed alongside the view.
type ViewRenderer struct {
	views     fs.FS
	funcs     template.FuncMap
	templates sync.Map
}

func NewViewRenderer(views fs.FS, funcs template.FuncMap) *ViewRenderer {
	return &ViewRenderer{views: views, funcs: funcs}
}

func (v *ViewRenderer) Render(w io.Writer, view string, data ViewContext) error {
	tmpl, err := v.lookup(view)
	if err != nil {
		return err
	}

	if data == nil {
		data = ViewContext{}
	}

	if tmpl.Lookup(layoutName) != nil {
		err = tmpl.ExecuteTemplate(w, layoutName, data)
	} else {
		err = tmpl.Execute(w, data)
	}
	if err != nil {
		return fmt.Errorf("execute view %q: %w", view, err)
	}
	return nil
}

// Parse compiles a view without consulting or filling the cache.
func (v *ViewRenderer) Parse(view string) (*template.Template, error) {
	if !validViewName(view) {
		return nil, fmt.Errorf("%q: %w", view, ErrInvalidView)
	}

	file := view + viewExtension
	if _, err := fs.Stat(v.views, file); err != nil {
		return nil, fmt.Errorf("%q: %w", view, ErrViewNotFound)
	}

	var files []string
	if _, err := fs.Stat(v.views, layoutFile); err == nil {
		files = append(files, layoutFile)
	}
	partials, err := fs.Glob(v.views, partialsGlob)
	if err != nil {
		return nil, fmt.Errorf("glob partials: %w", err)
	}
	files = append(files, partials...)
	files = append(files, file)

	tmpl, err := template.New(file).Funcs(v.funcs).ParseFS(v.views, files...)
	if err != nil {
		return nil, fmt.Errorf("parse view %q: %w", view, err)
	}
	return tmpl, nil
}

// Views lists the renderable view names, sorted.
func (v *ViewRenderer) Views() ([]string, error) {
	matches, err := fs.Glob(v.views, "*"+viewExtension)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, m := range matches {
		if m == layoutFile {
			continue
		}
		names = append(names, strings.TrimSuffix(m, viewExtension))
	}
	sort.Strings(names)
	return names, nil
}

// Reset drops every compiled view so the next render reads from disk.
func (v *ViewRenderer) Reset() {
	v.templates.Range(func(key, _ interface{}) bool {
		v.templates.Delete(key)
		return true
	})
}

func (v *ViewRenderer) lookup(view string) (*template.Template, error) {
	if cached, ok := v.templates.Load(view); ok {
		return cached.(*template.Template), nil
	}

	tmpl, err := v.Parse(view)
	if err != nil {
		return nil, err
	}
	v.templates.Store(view, tmpl)
	return tmpl, nil
}

func validViewName(view string) bool {
	if view == "" || view == layoutName {
		return false
	}
	if strings.ContainsAny(view, `/\`) || strings.Contains(view, "..") {
		return false
	}
	return path.Clean(view) == view
}

// DirOrEmbedded prefers dir on disk and falls back to the embedded copy.
func DirOrEmbedded(dir string, embedded fs.FS) fs.FS {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return os.DirFS(dir)
	}
	return embedded
}
