// Package layout loads and resolves the template registry a build renders
// documents into.
//
// A layout is an html/template file under the layouts directory. A layout may
// extend exactly one parent by starting with an extends directive:
//
//	{{/* extends "base" */}}
//
// Child layouts contribute {{define}} blocks that override the parent's
// {{block}} regions. The extension graph is validated once at load time:
// cycles and dangling parent references are fatal.
package layout

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/content"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// DefaultLayout is the convention default used when a document names no layout.
const DefaultLayout = "single"

// ListLayout renders index pages (home, tag and category listings).
const ListLayout = "list"

// Template is one named layout in the registry.
type Template struct {
	Name    string
	Extends string // parent layout name; empty for a root layout
	Source  string
}

// Registry holds all loaded layouts with their compiled extension chains.
type Registry struct {
	templates map[string]*Template
	compiled  map[string]*template.Template
}

var extendsDirective = regexp.MustCompile(`^\{\{/\*\s*extends\s+"?([A-Za-z0-9._-]+)"?\s*\*/\}\}`)

var funcs = template.FuncMap{
	"dateFormat": func(layout string, t time.Time) string { return t.Format(layout) },
	"slugify":    content.Slugify,
}

// Load reads every .html file under dir into a registry and validates the
// extension graph. A missing or empty directory yields the builtin layouts so
// a bare content tree still builds.
func Load(dir string) (*Registry, error) {
	templates := map[string]*Template{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return loadBuiltins()
		}
		return nil, serrors.IOFailure("readdir", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".html") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, serrors.IOFailure("read", filepath.Join(dir, e.Name()), err)
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		templates[name] = &Template{
			Name:    name,
			Extends: parseExtends(raw),
			Source:  string(raw),
		}
	}

	if len(templates) == 0 {
		return loadBuiltins()
	}

	return newRegistry(templates)
}

func newRegistry(templates map[string]*Template) (*Registry, error) {
	r := &Registry{templates: templates, compiled: map[string]*template.Template{}}
	if err := r.validate(); err != nil {
		return nil, err
	}
	if err := r.compile(); err != nil {
		return nil, err
	}
	return r, nil
}

// Names returns the registered layout names in lexical order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.templates))
	for name := range r.templates {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Has reports whether a layout with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Chain returns the extension chain for a layout, outermost (root) first.
func (r *Registry) Chain(name string) ([]*Template, error) {
	leaf, ok := r.templates[name]
	if !ok {
		return nil, serrors.TemplateNotFound(name)
	}
	var chain []*Template
	for t := leaf; t != nil; {
		chain = append([]*Template{t}, chain...)
		if t.Extends == "" {
			break
		}
		t = r.templates[t.Extends]
	}
	return chain, nil
}

// Render executes a layout chain against the given data, substituting the
// parent's regions outermost-first with the child's block overrides.
func (r *Registry) Render(name string, data any) ([]byte, error) {
	tmpl, ok := r.compiled[name]
	if !ok {
		return nil, serrors.TemplateNotFound(name)
	}
	var buf bytes.Buffer
	// Execute the root of the chain: it carries the full page skeleton.
	chain, err := r.Chain(name)
	if err != nil {
		return nil, err
	}
	if err := tmpl.ExecuteTemplate(&buf, chain[0].Name, data); err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryTemplate, serrors.SeverityFatal, "layout execution failed").
			WithContext("layout", name)
	}
	return buf.Bytes(), nil
}

// validate checks the extension graph for dangling parents and cycles.
func (r *Registry) validate() error {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := r.templates[name]
		if t.Extends == "" {
			continue
		}
		if _, ok := r.templates[t.Extends]; !ok {
			return serrors.TemplateMissingParent(t.Name, t.Extends)
		}
	}

	// DFS with tri-color marking; gray back-edges witness a cycle. Sorted
	// iteration keeps the reported cycle stable.
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}

	var visit func(name string, trail []string) []string
	visit = func(name string, trail []string) []string {
		color[name] = gray
		trail = append(trail, name)
		parent := r.templates[name].Extends
		if parent != "" {
			switch color[parent] {
			case gray:
				return append(trail, parent)
			case white:
				if cycle := visit(parent, trail); cycle != nil {
					return cycle
				}
			}
		}
		color[name] = black
		return nil
	}

	for _, name := range names {
		if color[name] != white {
			continue
		}
		if cycle := visit(name, nil); cycle != nil {
			return serrors.TemplateCycle(cycle)
		}
	}
	return nil
}

// compile parses every extension chain into an executable template set. The
// chain is parsed root-first so each child's {{define}} blocks override the
// parent's {{block}} defaults.
func (r *Registry) compile() error {
	for name := range r.templates {
		chain, err := r.Chain(name)
		if err != nil {
			return err
		}
		tmpl := template.New(chain[0].Name).Funcs(funcs)
		for _, member := range chain {
			if _, err := tmpl.Parse(member.Source); err != nil {
				return serrors.Wrap(err, serrors.CategoryTemplate, serrors.SeverityFatal, "layout parse failed").
					WithContext("layout", member.Name)
			}
		}
		r.compiled[name] = tmpl
	}
	return nil
}

func parseExtends(raw []byte) string {
	m := extendsDirective.FindSubmatch(bytes.TrimLeft(raw, " \t\r\n"))
	if m == nil {
		return ""
	}
	return string(m[1])
}
