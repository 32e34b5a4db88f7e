package layout

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

// Builtin fallback layouts, used when the site provides no layouts directory.

//go:embed builtin/*.html
var builtinFS embed.FS

func loadBuiltins() (*Registry, error) {
	templates := map[string]*Template{}
	err := fs.WalkDir(builtinFS, "builtin", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		raw, err := builtinFS.ReadFile(p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		templates[name] = &Template{Name: name, Extends: parseExtends(raw), Source: string(raw)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newRegistry(templates)
}
