// File path: internal/workspace/workspace.go

// Package workspace holds the file conventions around the converter:
// discovering component sources and writing artifact files.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/converter"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/generate"
)

// Names is the full artifact identity for one component: output file
// names plus the decorator naming handed to the generator.
type Names struct {
	Component    string
	ClassFile    string
	TemplateFile string
	StyleFile    string
	Decorator    generate.Naming
}

// Naming derives the conventional artifact names for a component.
func Naming(component string) Names {
	return Names{
		Component:    component,
		ClassFile:    component + ".component.ts",
		TemplateFile: component + ".component.html",
		StyleFile:    component + ".component.css",
		Decorator:    generate.DefaultNaming(component),
	}
}

// Discover walks root and returns the component source candidates
// (*.jsx, *.tsx) in sorted order. node_modules and dot-directories are
// skipped.
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "node_modules" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".jsx", ".tsx":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover components: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// WriteArtifacts writes the class, template, and empty style files for
// one conversion result under dir.
func WriteArtifacts(dir string, res *converter.Result, names Names) error {
	if dir == "" {
		return fmt.Errorf("write artifacts: output directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	files := map[string]string{
		names.ClassFile:    res.ClassBody,
		names.TemplateFile: res.Template,
		names.StyleFile:    "",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
