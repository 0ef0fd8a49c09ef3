// File path: internal/workspace/workspace_test.go
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/converter"
)

func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "App.jsx", "")
	writeFixture(t, root, "pages/Home.tsx", "")
	writeFixture(t, root, "node_modules/dep/Index.jsx", "")
	writeFixture(t, root, ".cache/Tmp.jsx", "")
	writeFixture(t, root, "notes.txt", "")

	files, err := Discover(root)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected two candidates, got %v", files)
	}
	if filepath.Base(files[0]) != "App.jsx" || filepath.Base(files[1]) != "Home.tsx" {
		t.Fatalf("unexpected candidates: %v", files)
	}
}

func TestNaming(t *testing.T) {
	n := Naming("TodoList")
	if n.ClassFile != "TodoList.component.ts" ||
		n.TemplateFile != "TodoList.component.html" ||
		n.StyleFile != "TodoList.component.css" {
		t.Fatalf("unexpected file names: %+v", n)
	}
	if n.Decorator.Selector != "app-todo-list" {
		t.Fatalf("unexpected selector: %q", n.Decorator.Selector)
	}
}

func TestWriteArtifacts(t *testing.T) {
	src := `function Badge() {
  return (
    <span>new</span>
  );
}
`
	res, err := converter.Convert(context.Background(), src, converter.Options{})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "out")
	names := Naming(res.Component)
	if err := WriteArtifacts(dir, res, names); err != nil {
		t.Fatalf("write artifacts failed: %v", err)
	}

	class, err := os.ReadFile(filepath.Join(dir, "Badge.component.ts"))
	if err != nil {
		t.Fatalf("read class: %v", err)
	}
	if string(class) != res.ClassBody {
		t.Fatalf("class file mismatch")
	}
	tmpl, err := os.ReadFile(filepath.Join(dir, "Badge.component.html"))
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	if string(tmpl) != res.Template {
		t.Fatalf("template file mismatch")
	}
	style, err := os.ReadFile(filepath.Join(dir, "Badge.component.css"))
	if err != nil {
		t.Fatalf("read style stub: %v", err)
	}
	if len(style) != 0 {
		t.Fatalf("style stub must be empty, got %q", style)
	}
}

func TestWriteArtifactsRequiresDir(t *testing.T) {
	if err := WriteArtifacts("", &converter.Result{}, Naming("X")); err == nil {
		t.Fatalf("expected error for empty output directory")
	}
}
