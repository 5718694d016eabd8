package templates

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefault(t *testing.T) {
	doc, err := Load("")
	if err != nil {
		t.Fatalf("default template must parse: %v", err)
	}
	page := doc.FirstPage()
	if page == nil || page.Spec.Size != "A4" {
		t.Fatalf("unexpected page section: %+v", page)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.sheet")
	src := "sheet Custom v1 {\n  page A5 landscape columns 3 rows 4 {\n    text Regular { \"${codigo}\" }\n  }\n}\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Name != "Custom" {
		t.Fatalf("unexpected name %s", doc.Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.sheet")); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
