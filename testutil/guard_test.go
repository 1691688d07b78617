package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPredicates(t *testing.T) {
	cases := []struct {
		name string
		pred func(string) bool
		in   string
		want bool
	}{
		{"internal nested", InternalImportForbidden, "recipebook/internal/core", true},
		{"internal pkg", InternalImportForbidden, "recipebook/pkg/domain", false},
		{"module root", ModuleImportForbidden, "recipebook", true},
		{"module pkg", ModuleImportForbidden, "recipebook/pkg/domain", true},
		{"module lookalike", ModuleImportForbidden, "recipebookextra/x", false},
		{"stdlib", NonStdlibImport, "encoding/json", false},
		{"third party", NonStdlibImport, "github.com/google/uuid", true},
		{"module is not stdlib", NonStdlibImport, "recipebook/internal/catalog", true},
		{"sqlite backend", StorageImportForbidden, "recipebook/internal/infra/persistence/sqlite", true},
		{"sql package", StorageImportForbidden, "database/sql", true},
		{"aws", StorageImportForbidden, "github.com/aws/aws-sdk-go-v2/service/s3", true},
		{"catalog", StorageImportForbidden, "recipebook/internal/catalog", false},
	}
	for _, c := range cases {
		if got := c.pred(c.in); got != c.want {
			t.Fatalf("%s: pred(%q)=%v want %v", c.name, c.in, got, c.want)
		}
	}
}

func TestAnyCombinesPredicates(t *testing.T) {
	p := Any(InternalImportForbidden, NonStdlibImport)
	if !p("recipebook/internal/x") || !p("github.com/spf13/cobra") || p("strings") {
		t.Fatalf("unexpected combined predicate results")
	}
}

func writePkg(t *testing.T, imports ...string) string {
	t.Helper()
	dir := t.TempDir()
	var b strings.Builder
	b.WriteString("package tmp\n")
	for _, imp := range imports {
		fmt.Fprintf(&b, "import _ %q\n", imp)
	}
	if err := os.WriteFile(filepath.Join(dir, "x.go"), []byte(b.String()), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "x_test.go"), []byte("package tmp\nimport _ \"recipebook/internal/core\"\n"), 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return dir
}

func TestAssertNoDirectImportsIgnoresTests(t *testing.T) {
	dir := writePkg(t, "fmt")
	AssertNoDirectImports(t, dir, InternalImportForbidden, "none")
}

type recordingT struct {
	msg string
}

func (r *recordingT) Fatalf(format string, args ...any) { r.msg = fmt.Sprintf(format, args...) }

func TestDirectViolationsReported(t *testing.T) {
	dir := writePkg(t, "fmt", "recipebook/internal/core")
	viols, err := directImportViolations(dir, InternalImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || !strings.Contains(viols[0], "recipebook/internal/core (in x.go)") {
		t.Fatalf("unexpected violations %v", viols)
	}
	var rt recordingT
	failIfDirectViolations(&rt, "layering", viols)
	if !strings.Contains(rt.msg, "layering") {
		t.Fatalf("expected reason in failure, got %q", rt.msg)
	}
}

func TestMissingDirIsError(t *testing.T) {
	if _, err := directImportViolations(filepath.Join(t.TempDir(), "absent"), InternalImportForbidden); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
