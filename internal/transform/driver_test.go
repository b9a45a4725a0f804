package transform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/debarrel/debarrel/internal/config"
	"github.com/debarrel/debarrel/internal/diagnostic"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func newDriver(t *testing.T, cwd string, doc config.Document) *Driver {
	t.Helper()
	if doc.Patterns == nil {
		doc.Patterns = []string{"*/index.ts"}
	}
	cfg, err := config.Compile(doc)
	if err != nil {
		t.Fatalf("config.Compile: %v", err)
	}
	d, err := New(cfg, cwd)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestTransformBasicIndexReExport(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "src/index.ts"), `export { Button } from "./components/Button";`)
	writeFile(t, filepath.Join(cwd, "src/components/Button.ts"), `export const Button = 1;`)
	hostPath := filepath.Join(cwd, "app/page.ts")
	writeFile(t, hostPath, `import { Button } from "../src/index.ts";`)

	d := newDriver(t, cwd, config.Document{})
	result, err := d.Transform(filepath.ToSlash(hostPath), []byte(`import { Button } from "../src/index.ts";`))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !result.Changed {
		t.Fatalf("expected rewrite, got unchanged source %q", result.Source)
	}
	want := `import { Button } from "../src/components/Button";`
	if string(result.Source) != want {
		t.Fatalf("got %q, want %q", result.Source, want)
	}
}

func TestTransformRenameOnImportPreservesOriginalName(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "src/index.ts"), `export { Button } from "./components/Button";`)
	writeFile(t, filepath.Join(cwd, "src/components/Button.ts"), `export const Button = 1;`)
	hostPath := filepath.Join(cwd, "app/page.ts")

	d := newDriver(t, cwd, config.Document{})
	source := []byte(`import { Button as UIButton } from "../src/index.ts";`)
	result, err := d.Transform(filepath.ToSlash(hostPath), source)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	want := `import { Button as UIButton } from "../src/components/Button";`
	if string(result.Source) != want {
		t.Fatalf("got %q, want %q", result.Source, want)
	}
}

func TestTransformRenameOnExportAndImportChains(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "src/index.ts"), `export { setVisible as toggle } from "./model/visibility";`)
	writeFile(t, filepath.Join(cwd, "src/model/visibility.ts"), `export const setVisible = () => {};`)
	hostPath := filepath.Join(cwd, "app/page.ts")

	d := newDriver(t, cwd, config.Document{})
	source := []byte(`import { toggle as flip } from "../src/index.ts";`)
	result, err := d.Transform(filepath.ToSlash(hostPath), source)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	want := `import { setVisible as flip } from "../src/model/visibility";`
	if string(result.Source) != want {
		t.Fatalf("got %q, want %q", result.Source, want)
	}
}

func TestTransformDefaultToNamedEmitsDefaultImport(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "src/index.ts"), `export { default as Button } from "./components/Button";`)
	writeFile(t, filepath.Join(cwd, "src/components/Button.ts"), `export default function Button() {}`)
	hostPath := filepath.Join(cwd, "app/page.ts")

	d := newDriver(t, cwd, config.Document{})
	source := []byte(`import { Button } from "../src/index.ts";`)
	result, err := d.Transform(filepath.ToSlash(hostPath), source)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	want := `import Button from "../src/components/Button";`
	if string(result.Source) != want {
		t.Fatalf("got %q, want %q", result.Source, want)
	}
}

func TestTransformInvalidBarrelErrorModeIsFatal(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "src/index.ts"), `export * from "./components";`)
	hostPath := filepath.Join(cwd, "app/page.ts")

	d := newDriver(t, cwd, config.Document{})
	_, err := d.Transform(filepath.ToSlash(hostPath), []byte(`import { Button } from "../src/index.ts";`))
	diag, ok := err.(diagnostic.Diagnostic)
	if !ok || diag.Code != diagnostic.CodeInvalidBarrelFile {
		t.Fatalf("expected E_INVALID_BARREL_FILE, got %v", err)
	}
}

func TestTransformInvalidBarrelWarnModeSkipsAndWarns(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "src/index.ts"), `export * from "./components";`)
	hostPath := filepath.Join(cwd, "app/page.ts")

	d := newDriver(t, cwd, config.Document{InvalidBarrel: "warn"})
	source := []byte(`import { Button } from "../src/index.ts";`)
	result, err := d.Transform(filepath.ToSlash(hostPath), source)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if result.Changed {
		t.Fatalf("expected byte-identical passthrough, got %q", result.Source)
	}
	if string(result.Source) != string(source) {
		t.Fatalf("expected unchanged source, got %q", result.Source)
	}
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Severity != diagnostic.SeverityWarn {
		t.Fatalf("expected one warning diagnostic, got %v", result.Diagnostics)
	}
}

func TestTransformNamespaceImportOffModeKeepsCompanionNamedImport(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "src/index.ts"), `export { Button } from "./components/Button";`)
	writeFile(t, filepath.Join(cwd, "src/components/Button.ts"), `export const Button = 1;`)
	hostPath := filepath.Join(cwd, "app/page.ts")

	d := newDriver(t, cwd, config.Document{UnsupportedImport: "off"})
	source := []byte("import * as Lib from \"../src/index.ts\";\nimport { Button } from \"../src/index.ts\";")
	result, err := d.Transform(filepath.ToSlash(hostPath), source)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !result.Changed {
		t.Fatalf("expected the companion named import to be rewritten")
	}
	if len(result.Diagnostics) != 0 {
		t.Fatalf("off mode must not emit a diagnostic, got %v", result.Diagnostics)
	}
}

func TestTransformNamespaceImportErrorModeIsFatal(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "src/index.ts"), `export { Button } from "./components/Button";`)
	writeFile(t, filepath.Join(cwd, "src/components/Button.ts"), `export const Button = 1;`)
	hostPath := filepath.Join(cwd, "app/page.ts")

	d := newDriver(t, cwd, config.Document{})
	_, err := d.Transform(filepath.ToSlash(hostPath), []byte(`import * as Lib from "../src/index.ts";`))
	diag, ok := err.(diagnostic.Diagnostic)
	if !ok || diag.Code != diagnostic.CodeNoNamespaceImports {
		t.Fatalf("expected E_NO_NAMESPACE_IMPORTS, got %v", err)
	}
}

func TestTransformOutOfSandboxFileIsByteIdentical(t *testing.T) {
	cwd := t.TempDir()
	d := newDriver(t, cwd, config.Document{})
	source := []byte(`import { Button } from "anywhere";`)
	result, err := d.Transform("/outside/somewhere/page.ts", source)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if result.Changed || string(result.Source) != string(source) {
		t.Fatalf("expected byte-identical passthrough, got %q changed=%v", result.Source, result.Changed)
	}
}

func TestTransformNonBarrelImportIsByteIdentical(t *testing.T) {
	cwd := t.TempDir()
	hostPath := filepath.Join(cwd, "app/page.ts")
	writeFile(t, filepath.Join(cwd, "app/helper.ts"), `export const helper = 1;`)

	d := newDriver(t, cwd, config.Document{})
	source := []byte(`import { helper } from "./helper";`)
	result, err := d.Transform(filepath.ToSlash(hostPath), source)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if result.Changed || string(result.Source) != string(source) {
		t.Fatalf("expected byte-identical passthrough, got %q changed=%v", result.Source, result.Changed)
	}
}

func TestTransformIsIdempotent(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "src/index.ts"), `export { Button } from "./components/Button";`)
	writeFile(t, filepath.Join(cwd, "src/components/Button.ts"), `export const Button = 1;`)
	hostPath := filepath.Join(cwd, "app/page.ts")

	d := newDriver(t, cwd, config.Document{})
	first, err := d.Transform(filepath.ToSlash(hostPath), []byte(`import { Button } from "../src/index.ts";`))
	if err != nil {
		t.Fatalf("first Transform: %v", err)
	}

	second, err := d.Transform(filepath.ToSlash(hostPath), first.Source)
	if err != nil {
		t.Fatalf("second Transform: %v", err)
	}
	if second.Changed {
		t.Fatalf("expected idempotent second pass, got further changes: %q", second.Source)
	}
	if string(second.Source) != string(first.Source) {
		t.Fatalf("expected stable output, got %q vs %q", second.Source, first.Source)
	}
}

func TestTransformInvalidEnvOnEmptyFilePath(t *testing.T) {
	cwd := t.TempDir()
	d := newDriver(t, cwd, config.Document{})
	_, err := d.Transform("", []byte(`import {} from "x";`))
	diag, ok := err.(diagnostic.Diagnostic)
	if !ok || diag.Code != diagnostic.CodeInvalidEnv {
		t.Fatalf("expected E_INVALID_ENV, got %v", err)
	}
}

func TestTransformDebugModeEmitsTraceDiagnostics(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "src/index.ts"), `export { Button } from "./components/Button";`)
	writeFile(t, filepath.Join(cwd, "src/components/Button.ts"), `export const Button = 1;`)
	hostPath := filepath.Join(cwd, "app/page.ts")

	d := newDriver(t, cwd, config.Document{Debug: true})
	result, err := d.Transform(filepath.ToSlash(hostPath), []byte(`import { Button } from "../src/index.ts";`))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(result.Diagnostics) == 0 {
		t.Fatal("expected debug: true to emit trace diagnostics")
	}
	for _, diag := range result.Diagnostics {
		if diag.Severity != diagnostic.SeverityInfo {
			t.Fatalf("expected every debug trace to be SeverityInfo, got %v", diag)
		}
	}
}

func TestTransformWithoutDebugEmitsNoTraceDiagnostics(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "src/index.ts"), `export { Button } from "./components/Button";`)
	writeFile(t, filepath.Join(cwd, "src/components/Button.ts"), `export const Button = 1;`)
	hostPath := filepath.Join(cwd, "app/page.ts")

	d := newDriver(t, cwd, config.Document{})
	result, err := d.Transform(filepath.ToSlash(hostPath), []byte(`import { Button } from "../src/index.ts";`))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(result.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics without debug: true, got %v", result.Diagnostics)
	}
}

func TestNewRejectsEmptyCWD(t *testing.T) {
	cfg, err := config.Compile(config.Document{Patterns: []string{"*/index.ts"}})
	if err != nil {
		t.Fatalf("config.Compile: %v", err)
	}
	_, err = New(cfg, "")
	diag, ok := err.(diagnostic.Diagnostic)
	if !ok || diag.Code != diagnostic.CodeInvalidEnv {
		t.Fatalf("expected E_INVALID_ENV, got %v", err)
	}
}
