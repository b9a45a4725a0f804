package barrel

import (
	"testing"

	"github.com/debarrel/debarrel/internal/diagnostic"
	"github.com/debarrel/debarrel/internal/jsparse"
)

func mustValidate(t *testing.T, src string) (*Descriptor, error) {
	t.Helper()
	p := jsparse.NewParser()
	tree, err := p.Parse("index.ts", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return Validate("index.ts", tree, []byte(src))
}

func TestValidateNamedReExport(t *testing.T) {
	d, err := mustValidate(t, `export { Button } from "./components/Button";
export { select } from "./model/selectors";`)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(d.ReExports) != 2 {
		t.Fatalf("expected 2 re-exports, got %d", len(d.ReExports))
	}
	entry, ok := d.Lookup("Button")
	if !ok || entry.Source != "./components/Button" || entry.OriginalName != "Button" {
		t.Fatalf("unexpected lookup result: %+v ok=%v", entry, ok)
	}
}

func TestValidateRenamedReExport(t *testing.T) {
	d, err := mustValidate(t, `export { Modal as CustomModal } from "./components/Modal";`)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	entry, ok := d.Lookup("CustomModal")
	if !ok || entry.OriginalName != "Modal" {
		t.Fatalf("unexpected lookup result: %+v ok=%v", entry, ok)
	}
}

func TestValidateDefaultToNamed(t *testing.T) {
	d, err := mustValidate(t, `export { default as Button } from "./components/Button";`)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	entry, ok := d.Lookup("Button")
	if !ok || !entry.IsDefaultSource {
		t.Fatalf("expected default source entry, got %+v ok=%v", entry, ok)
	}
}

func TestValidateRejectsDefaultExport(t *testing.T) {
	_, err := mustValidate(t, `export default Button;`)
	assertInvalidBarrel(t, err)
}

func TestValidateRejectsWildcardReExport(t *testing.T) {
	_, err := mustValidate(t, `export * from "./components";`)
	assertInvalidBarrel(t, err)
}

func TestValidateRejectsNamespaceReExport(t *testing.T) {
	_, err := mustValidate(t, `export * as ns from "./components";`)
	assertInvalidBarrel(t, err)
}

func TestValidateRejectsLocalDeclarationExport(t *testing.T) {
	_, err := mustValidate(t, `export const a = 1;`)
	assertInvalidBarrel(t, err)
}

func TestValidateRejectsReExportWithoutSource(t *testing.T) {
	_, err := mustValidate(t, `const a = 1; export { a };`)
	assertInvalidBarrel(t, err)
}

func TestValidateRejectsNonExportStatement(t *testing.T) {
	_, err := mustValidate(t, `import { a } from "./a";`)
	assertInvalidBarrel(t, err)
}

func assertInvalidBarrel(t *testing.T, err error) {
	t.Helper()
	d, ok := err.(diagnostic.Diagnostic)
	if !ok || d.Code != diagnostic.CodeInvalidBarrelFile {
		t.Fatalf("expected E_INVALID_BARREL_FILE, got %v", err)
	}
}
