package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mccabe/pkg/equilibrium"
	"github.com/matzehuels/mccabe/pkg/errors"
)

const designTOML = `
name = "benzene-toluene"
feed = 1000
x_b = 0.15
x_f = 0.65
x_d = 0.9
q = 0.5
r = 1.0

[equilibrium]
model = "alpha"
alpha = 2.8

[output]
formats = ["svg", "json"]
samples = 80
stage_labels = true
`

func TestDecode(t *testing.T) {
	f, err := Decode([]byte(designTOML))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if f.Name != "benzene-toluene" {
		t.Errorf("Name = %q, want %q", f.Name, "benzene-toluene")
	}
	if f.Feed != 1000 || f.XB != 0.15 || f.XF != 0.65 || f.XD != 0.9 {
		t.Errorf("design = %+v", f.Design)
	}
	if f.Q != 0.5 || f.R != 1 {
		t.Errorf("Q, R = %v, %v, want 0.5, 1", f.Q, f.R)
	}
	if f.Equilibrium.Model != equilibrium.ModelAlpha || f.Equilibrium.Alpha != 2.8 {
		t.Errorf("Equilibrium = %+v", f.Equilibrium)
	}
	if got := strings.Join(f.Output.Formats, ","); got != "svg,json" {
		t.Errorf("Formats = %q, want %q", got, "svg,json")
	}
	if f.Output.Samples != 80 || !f.Output.StageLabels {
		t.Errorf("Output = %+v", f.Output)
	}
}

func TestDecodeTable(t *testing.T) {
	data := `
feed = 100
x_b = 0.1
x_f = 0.3
x_d = 0.5
q = 1
r = 2

[equilibrium]
x = [0.0, 0.5, 1.0]
y = [0.0, 0.7, 1.0]
`
	f, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(f.Equilibrium.X) != 3 || f.Equilibrium.Y[1] != 0.7 {
		t.Errorf("Equilibrium = %+v", f.Equilibrium)
	}
	if _, err := f.Equilibrium.Build(); err != nil {
		t.Errorf("Build() error = %v", err)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	data := designTOML + "\nx_bottom = 0.1\n"

	_, err := Decode([]byte(data))
	if err == nil {
		t.Fatal("Decode() should reject unknown keys")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("GetCode() = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
	if !strings.Contains(err.Error(), "x_bottom") {
		t.Errorf("error should name the key, got %q", err.Error())
	}
}

func TestDecodeSyntaxError(t *testing.T) {
	_, err := Decode([]byte("feed = = 1"))
	if err == nil {
		t.Fatal("Decode() should fail on invalid TOML")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("GetCode() = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "design.toml")
	if err := os.WriteFile(path, []byte(designTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Feed != 1000 {
		t.Errorf("Feed = %v, want 1000", f.Feed)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if err == nil {
		t.Fatal("Load() of missing file should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("GetCode() = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}

func TestExampleEncodes(t *testing.T) {
	data, err := Example().Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	for _, want := range []string{"x_b = 0.15", "[equilibrium]", "alpha = 2.8", "[output]"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("encoded example missing %q:\n%s", want, data)
		}
	}

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode(example) error = %v", err)
	}
	if f.Design != Example().Design {
		t.Errorf("Design = %+v, want %+v", f.Design, Example().Design)
	}
	if err := f.Design.Validate(); err != nil {
		t.Errorf("example design invalid: %v", err)
	}
}
