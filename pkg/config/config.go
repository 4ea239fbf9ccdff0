// Package config reads and writes TOML design files.
//
// A design file carries the column inputs as top-level keys, the equilibrium
// relation under [equilibrium] and rendering settings under [output]:
//
//	name = "benzene-toluene"
//	feed = 1000
//	x_b  = 0.15
//	x_f  = 0.65
//	x_d  = 0.9
//	q    = 0.5
//	r    = 1.0
//
//	[equilibrium]
//	model = "alpha"
//	alpha = 2.8
//
//	[output]
//	formats = ["svg", "json"]
//	stage_labels = true
//
// Unknown keys are rejected so that typos such as "x_bottom" do not silently
// fall back to zero.
package config

import (
	"bytes"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mccabe/pkg/column"
	"github.com/matzehuels/mccabe/pkg/equilibrium"
	"github.com/matzehuels/mccabe/pkg/errors"
)

// File is the decoded form of a design file.
type File struct {
	column.Design

	Equilibrium equilibrium.Spec `toml:"equilibrium"`
	Output      Output           `toml:"output"`
}

// Output holds rendering settings. Zero values mean "use the pipeline
// default".
type Output struct {
	Formats     []string `toml:"formats,omitempty"`
	Dir         string   `toml:"dir,omitempty"`
	Samples     int      `toml:"samples,omitempty"`
	StageLabels bool     `toml:"stage_labels,omitempty"`
	HideLegend  bool     `toml:"hide_legend,omitempty"`
	Size        float64  `toml:"size,omitempty"`
	Scale       float64  `toml:"scale,omitempty"`
}

// Load reads and decodes the design file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return decode(data, path)
}

// Decode parses TOML design data.
func Decode(data []byte) (*File, error) {
	return decode(data, "design file")
}

func decode(data []byte, source string) (*File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", source)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", source, strings.Join(keys, ", "))
	}
	return &f, nil
}

// Encode writes f as TOML.
func (f *File) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(f)
}

// Bytes returns the TOML encoding of f.
func (f *File) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Example returns the benzene-toluene design used by "mccabe init".
func Example() *File {
	return &File{
		Design: column.Design{
			Name: "benzene-toluene",
			Feed: 1000,
			XB:   0.15,
			XF:   0.65,
			XD:   0.9,
			Q:    0.5,
			R:    1,
		},
		Equilibrium: equilibrium.Spec{Model: equilibrium.ModelAlpha, Alpha: 2.8},
		Output:      Output{Formats: []string{"svg"}},
	}
}
