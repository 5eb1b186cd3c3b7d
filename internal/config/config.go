// Package config reads the INI style configuration of the mesh assembly
// pipeline.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/soypat/femesh"
	"github.com/soypat/femesh/csr"
	"github.com/soypat/femesh/fem"
	"gopkg.in/gcfg.v1"
)

// ExampleFile is a complete configuration file with the default values.
const ExampleFile = `[Mesh]
# cube or sphere.
Shape = cube
# Grid cells along each face edge. The mesh has 6*s*s+2 vertices.
Subdivisions = 100

[Assembly]
# serial, rowowned or atomic.
Strategy = serial
# Goroutines for parallel strategies. 0 uses GOMAXPROCS.
Workers = 0
# Slots reserved per row: bound (any mesh) or closed (closed surfaces only).
Reservation = bound
# Drop unused row slots after building the sparsity pattern.
Compact = false
# Also assemble the stiffness matrix and add it to the mass matrix.
Stiffness = false

[Output]
Dir = build
JSON = true
STL = false
PNG = false
`

// MeshConfig is the [Mesh] section.
type MeshConfig struct {
	Shape        string
	Subdivisions int
}

// AssemblyConfig is the [Assembly] section.
type AssemblyConfig struct {
	Strategy    string
	Workers     int
	Reservation string
	Compact     bool
	Stiffness   bool
}

// OutputConfig is the [Output] section. Files are written to Dir.
type OutputConfig struct {
	Dir            string
	JSON, STL, PNG bool
}

// Config mirrors the sections of the configuration file.
type Config struct {
	Mesh     MeshConfig
	Assembly AssemblyConfig
	Output   OutputConfig
}

// Default returns the configuration described by ExampleFile.
func Default() Config {
	return Config{
		Mesh: MeshConfig{
			Shape:        femesh.Cube.String(),
			Subdivisions: 100,
		},
		Assembly: AssemblyConfig{
			Strategy:    fem.Serial.String(),
			Reservation: csr.ReserveBound.String(),
		},
		Output: OutputConfig{
			Dir:  "build",
			JSON: true,
		},
	}
}

// Read reads a configuration file. Values absent from the file keep their
// defaults.
func Read(path string) (Config, error) {
	c := Default()
	if err := gcfg.ReadFileInto(&c, path); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// Parse reads configuration from a string. See Read.
func Parse(s string) (Config, error) {
	c := Default()
	if err := gcfg.ReadStringInto(&c, s); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// Validate checks every value of the configuration.
func (c Config) Validate() error {
	_, err := c.Pipeline()
	return err
}

// Pipeline holds the resolved settings of a configuration.
type Pipeline struct {
	Shape        femesh.Shape
	Subdivisions int
	Build        csr.BuildOptions
	Assembler    fem.Assembler
	Stiffness    bool
	Output       OutputConfig
}

// Pipeline resolves the textual configuration values.
func (c Config) Pipeline() (Pipeline, error) {
	var p Pipeline
	var err error
	p.Shape, err = femesh.ParseShape(c.Mesh.Shape)
	if err != nil {
		return p, fmt.Errorf("[Mesh] Shape: %w", err)
	}
	if c.Mesh.Subdivisions <= 0 || c.Mesh.Subdivisions > femesh.MaxSubdivisions {
		return p, fmt.Errorf("[Mesh] Subdivisions must be in range [1, %d], but is %d", femesh.MaxSubdivisions, c.Mesh.Subdivisions)
	}
	p.Subdivisions = c.Mesh.Subdivisions

	p.Assembler.Strategy, err = fem.ParseStrategy(c.Assembly.Strategy)
	if err != nil {
		return p, fmt.Errorf("[Assembly] Strategy: %w", err)
	}
	if c.Assembly.Workers < 0 {
		return p, fmt.Errorf("[Assembly] Workers must not be negative, but is %d", c.Assembly.Workers)
	}
	p.Assembler.Workers = c.Assembly.Workers
	p.Build.Reservation, err = csr.ParseReservation(c.Assembly.Reservation)
	if err != nil {
		return p, fmt.Errorf("[Assembly] Reservation: %w", err)
	}
	p.Build.Compact = c.Assembly.Compact
	p.Stiffness = c.Assembly.Stiffness

	if (c.Output.JSON || c.Output.STL || c.Output.PNG) && c.Output.Dir == "" {
		return p, errors.New("[Output] Dir must be set when an output is enabled")
	}
	p.Output = c.Output
	return p, nil
}

// Path returns the path of an output file inside the output directory.
func (o OutputConfig) Path(name string) string {
	return filepath.Join(o.Dir, name)
}
