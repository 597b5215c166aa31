package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrEmptyProgram is returned when a model dump declares no packages and no
// references.
var ErrEmptyProgram = errors.New("program model is empty")

// Load reads a JSON program dump from path.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open program model: %w", err)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Decode reads a JSON program dump and indexes it.
func Decode(r io.Reader) (*Program, error) {
	var p Program
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode program model: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.Index()
	return &p, nil
}

// Validate checks the structural requirements the engine relies on.
func (p *Program) Validate() error {
	if len(p.Packages) == 0 && len(p.References) == 0 {
		return ErrEmptyProgram
	}
	seen := make(map[string]bool)
	for _, t := range p.Types() {
		if t.Name == "" {
			return errors.New("type declaration without a name")
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate type declaration %q", t.Name)
		}
		seen[t.Name] = true
	}
	for i, ref := range p.References {
		if ref.DeclaringType == nil || ref.Name == "" {
			return fmt.Errorf("reference %d: declaring type and name are required", i)
		}
	}
	return nil
}
