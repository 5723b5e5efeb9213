package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thornlang/thornc/internal/script"
)

// Project is the sidecar `thorn.mod.yaml` format (§AMBIENT/DOMAIN STACK
// addition): a declarative list of source files for a multi-file build
// plus the foreign procedures the host environment promises to supply,
// mirroring the shape of the teacher's own module-descriptor +
// foreign-registration split (funvibe-funxy/internal/ext/config.go,
// internal/evaluator's Builtins registration) without pulling in the
// teacher's module-loader machinery this spec has no use for.
type Project struct {
	Sources []string       `yaml:"sources"`
	Foreign []ForeignEntry `yaml:"foreign"`
}

// ForeignEntry names one host-supplied procedure §6.4 expects the
// generated Script to be able to link against by id.
type ForeignEntry struct {
	Name   string      `yaml:"name"`
	Params []ParamSpec `yaml:"params"`
	Return string      `yaml:"return"`
}

type ParamSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

func (f ForeignEntry) paramSpecs() []script.ParamSpec {
	out := make([]script.ParamSpec, len(f.Params))
	for i, p := range f.Params {
		out[i] = script.ParamSpec{Name: p.Name, Type: p.Type}
	}
	return out
}

// LoadProject reads and resolves a thorn.mod.yaml file, rewriting its
// `sources` entries relative to the project file's own directory.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for i, src := range p.Sources {
		if !filepath.IsAbs(src) {
			p.Sources[i] = filepath.Join(dir, src)
		}
	}
	return &p, nil
}
