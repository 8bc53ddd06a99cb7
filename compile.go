package apla

import (
	"fmt"
	"os"
)

// Unit is one compiled source file.
type Unit struct {
	Source  *SourceFile
	Checked *File
	C       CText
}

// CompileSource runs the whole pipeline on one unit. Diagnostics are returned
// as an ErrorList naming the unit.
func CompileSource(name string, source []byte, cfg Config) (*Unit, error) {
	unit := &Unit{Source: NewSourceFile(name, string(source))}
	parsed, err := ParseFile(name, source, cfg.TabWidth)
	if err != nil {
		return unit, named(name, err)
	}
	unit.Checked, err = cfg.NewChecker().Check(parsed)
	if err != nil {
		return unit, named(name, err)
	}
	cfile, err := Lower(unit.Checked, cfg.LowerOptions())
	if err != nil {
		return unit, named(name, err)
	}
	unit.C = Codegen(cfile)
	return unit, nil
}

// CompileFile reads path and compiles it as the unit UnitName(path).
func CompileFile(path string, cfg Config) (*Unit, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return CompileSource(UnitName(path), source, cfg)
}

func named(name string, err error) ErrorList {
	errs := Errors(err)
	for _, e := range errs {
		e.File = name
	}
	return errs
}

// WriteCText writes the non-empty halves of text into dir and returns the
// paths written.
func WriteCText(dir string, text CText) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	header, source := outputPaths(dir, text.Name)
	var written []string
	for _, out := range []struct {
		path, text string
	}{
		{header, text.Header},
		{source, text.Source},
	} {
		if out.text == "" {
			continue
		}
		if err := os.WriteFile(out.path, []byte(out.text), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", out.path, err)
		}
		written = append(written, out.path)
	}
	return written, nil
}
