package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source yields a complete catalog snapshot.
type Source interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*Snapshot, error)

func (f SourceFunc) Load(ctx context.Context) (*Snapshot, error) { return f(ctx) }

//go:embed sample.yaml
var sampleYAML []byte

// Sample returns the built-in sample records.
func Sample() Source {
	return SourceFunc(func(context.Context) (*Snapshot, error) {
		return DecodeYAML(sampleYAML)
	})
}

// File reads a YAML or JSON snapshot from disk on every Load.
func File(path string) Source {
	return SourceFunc(func(ctx context.Context) (*Snapshot, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			return DecodeJSON(raw)
		}
		return DecodeYAML(raw)
	})
}

// DecodeYAML parses and validates a YAML snapshot. Unknown keys are rejected.
func DecodeYAML(raw []byte) (*Snapshot, error) {
	var s Snapshot
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
