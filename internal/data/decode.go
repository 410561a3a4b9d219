package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a dataset encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// Decode parses a dataset document. origin is stamped on every record.
func Decode(raw []byte, format Format, origin string) ([]LocationRecord, error) {
	var (
		recs []LocationRecord
		err  error
	)
	switch format {
	case FormatYAML:
		recs, err = decodeYAML(raw)
	case FormatJSON:
		recs, err = decodeJSON(raw)
	default:
		return nil, fmt.Errorf("decoding %s: unsupported format %q", origin, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", origin, err)
	}

	for i := range recs {
		recs[i].Origin = origin
	}
	return recs, nil
}

func decodeYAML(raw []byte) ([]LocationRecord, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var recs []LocationRecord
		if err := root.Decode(&recs); err != nil {
			return nil, err
		}
		return recs, nil
	case yaml.MappingNode:
		var ds Dataset
		if err := root.Decode(&ds); err != nil {
			return nil, err
		}
		return ds.Locations, nil
	}
	return nil, fmt.Errorf("line %d: expected a list of locations or a mapping", root.Line)
}

func decodeJSON(raw []byte) ([]LocationRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var recs []LocationRecord
		if err := json.Unmarshal(trimmed, &recs); err != nil {
			return nil, err
		}
		return recs, nil
	}

	var ds Dataset
	if err := json.Unmarshal(trimmed, &ds); err != nil {
		return nil, err
	}
	return ds.Locations, nil
}
