// Package importer loads batches of movie submissions from JSON or YAML files.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/camden-git/moviearchive/catalog"
	"gopkg.in/yaml.v3"
)

// Format names a supported batch file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q (valid: json, yaml)", s)
}

// FormatForFile picks the format from the file extension.
func FormatForFile(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot detect format of %q: no extension", path)
	}
	return ParseFormat(ext)
}

// batch is the wrapped document shape: {"movies": [...]}.
type batch struct {
	Movies []json.RawMessage `json:"movies"`
}

// Parse decodes data into submissions. The document is either a list of
// movies or an object with a "movies" list. YAML documents are converted to
// JSON first so both formats share the same field decoding.
func Parse(data []byte, format Format) ([]catalog.Submission, error) {
	switch format {
	case FormatJSON:
	case FormatYAML:
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		data = converted
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	items, err := splitItems(data)
	if err != nil {
		return nil, err
	}

	subs := make([]catalog.Submission, 0, len(items))
	for i, raw := range items {
		var sub catalog.Submission
		if err := json.Unmarshal(raw, &sub); err != nil {
			return nil, fmt.Errorf("movie %d: %w", i+1, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// ParseFile reads path and parses it using the format implied by its extension.
func ParseFile(path string) ([]catalog.Submission, error) {
	format, err := FormatForFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFileAs(path, format)
}

// ParseFileAs reads path and parses it as format.
func ParseFileAs(path string, format Format) ([]catalog.Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	subs, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return subs, nil
}

func splitItems(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []json.RawMessage{}, nil
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decoding movie list: %w", err)
		}
		return items, nil
	}

	var b batch
	if err := json.Unmarshal(trimmed, &b); err != nil {
		return nil, fmt.Errorf("decoding movie batch: %w", err)
	}
	if b.Movies == nil {
		return nil, fmt.Errorf("document has no \"movies\" list")
	}
	return b.Movies, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting yaml to json: %w", err)
	}
	return out, nil
}
