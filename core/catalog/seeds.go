package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// LoadSeeds reads catalog items from every file in fsys matching one of the
// glob patterns (doublestar syntax, e.g. "statblocks/**/*.yaml"). A file holds
// either one item or a list of items, as JSON or YAML.
func LoadSeeds(fsys fs.FS, patterns ...string) ([]json.RawMessage, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid seed pattern %q: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	files = slices.Compact(files)

	var out []json.RawMessage
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed %s: %w", name, err)
		}
		items, err := decodeSeed(name, data)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

func decodeSeed(name string, data []byte) ([]json.RawMessage, error) {
	var doc any
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse seed %s: %w", name, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse seed %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("unsupported seed format %s", name)
	}

	list, ok := doc.([]any)
	if !ok {
		list = []any{doc}
	}
	out := make([]json.RawMessage, 0, len(list))
	for i, item := range list {
		if _, ok := item.(map[string]any); !ok {
			return nil, fmt.Errorf("seed %s item %d is not an object", name, i)
		}
		b, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode seed %s item %d: %w", name, i, err)
		}
		out = append(out, b)
	}
	return out, nil
}
