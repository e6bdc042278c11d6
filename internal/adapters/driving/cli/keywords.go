package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

// loadKeywords reads a YAML file mapping layer names to extra
// classifier keywords:
//
//	travel:
//	  - ferry
//	  - layover
//	health:
//	  - physio
//
// Unknown layer names are an error rather than a silent no-op, since a
// typo would otherwise quietly disable the whole entry.
func loadKeywords(path string) (map[domain.Layer][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keywords file: %w", err)
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing keywords file: %w", err)
	}

	keywords := make(map[domain.Layer][]string, len(raw))
	for name, words := range raw {
		layer := domain.Layer(name)
		if !layer.IsValid() {
			return nil, fmt.Errorf("unknown layer %q in %s (valid: %s)", name, path, validLayerNames())
		}
		keywords[layer] = append(keywords[layer], words...)
	}
	return keywords, nil
}

// validLayerNames renders the layer names for error messages, in
// priority order.
func validLayerNames() string {
	layers := domain.Layers()
	names := make([]string, 0, len(layers))
	for _, l := range layers {
		names = append(names, string(l))
	}
	return strings.Join(names, ", ")
}
