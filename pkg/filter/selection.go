package filter

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSelection reads an identifier selection file as produced by the
// dataset viewer: a JSON or YAML document carrying an identifiers list
func LoadSelection(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read selection file: %w", err)
	}
	var doc struct {
		Identifiers []string `yaml:"identifiers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse selection file %s: %w", path, err)
	}
	if doc.Identifiers == nil {
		return nil, fmt.Errorf("selection file %s has no identifiers list", path)
	}
	ids := make(map[string]struct{}, len(doc.Identifiers))
	for _, id := range doc.Identifiers {
		ids[id] = struct{}{}
	}
	return ids, nil
}

// LoadIdentifierList reads a space or newline separated identifier list
func LoadIdentifierList(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read identifier list: %w", err)
	}
	fields := strings.Fields(string(data))
	ids := make(map[string]struct{}, len(fields))
	for _, id := range fields {
		ids[id] = struct{}{}
	}
	return ids, nil
}
