package shared

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type denylistFile struct {
	Denylist []string `yaml:"denylist"`
}

// LoadDenylist reads extra tag-denylist substrings from a YAML file of the form
//
//	denylist:
//	  - "lists of"
//
// An empty path yields no entries.
func LoadDenylist(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read denylist %s: %w", path, err)
	}
	var f denylistFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse denylist %s: %w", path, err)
	}
	out := make([]string, 0, len(f.Denylist))
	for _, s := range f.Denylist {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
