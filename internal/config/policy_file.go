package config

import (
	"fmt"
	"os"

	"worldstats/domain/world"

	"gopkg.in/yaml.v3"
)

// LoadPolicyFile overlays the YAML policy at path onto base. Keys missing from the file keep
// their base values.
func LoadPolicyFile(path string, base world.Policy) (world.Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	policy := base
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return policy, nil
}
