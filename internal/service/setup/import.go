package setup

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadImportFile reads a farm configuration from a YAML file:
//
//	farm_name: Hillside Coop
//	farm_size: Medium
//	chicken_type: Sussex
func LoadImportFile(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, fmt.Errorf("read farm import file: %w", err)
	}

	var in Input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return Input{}, fmt.Errorf("parse farm import file %s: %w", path, err)
	}
	return in, nil
}
