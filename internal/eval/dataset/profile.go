package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bookmatch/internal/models"
)

// LoadProfile reads a reader profile from a YAML file.
func LoadProfile(path string) (*models.ReaderProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile models.ReaderProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}
	return &profile, nil
}
