package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceConfig is one entry of the source registry file.
type SourceConfig struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	URL  string `yaml:"url"`
}

type RegistryConfig struct {
	Sources []SourceConfig `yaml:"sources"`
}

// LoadRegistry reads the YAML source registry and builds a client per entry.
// Kinds map to the upstream services that contribute indexable documents.
func LoadRegistry(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var cfg RegistryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	return BuildSources(cfg)
}

func BuildSources(cfg RegistryConfig) ([]Source, error) {
	srcs := make([]Source, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		var (
			src Source
			err error
		)
		switch sc.Kind {
		case "content":
			src, err = NewContentSource(sc.Name, sc.URL)
		case "partners":
			src, err = NewPartnersSource(sc.Name, sc.URL)
		case "projects":
			src, err = NewProjectsSource(sc.Name, sc.URL)
		case "social":
			src, err = NewSocialSource(sc.Name, sc.URL)
		case "notifications":
			src, err = NewNotificationsSource(sc.Name, sc.URL)
		default:
			return nil, fmt.Errorf("unknown source kind: %q", sc.Kind)
		}
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, src)
	}
	return srcs, nil
}
