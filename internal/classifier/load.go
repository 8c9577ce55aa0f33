package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// phraseFile is the YAML shape of an indicator phrase file.
type phraseFile struct {
	Phrases []string `yaml:"phrases"`
	Extend  bool     `yaml:"extend"`
}

// LoadPhrases loads an indicator list from a YAML file. Empty path and
// missing file fall back to the builtin list. When the file sets
// extend: true, its phrases are appended to the builtin list instead of
// replacing it.
func LoadPhrases(path string) ([]string, error) {
	if path == "" {
		return DefaultPhrases, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPhrases, nil
		}
		return nil, fmt.Errorf("failed to read indicator file: %w", err)
	}

	var pf phraseFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse indicator file: %w", err)
	}
	if len(pf.Phrases) == 0 {
		return nil, fmt.Errorf("indicator file %s defines no phrases", path)
	}

	if pf.Extend {
		merged := make([]string, 0, len(DefaultPhrases)+len(pf.Phrases))
		merged = append(merged, DefaultPhrases...)
		merged = append(merged, pf.Phrases...)
		return merged, nil
	}
	return pf.Phrases, nil
}
