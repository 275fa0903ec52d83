package topicgraph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// curriculumFile is the YAML document layout for custom curricula.
type curriculumFile struct {
	Name   string  `yaml:"name"`
	Topics []Topic `yaml:"topics"`
}

// LoadCurriculum reads a curriculum YAML file and returns its topics.
// The file is only parsed here; structural validation happens in New.
func LoadCurriculum(path string) ([]Topic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum: %w", err)
	}

	var f curriculumFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse curriculum %s: %w", path, err)
	}
	if len(f.Topics) == 0 {
		return nil, fmt.Errorf("curriculum %s contains no topics", path)
	}
	return f.Topics, nil
}
