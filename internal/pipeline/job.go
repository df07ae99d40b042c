package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Job is a declarative run definition loaded from a YAML file, so a
// recurring chart can be re-rendered with `chartkit run --job`.
type Job struct {
	Name      string `yaml:"name"`
	SheetID   string `yaml:"sheet_id,omitempty"`
	Worksheet string `yaml:"worksheet,omitempty"`

	// Input points at a local .xlsx or .csv file instead of a sheet.
	Input string `yaml:"input,omitempty"`

	Title   string `yaml:"title,omitempty"`
	Output  string `yaml:"output,omitempty"`
	MaxRows int    `yaml:"max_rows,omitempty"`

	// Auto selects the heuristic detector instead of the AI client.
	Auto bool `yaml:"auto,omitempty"`

	// An explicit mapping skips the recommendation stage entirely.
	ChartType string   `yaml:"chart_type,omitempty"`
	XField    string   `yaml:"x_field,omitempty"`
	YFields   []string `yaml:"y_fields,omitempty"`
}

// LoadJob reads and parses a job YAML file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("job file not found: %s — check that the path is correct", path)
		}
		return nil, fmt.Errorf("could not read job file %s: %w", path, err)
	}
	return ParseJob(data)
}

// ParseJob parses a job from YAML bytes.
func ParseJob(data []byte) (*Job, error) {
	var j Job
	if err := yaml.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("invalid job YAML: %w", err)
	}
	if err := validateJob(&j); err != nil {
		return nil, err
	}
	return &j, nil
}

func validateJob(j *Job) error {
	if j.Name == "" {
		return fmt.Errorf("job is missing a 'name' field")
	}
	if j.SheetID == "" && j.Input == "" {
		return fmt.Errorf("job %q names no data source — set 'sheet_id' or 'input'", j.Name)
	}
	if j.SheetID != "" && j.Input != "" {
		return fmt.Errorf("job %q sets both 'sheet_id' and 'input' — pick one", j.Name)
	}
	if j.ChartType != "" {
		if j.XField == "" || len(j.YFields) == 0 {
			return fmt.Errorf("job %q sets 'chart_type' but not 'x_field' and 'y_fields'", j.Name)
		}
		if j.Auto {
			return fmt.Errorf("job %q sets both 'chart_type' and 'auto' — pick one", j.Name)
		}
	}
	return nil
}
