// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"time"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Validate checks that task types are unique and timeouts parse.
func (r *ActivityRegistry) Validate() error {
	seen := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if a.TaskType == "" {
			return fmt.Errorf("activity %q has no task type", a.ID)
		}
		if seen[a.TaskType] {
			return fmt.Errorf("duplicate task type %q", a.TaskType)
		}
		seen[a.TaskType] = true
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				return fmt.Errorf("activity %q: invalid timeout %q", a.ID, a.Timeout)
			}
		}
	}
	return nil
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// Implemented lists the task types marked as implemented.
func (r *ActivityRegistry) Implemented() []string {
	var out []string
	for _, a := range r.Activities {
		if a.ImplementationStatus == "implemented" {
			out = append(out, a.TaskType)
		}
	}
	return out
}

// Unserved lists implemented task types missing from served.
func (r *ActivityRegistry) Unserved(served []string) []string {
	var out []string
	for _, taskType := range r.Implemented() {
		if !slices.Contains(served, taskType) {
			out = append(out, taskType)
		}
	}
	return out
}
