// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

//go:embed activities.json
var defaultRegistry []byte

// LoadRegistry reads an activity registry from a JSON file.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a registry document.
func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	return &reg, nil
}

// Default returns the registry compiled into the binary.
func Default() *ActivityRegistry {
	reg, err := Parse(defaultRegistry)
	if err != nil {
		panic(fmt.Sprintf("embedded activity registry is invalid: %v", err))
	}
	return reg
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// TaskTypes lists every registered task type in sorted order.
func (r *ActivityRegistry) TaskTypes() []string {
	out := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		out = append(out, a.TaskType)
	}
	sort.Strings(out)
	return out
}

// Check reports structural problems: duplicate task types, missing schemas.
func (r *ActivityRegistry) Check() []string {
	var problems []string
	seen := make(map[string]bool)
	for _, a := range r.Activities {
		switch {
		case a.TaskType == "":
			problems = append(problems, fmt.Sprintf("activity %q has no taskType", a.ID))
			continue
		case seen[a.TaskType]:
			problems = append(problems, fmt.Sprintf("duplicate taskType %q", a.TaskType))
		}
		seen[a.TaskType] = true
		if len(a.InputSchema) == 0 {
			problems = append(problems, fmt.Sprintf("activity %q has no inputSchema", a.TaskType))
		}
	}
	return problems
}
