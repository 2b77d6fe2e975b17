// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"proposal-engine/internal/common/errors"
	"proposal-engine/pkg/registry"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			return true
		}
	}
	return false
}

// Validator checks job variables against the input schema registered for a task type.
// Schemas are compiled on first use and cached.
type Validator struct {
	reg *registry.ActivityRegistry

	mu       sync.Mutex
	compiled map[string]*gojsonschema.Schema
}

func NewValidator(reg *registry.ActivityRegistry) *Validator {
	return &Validator{reg: reg, compiled: make(map[string]*gojsonschema.Schema)}
}

func (v *Validator) schemaFor(taskType string) (*gojsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.compiled[taskType]; ok {
		return s, nil
	}
	activity, ok := v.reg.Find(taskType)
	if !ok || len(activity.InputSchema) == 0 {
		v.compiled[taskType] = nil
		return nil, nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(activity.InputSchema))
	if err != nil {
		return nil, fmt.Errorf("compile input schema for %s: %w", taskType, err)
	}
	v.compiled[taskType] = s
	return s, nil
}

// Check validates data and returns the detailed result. Task types without a
// registered schema always pass.
func (v *Validator) Check(taskType string, data map[string]interface{}) (*ValidationResult, error) {
	schema, err := v.schemaFor(taskType)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return &ValidationResult{Valid: true}, nil
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// Validate is Check folded into a single INVALID_INPUT error.
func (v *Validator) Validate(taskType string, data map[string]interface{}) error {
	result, err := v.Check(taskType, data)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if !result.Valid {
		return errors.NewInvalidInputError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

var taskTypePattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

// ValidateTaskTypeNaming checks the kebab-case convention used for job types.
func ValidateTaskTypeNaming(taskType string) error {
	if !taskTypePattern.MatchString(taskType) {
		return fmt.Errorf("task type must be kebab-case (e.g. match-artifact), got %q", taskType)
	}
	return nil
}
