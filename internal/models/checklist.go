// internal/models/checklist.go
package models

import "time"

// ActionKind tells the presentation layer which side-effect accompanies completing an item.
type ActionKind string

const (
	ActionUpload    ActionKind = "upload"
	ActionReview    ActionKind = "review"
	ActionSubmit    ActionKind = "submit"
	ActionVerify    ActionKind = "verify"
	ActionAutomatic ActionKind = "automatic"
	ActionManual    ActionKind = "manual"
)

// Valid reports whether k is one of the known action kinds.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionUpload, ActionReview, ActionSubmit, ActionVerify, ActionAutomatic, ActionManual:
		return true
	}
	return false
}

type ChecklistItem struct {
	ID              string     `json:"id" yaml:"id"`
	Label           string     `json:"label" yaml:"label"`
	Description     string     `json:"description,omitempty" yaml:"description"`
	Required        bool       `json:"required" yaml:"required"`
	Completed       bool       `json:"completed" yaml:"-"`
	Dependencies    []string   `json:"dependencies,omitempty" yaml:"dependencies"`
	ActionKind      ActionKind `json:"actionKind" yaml:"actionKind"`
	EstimatedEffort string     `json:"estimatedEffort,omitempty" yaml:"estimatedEffort"`
}

// DependsOn reports whether itemID is a direct dependency of the item.
func (i ChecklistItem) DependsOn(itemID string) bool {
	for _, dep := range i.Dependencies {
		if dep == itemID {
			return true
		}
	}
	return false
}

type SectionProgress struct {
	SectionID       string          `json:"sectionId"`
	TemplateID      string          `json:"templateId"`
	Items           []ChecklistItem `json:"items"`
	OverallProgress int             `json:"overallProgress"`
	IsComplete      bool            `json:"isComplete"`
	CanProceed      bool            `json:"canProceed"`
	Fallback        bool            `json:"fallback,omitempty"`
	LastUpdated     time.Time       `json:"lastUpdated"`
}

// Clone returns a deep copy so callers never share item slices with a store.
func (p *SectionProgress) Clone() *SectionProgress {
	if p == nil {
		return nil
	}
	out := *p
	out.Items = make([]ChecklistItem, len(p.Items))
	for i, item := range p.Items {
		out.Items[i] = item
		if item.Dependencies != nil {
			out.Items[i].Dependencies = append([]string(nil), item.Dependencies...)
		}
	}
	return &out
}

// Item returns the index of itemID in the section, or -1.
func (p *SectionProgress) Item(itemID string) int {
	for i := range p.Items {
		if p.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

type ItemUpdate struct {
	ItemID    string `json:"itemId"`
	Completed bool   `json:"completed"`
}
