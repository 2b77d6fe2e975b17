// internal/workers/checklist/batch-update-checklist/models.go
package batchupdatechecklist

import (
	"proposal-engine/internal/engine/checklist"
	"proposal-engine/internal/models"
)

type Input struct {
	SessionID         string              `json:"sessionId"`
	SectionID         string              `json:"sectionId"`
	Updates           []models.ItemUpdate `json:"updates,omitempty"`
	AutoCompleteFirst int                 `json:"autoCompleteFirst,omitempty"`
}

type Output struct {
	SectionProgress *models.SectionProgress `json:"sectionProgress"`
	SectionState    checklist.SectionStatus `json:"sectionState"`
}
