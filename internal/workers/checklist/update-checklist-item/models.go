// internal/workers/checklist/update-checklist-item/models.go
package updatechecklistitem

import (
	"proposal-engine/internal/engine/checklist"
	"proposal-engine/internal/models"
)

type Input struct {
	SessionID string `json:"sessionId"`
	SectionID string `json:"sectionId"`
	ItemID    string `json:"itemId"`
	Completed bool   `json:"completed"`
}

type Output struct {
	SectionProgress *models.SectionProgress `json:"sectionProgress"`
	SectionState    checklist.SectionStatus `json:"sectionState"`
}
