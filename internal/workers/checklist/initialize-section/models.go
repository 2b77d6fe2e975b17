// internal/workers/checklist/initialize-section/models.go
package initializesection

import (
	"proposal-engine/internal/engine/checklist"
	"proposal-engine/internal/models"
)

type Input struct {
	SessionID string `json:"sessionId"`
	SectionID string `json:"sectionId"`
}

type Output struct {
	SectionProgress *models.SectionProgress `json:"sectionProgress"`
	SectionState    checklist.SectionStatus `json:"sectionState"`
}
