// internal/workers/partners/select-partner/models.go
package selectpartner

import "proposal-engine/internal/models"

type Input struct {
	RFPID       string                    `json:"rfpId"`
	Category    string                    `json:"category"`
	CandidateID string                    `json:"candidateId"`
	Notes       string                    `json:"notes,omitempty"`
	Criteria    *models.SelectionCriteria `json:"criteria,omitempty"`
}

type Output struct {
	Selection      *models.SubcontractorSelection `json:"selection"`
	EventPublished bool                           `json:"eventPublished"`
}
