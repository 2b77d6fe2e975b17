// internal/workers/partners/score-candidate/models.go
package scorecandidate

import (
	"proposal-engine/internal/engine/partners"
	"proposal-engine/internal/models"
)

// Input carries either a pool id or a full candidate record; the record wins
// when both are present.
type Input struct {
	CandidateID string                         `json:"candidateId,omitempty"`
	Candidate   *models.SubcontractorCandidate `json:"candidate,omitempty"`
	Criteria    *models.SelectionCriteria      `json:"criteria"`
}

type Output struct {
	CandidateID string                   `json:"candidateId"`
	Score       int                      `json:"score"`
	Breakdown   partners.Breakdown       `json:"breakdown"`
	Criteria    models.SelectionCriteria `json:"criteria"`
}
