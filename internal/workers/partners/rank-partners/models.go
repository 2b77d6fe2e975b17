// internal/workers/partners/rank-partners/models.go
package rankpartners

import (
	"proposal-engine/internal/engine/partners"
	"proposal-engine/internal/models"
)

// Input ranks either an explicit candidate list or the specialty's pool.
type Input struct {
	Specialty    string                    `json:"specialty,omitempty"`
	CandidateIDs []string                  `json:"candidateIds,omitempty"`
	Criteria     *models.SelectionCriteria `json:"criteria"`
}

type Output struct {
	Ranked         []partners.Ranked `json:"ranked"`
	TopCandidateID string            `json:"topCandidateId,omitempty"`
}
