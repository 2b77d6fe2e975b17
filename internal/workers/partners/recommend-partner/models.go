// internal/workers/partners/recommend-partner/models.go
package recommendpartner

import "proposal-engine/internal/models"

type Input struct {
	Specialty string `json:"specialty"`
}

type Output struct {
	Recommended *models.SubcontractorCandidate `json:"recommended"`
	Found       bool                           `json:"found"`
}
