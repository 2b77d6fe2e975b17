// internal/workers/partners/candidates-for-specialty/models.go
package candidatesforspecialty

import "proposal-engine/internal/models"

type Input struct {
	Specialty string `json:"specialty"`
}

type Output struct {
	Candidates []models.SubcontractorCandidate `json:"candidates"`
	Count      int                             `json:"count"`
}
