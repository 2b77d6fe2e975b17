// internal/workers/coverage/match-artifact/models.go
package matchartifact

import "proposal-engine/internal/models"

// Input.Documents distinguishes omitted (nil, read from the index when a scope
// is given) from an explicit empty list.
type Input struct {
	ArtifactName string                  `json:"artifactName"`
	Documents    []models.DocumentRecord `json:"documents"`
	Scope        *models.DocumentScope   `json:"scope,omitempty"`
}

type Output struct {
	CoverageMatch       models.CoverageMatch `json:"coverageMatch"`
	DocumentsConsidered int                  `json:"documentsConsidered"`
}
