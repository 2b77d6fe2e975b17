// internal/workers/coverage/match-artifacts/models.go
package matchartifacts

import "proposal-engine/internal/models"

type Input struct {
	ArtifactNames []string                `json:"artifactNames"`
	Documents     []models.DocumentRecord `json:"documents"`
	Scope         *models.DocumentScope   `json:"scope,omitempty"`
}

type Output struct {
	CoverageMatches     []models.CoverageMatch `json:"coverageMatches"`
	CoveredCount        int                    `json:"coveredCount"`
	MissingArtifacts    []string               `json:"missingArtifacts"`
	DocumentsConsidered int                    `json:"documentsConsidered"`
}
