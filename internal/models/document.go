// internal/models/document.go
package models

import "time"

// DocumentScope says whether a document belongs to the company library or to one opportunity.
type DocumentScope struct {
	CompanyID     string `json:"companyId,omitempty"`
	OpportunityID string `json:"opportunityId,omitempty"`
}

// Source names the library the document came from.
func (s DocumentScope) Source() string {
	if s.OpportunityID != "" {
		return "opportunity"
	}
	if s.CompanyID != "" {
		return "company"
	}
	return ""
}

type DocumentRecord struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	DeclaredType string        `json:"declaredType"`
	Tags         []string      `json:"tags,omitempty"`
	UploadedAt   *time.Time    `json:"uploadedAt,omitempty"`
	ExpiresAt    *time.Time    `json:"expiresAt,omitempty"`
	Scope        DocumentScope `json:"scope"`
}

type CoverageMatch struct {
	Artifact   string          `json:"artifact"`
	Matched    bool            `json:"matched"`
	Confidence float64         `json:"confidence"`
	Source     string          `json:"source,omitempty"`
	Document   *DocumentRecord `json:"document,omitempty"`
	Reason     string          `json:"reason"`
	Fallback   bool            `json:"fallback,omitempty"`
}
