// internal/models/partner.go
package models

import (
	"fmt"
	"strings"
	"time"
)

type ConflictRisk string

const (
	ConflictRiskLow    ConflictRisk = "low"
	ConflictRiskMedium ConflictRisk = "medium"
	ConflictRiskHigh   ConflictRisk = "high"
)

// Normalize folds case and surrounding space so "LOW" and "low" compare equal.
func (r ConflictRisk) Normalize() ConflictRisk {
	return ConflictRisk(strings.ToLower(strings.TrimSpace(string(r))))
}

type Pricing struct {
	CompetitiveRank int     `json:"competitiveRank" yaml:"competitiveRank"`
	HourlyRate      float64 `json:"hourlyRate,omitempty" yaml:"hourlyRate"`
}

type Availability struct {
	ConflictRisk  ConflictRisk `json:"conflictRisk" yaml:"conflictRisk"`
	NextAvailable string       `json:"nextAvailable,omitempty" yaml:"nextAvailable"`
	CurrentLoad   int          `json:"currentLoad,omitempty" yaml:"currentLoad"`
}

type Engagement struct {
	Client        string  `json:"client" yaml:"client"`
	Project       string  `json:"project" yaml:"project"`
	Year          int     `json:"year" yaml:"year"`
	ContractValue float64 `json:"contractValue,omitempty" yaml:"contractValue"`
	Rating        float64 `json:"rating,omitempty" yaml:"rating"`
}

type ComplianceStatus struct {
	OverallScore   int      `json:"overallScore" yaml:"overallScore"`
	Certifications []string `json:"certifications,omitempty" yaml:"certifications"`
}

type SubcontractorCandidate struct {
	ID                  string           `json:"id" yaml:"id"`
	Name                string           `json:"name" yaml:"name"`
	Type                string           `json:"type" yaml:"type"`
	Specialty           []string         `json:"specialty" yaml:"specialty"`
	Rating              float64          `json:"rating" yaml:"rating"`
	Pricing             Pricing          `json:"pricing" yaml:"pricing"`
	Availability        Availability     `json:"availability" yaml:"availability"`
	PastPerformance     []Engagement     `json:"pastPerformance" yaml:"pastPerformance"`
	ComplianceStatus    ComplianceStatus `json:"complianceStatus" yaml:"complianceStatus"`
	RecommendationScore int              `json:"recommendationScore" yaml:"recommendationScore"`
}

// Validate reports every out-of-range field of the record.
func (c SubcontractorCandidate) Validate() []string {
	var problems []string
	if c.Rating < 0 || c.Rating > 5 {
		problems = append(problems, fmt.Sprintf("rating %.2f outside [0,5]", c.Rating))
	}
	if c.Pricing.CompetitiveRank < 1 {
		problems = append(problems, fmt.Sprintf("competitiveRank %d must be at least 1", c.Pricing.CompetitiveRank))
	}
	switch c.Availability.ConflictRisk.Normalize() {
	case ConflictRiskLow, ConflictRiskMedium, ConflictRiskHigh:
	default:
		problems = append(problems, fmt.Sprintf("unknown conflictRisk %q", c.Availability.ConflictRisk))
	}
	if s := c.ComplianceStatus.OverallScore; s < 0 || s > 100 {
		problems = append(problems, fmt.Sprintf("compliance score %d outside [0,100]", s))
	}
	if len(c.Specialty) == 0 && c.Type == "" {
		problems = append(problems, "no specialty or type")
	}
	return problems
}

// SelectionCriteria weights are percentages; they are expected to sum to 100.
type SelectionCriteria struct {
	Price      float64 `json:"price"`
	Quality    float64 `json:"quality"`
	Schedule   float64 `json:"schedule"`
	Experience float64 `json:"experience"`
}

// Sum returns the total weight.
func (c SelectionCriteria) Sum() float64 {
	return c.Price + c.Quality + c.Schedule + c.Experience
}

type SelectionStatus string

const (
	SelectionPending      SelectionStatus = "pending"
	SelectionSelected     SelectionStatus = "selected"
	SelectionContracted   SelectionStatus = "contracted"
	SelectionBackupNeeded SelectionStatus = "backup-needed"
)

type SubcontractorSelection struct {
	ID                  string            `json:"id"`
	RFPID               string            `json:"rfpId"`
	Category            string            `json:"category"`
	SelectedCandidateID string            `json:"selectedCandidateId"`
	Criteria            SelectionCriteria `json:"criteria"`
	Status              SelectionStatus   `json:"status"`
	Notes               string            `json:"notes,omitempty"`
	LastUpdated         time.Time         `json:"lastUpdated"`
}
