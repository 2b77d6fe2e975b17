// Package coverage decides which supplied document best satisfies a named
// artifact requirement, and with what confidence.
package coverage

import (
	"fmt"
	"math"
	"strings"
	"time"

	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/common/metrics"
	"proposal-engine/internal/engine/rules"
	"proposal-engine/internal/models"
)

// MatchThreshold is the confidence at or above which an artifact counts as covered.
const MatchThreshold = 0.6

const (
	fallbackConfidence = 0.2
	fallbackReason     = "no rule; best effort"

	tagWeight         = 0.5
	typeWeight        = 0.3
	freshWeight       = 0.15
	noAgeLimitWeight  = 0.05
	notExpiredWeight  = 0.05
	unknownArtifactID = "unknown"
)

// Matcher is safe for concurrent use; it holds no mutable state.
type Matcher struct {
	catalog *rules.Catalog
	log     logger.Logger
	now     func() time.Time
}

type Option func(*Matcher)

func WithLogger(l logger.Logger) Option {
	return func(m *Matcher) { m.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(m *Matcher) { m.now = now }
}

func New(catalog *rules.Catalog, opts ...Option) *Matcher {
	m := &Matcher{
		catalog: catalog,
		log:     logger.NewNoOpLogger(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MatchArtifact scores docs against the artifact's rule using the matcher clock.
func (m *Matcher) MatchArtifact(artifactName string, docs []models.DocumentRecord) models.CoverageMatch {
	return m.MatchArtifactAt(artifactName, docs, m.now())
}

// MatchArtifacts matches each name independently; one document may cover several artifacts.
func (m *Matcher) MatchArtifacts(artifactNames []string, docs []models.DocumentRecord) []models.CoverageMatch {
	now := m.now()
	out := make([]models.CoverageMatch, 0, len(artifactNames))
	for _, name := range artifactNames {
		out = append(out, m.MatchArtifactAt(name, docs, now))
	}
	return out
}

// MatchArtifactAt is MatchArtifact with an explicit evaluation time.
func (m *Matcher) MatchArtifactAt(artifactName string, docs []models.DocumentRecord, now time.Time) models.CoverageMatch {
	rule, ok := m.catalog.Artifact(artifactName)
	if !ok {
		match := m.bestEffort(artifactName, docs)
		metrics.RecordCoverageMatch(unknownArtifactID, match.Matched)
		return match
	}

	match := models.CoverageMatch{Artifact: artifactName}
	if len(docs) == 0 {
		match.Reason = "no documents supplied"
		metrics.RecordCoverageMatch(rule.Name, false)
		return match
	}

	bestIdx := -1
	var bestScore float64
	var bestSignals []string
	for i := range docs {
		score, signals := Score(rule, docs[i], now)
		if score > bestScore {
			bestIdx, bestScore, bestSignals = i, score, signals
		}
	}

	if bestIdx < 0 {
		match.Reason = fmt.Sprintf("none of %d documents matched tags, type or freshness", len(docs))
		metrics.RecordCoverageMatch(rule.Name, false)
		return match
	}

	doc := docs[bestIdx]
	match.Confidence = bestScore
	match.Matched = bestScore >= MatchThreshold
	match.Document = &doc
	match.Source = doc.Scope.Source()
	match.Reason = strings.Join(bestSignals, "; ")

	metrics.RecordCoverageMatch(rule.Name, match.Matched)
	return match
}

func (m *Matcher) bestEffort(artifactName string, docs []models.DocumentRecord) models.CoverageMatch {
	m.log.Warn("no coverage rule for artifact, using best effort", map[string]interface{}{
		"artifact":  artifactName,
		"documents": len(docs),
	})
	metrics.RecordFallback(metrics.FallbackArtifact)

	match := models.CoverageMatch{
		Artifact: artifactName,
		Reason:   fallbackReason,
		Fallback: true,
	}
	if len(docs) > 0 {
		doc := docs[0]
		match.Document = &doc
		match.Source = doc.Scope.Source()
		match.Confidence = fallbackConfidence
	}
	return match
}

// Score rates one document against a rule in [0,1], rounded to two decimals,
// and lists the signals that contributed.
func Score(rule rules.ArtifactRule, doc models.DocumentRecord, now time.Time) (float64, []string) {
	var score float64
	var signals []string

	if tag, ok := sharedTag(rule.Tags, doc.Tags); ok {
		score += tagWeight
		signals = append(signals, fmt.Sprintf("tag %q matches", tag))
	}

	switch {
	case len(rule.Types) == 0:
		score += typeWeight
		signals = append(signals, "any document type accepted")
	case containsFold(rule.Types, doc.DeclaredType):
		score += typeWeight
		signals = append(signals, fmt.Sprintf("type %s accepted", strings.ToLower(doc.DeclaredType)))
	}

	if rule.MaxAgeDays != nil {
		if doc.UploadedAt != nil {
			age := now.Sub(*doc.UploadedAt)
			if age <= time.Duration(*rule.MaxAgeDays)*24*time.Hour {
				score += freshWeight
				signals = append(signals, fmt.Sprintf("uploaded %d days ago, within %d", int(age.Hours()/24), *rule.MaxAgeDays))
			}
		}
	} else {
		score += noAgeLimitWeight
		signals = append(signals, "no freshness requirement")
	}

	if doc.ExpiresAt != nil && doc.ExpiresAt.After(now) {
		score += notExpiredWeight
		signals = append(signals, "not expired")
	}

	return round2(clamp(score, 0, 1)), signals
}

func sharedTag(accepted, tags []string) (string, bool) {
	for _, tag := range tags {
		if containsFold(accepted, tag) {
			return strings.ToLower(strings.TrimSpace(tag)), true
		}
	}
	return "", false
}

func containsFold(list []string, value string) bool {
	value = strings.TrimSpace(value)
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), value) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
