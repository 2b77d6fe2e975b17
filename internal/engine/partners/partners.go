// Package partners filters the subcontractor pool by specialty, scores
// candidates against caller weights and records selections.
package partners

import (
	"context"
	"sort"
	"strings"
	"time"

	"proposal-engine/internal/common/errors"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/common/metrics"
	"proposal-engine/internal/engine/rules"
	"proposal-engine/internal/models"

	"github.com/google/uuid"
)

const unknownSpecialty = "unknown"

// Ranked is a candidate with its dynamic score.
type Ranked struct {
	Candidate models.SubcontractorCandidate `json:"candidate"`
	Score     int                           `json:"score"`
	Breakdown Breakdown                     `json:"breakdown"`
}

type Scorer struct {
	catalog *rules.Catalog
	store   SelectionStore
	log     logger.Logger
	now     func() time.Time
	newID   func() string
	policy  Policy
}

type Option func(*Scorer)

func WithSelectionStore(s SelectionStore) Option {
	return func(p *Scorer) { p.store = s }
}

func WithLogger(l logger.Logger) Option {
	return func(p *Scorer) { p.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(p *Scorer) { p.now = now }
}

func WithPolicy(policy Policy) Option {
	return func(p *Scorer) { p.policy = policy }
}

func WithIDGenerator(newID func() string) Option {
	return func(p *Scorer) { p.newID = newID }
}

func New(catalog *rules.Catalog, opts ...Option) *Scorer {
	p := &Scorer{
		catalog: catalog,
		store:   NewMemorySelectionStore(),
		log:     logger.NewNoOpLogger(),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CandidatesForSpecialty returns pool members whose specialty tags contain the
// term or whose type equals it, best static recommendation score first.
func (p *Scorer) CandidatesForSpecialty(specialty string) []models.SubcontractorCandidate {
	term := strings.ToLower(strings.TrimSpace(specialty))
	if term == "" {
		return nil
	}

	var out []models.SubcontractorCandidate
	for _, c := range p.catalog.Candidates {
		if matchesSpecialty(c, term) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecommendationScore > out[j].RecommendationScore
	})

	if len(out) == 0 {
		p.log.Warn("no candidates for specialty", map[string]interface{}{"specialty": specialty})
		metrics.RecordFallback(metrics.FallbackSpecialty)
	}
	return out
}

func matchesSpecialty(c models.SubcontractorCandidate, term string) bool {
	if strings.EqualFold(strings.TrimSpace(c.Type), term) {
		return true
	}
	for _, s := range c.Specialty {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

// Recommend returns the top candidate for the specialty, or nil.
func (p *Scorer) Recommend(specialty string) *models.SubcontractorCandidate {
	candidates := p.CandidatesForSpecialty(specialty)
	if len(candidates) == 0 {
		metrics.RecordRecommendation(unknownSpecialty, false)
		return nil
	}
	top := candidates[0]
	metrics.RecordRecommendation(specialtyLabel(top), true)
	return &top
}

// specialtyLabel keys metrics by the pool's own vocabulary rather than the
// caller's search term.
func specialtyLabel(c models.SubcontractorCandidate) string {
	if t := strings.TrimSpace(c.Type); t != "" {
		return strings.ToLower(t)
	}
	if len(c.Specialty) > 0 {
		return strings.ToLower(strings.TrimSpace(c.Specialty[0]))
	}
	return unknownSpecialty
}

// Candidate returns a pool member by id.
func (p *Scorer) Candidate(id string) (models.SubcontractorCandidate, bool) {
	return p.catalog.Candidate(id)
}

// Criteria normalizes caller weights under the scorer's policy. Nil means DefaultCriteria.
func (p *Scorer) Criteria(criteria *models.SelectionCriteria) (models.SelectionCriteria, error) {
	if criteria == nil {
		return DefaultCriteria, nil
	}
	return NormalizeCriteria(*criteria, p.policy.StrictCriteria)
}

// Score normalizes the criteria and scores one candidate under the scorer's policy.
func (p *Scorer) Score(c models.SubcontractorCandidate, criteria *models.SelectionCriteria) (Breakdown, error) {
	weights, err := p.Criteria(criteria)
	if err != nil {
		return Breakdown{}, err
	}
	return ScoreBreakdown(c, weights, p.policy), nil
}

// Rank scores every candidate for the specialty, best first.
func (p *Scorer) Rank(specialty string, criteria *models.SelectionCriteria) ([]Ranked, error) {
	return p.RankCandidates(p.CandidatesForSpecialty(specialty), criteria)
}

// Compare ranks an arbitrary set of pool candidates. Unknown and repeated ids are skipped.
func (p *Scorer) Compare(ids []string, criteria *models.SelectionCriteria) ([]Ranked, error) {
	seen := make(map[string]bool, len(ids))
	candidates := make([]models.SubcontractorCandidate, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		c, ok := p.catalog.Candidate(id)
		if !ok {
			p.log.Warn("unknown candidate skipped", map[string]interface{}{"candidateId": id})
			metrics.RecordFallback(metrics.FallbackCandidate)
			continue
		}
		candidates = append(candidates, c)
	}
	return p.RankCandidates(candidates, criteria)
}

// RankCandidates orders candidates by dynamic score. Ties fall back to the
// static recommendation score and then to input order.
func (p *Scorer) RankCandidates(candidates []models.SubcontractorCandidate, criteria *models.SelectionCriteria) ([]Ranked, error) {
	weights, err := p.Criteria(criteria)
	if err != nil {
		return nil, err
	}

	ranked := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		b := ScoreBreakdown(c, weights, p.policy)
		ranked = append(ranked, Ranked{Candidate: c, Score: b.Total, Breakdown: b})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Candidate.RecommendationScore > ranked[j].Candidate.RecommendationScore
	})
	return ranked, nil
}

// Select records candidateID as the choice for (rfpID, category), replacing any earlier choice.
func (p *Scorer) Select(ctx context.Context, rfpID, category, candidateID, notes string, criteria *models.SelectionCriteria) (*models.SubcontractorSelection, error) {
	var missing []string
	for field, v := range map[string]string{"rfpId": rfpID, "category": category, "candidateId": candidateID} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.NewInvalidInputError("missing " + strings.Join(missing, ", "))
	}

	if _, ok := p.catalog.Candidate(candidateID); !ok {
		if p.policy.ValidateSelections {
			return nil, errors.NewNotFoundError("candidate", candidateID)
		}
		p.log.Warn("selecting candidate outside the pool", map[string]interface{}{
			"rfpId":       rfpID,
			"category":    category,
			"candidateId": candidateID,
		})
	}

	weights, err := p.Criteria(criteria)
	if err != nil {
		return nil, err
	}

	sel := models.SubcontractorSelection{
		ID:                  p.newID(),
		RFPID:               rfpID,
		Category:            category,
		SelectedCandidateID: candidateID,
		Criteria:            weights,
		Status:              models.SelectionSelected,
		Notes:               notes,
		LastUpdated:         p.now(),
	}
	if err := p.store.Save(ctx, sel); err != nil {
		return nil, err
	}

	p.log.Info("partner selected", map[string]interface{}{
		"rfpId":       rfpID,
		"category":    category,
		"candidateId": candidateID,
		"selectionId": sel.ID,
	})
	return &sel, nil
}

// CurrentSelection returns the latest selection for (rfpID, category), or nil.
func (p *Scorer) CurrentSelection(ctx context.Context, rfpID, category string) (*models.SubcontractorSelection, error) {
	return p.store.Current(ctx, rfpID, category)
}
