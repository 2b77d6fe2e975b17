package partners

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"proposal-engine/internal/common/errors"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/common/metrics"
	"proposal-engine/internal/engine/rules"
	"proposal-engine/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func newTestScorer(t *testing.T, opts ...Option) *Scorer {
	t.Helper()
	n := 0
	base := []Option{
		WithLogger(logger.NewTestLogger(t)),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("sel-%d", n)
		}),
	}
	return New(rules.Default(), append(base, opts...)...)
}

func ids(candidates []models.SubcontractorCandidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.ID
	}
	return out
}

func rankedIDs(ranked []Ranked) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Candidate.ID
	}
	return out
}

// ==========================
// Candidate Filtering
// ==========================

func TestCandidatesForSpecialty(t *testing.T) {
	p := newTestScorer(t)

	tests := []struct {
		specialty string
		expected  []string
	}{
		{"electrical", []string{"sub-001", "sub-002"}},
		{"ELECTRICAL", []string{"sub-001", "sub-002"}},
		{"hvac", []string{"sub-003"}},
		{"mechanical", []string{"sub-003"}},
		{"fire", []string{"sub-004"}},
		{"security", []string{"sub-005"}},
		// type match plus substring hits on "it services" and "site work"
		{"it", []string{"sub-005", "sub-008", "sub-006"}},
		{"underwater welding", []string{}},
		{"   ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.specialty, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(p.CandidatesForSpecialty(tt.specialty)))
		})
	}
}

func TestCandidatesForSpecialty_EmptyIsLogged(t *testing.T) {
	log, logs := logger.NewObserved(zapcore.WarnLevel)
	p := New(rules.Default(), WithLogger(log))

	assert.Empty(t, p.CandidatesForSpecialty("underwater welding"))
	assert.Equal(t, 1, logs.FilterMessage("no candidates for specialty").Len())
}

func TestRecommend(t *testing.T) {
	p := newTestScorer(t)

	top := p.Recommend("electrical")
	require.NotNil(t, top)
	assert.Equal(t, "sub-001", top.ID)

	assert.Nil(t, p.Recommend("underwater welding"))
}

func TestRecommend_MetricLabelsAreBounded(t *testing.T) {
	tests := []struct {
		name      string
		specialty string
		label     string
		found     bool
	}{
		{"pool type", "  Electrical ", "electrical", true},
		{"specialty substring keyed by type", "cloud", "it", true},
		{"no match", "underwater welding", unknownSpecialty, false},
		{"another miss", "zz-9f3a", unknownSpecialty, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestScorer(t)
			counter := metrics.PartnerRecommendations.WithLabelValues(tt.label, strconv.FormatBool(tt.found))
			before := testutil.ToFloat64(counter)

			top := p.Recommend(tt.specialty)
			assert.Equal(t, tt.found, top != nil)
			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestCandidate(t *testing.T) {
	p := newTestScorer(t)

	c, ok := p.Candidate("sub-007")
	require.True(t, ok)
	assert.Equal(t, "Greenfield Environmental", c.Name)

	_, ok = p.Candidate("sub-404")
	assert.False(t, ok)
}

// ==========================
// Ranking
// ==========================

func TestRank_TiesBrokenByRecommendationScore(t *testing.T) {
	p := newTestScorer(t)

	ranked, err := p.Rank("it", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"sub-005", "sub-008", "sub-006"}, rankedIDs(ranked))
	assert.Equal(t, 77, ranked[0].Score)
	assert.Equal(t, 77, ranked[1].Score)
	assert.Equal(t, 74, ranked[2].Score)
}

func TestRank_CriteriaChangeOrder(t *testing.T) {
	p := newTestScorer(t)

	byQuality, err := p.Rank("it", &models.SelectionCriteria{Quality: 100})
	require.NoError(t, err)
	assert.Equal(t, "sub-005", byQuality[0].Candidate.ID)

	byPrice, err := p.Rank("it", &models.SelectionCriteria{Price: 100})
	require.NoError(t, err)
	assert.Equal(t, "sub-008", byPrice[0].Candidate.ID)
	assert.Equal(t, 75, byPrice[0].Score)
}

func TestRank_StrictCriteriaRejected(t *testing.T) {
	p := newTestScorer(t, WithPolicy(Policy{StrictCriteria: true}))

	_, err := p.Rank("electrical", &models.SelectionCriteria{Price: -1, Quality: 101})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidWeight, errors.CodeOf(err))
}

func TestRank_EmptyPool(t *testing.T) {
	p := newTestScorer(t)

	ranked, err := p.Rank("underwater welding", nil)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestCompare_SkipsUnknownAndDuplicates(t *testing.T) {
	log, logs := logger.NewObserved(zapcore.WarnLevel)
	p := New(rules.Default(), WithLogger(log))

	ranked, err := p.Compare([]string{"sub-002", "sub-404", "sub-001", "sub-002"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"sub-001", "sub-002"}, rankedIDs(ranked))
	assert.Equal(t, 87, ranked[0].Score)
	assert.Equal(t, 73, ranked[1].Score)

	entries := logs.FilterMessage("unknown candidate skipped").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "sub-404", entries[0].ContextMap()["candidateId"])
}

// ==========================
// Selection
// ==========================

func TestSelect_RecordsSelection(t *testing.T) {
	p := newTestScorer(t)
	ctx := context.Background()

	sel, err := p.Select(ctx, "rfp-1", "electrical", "sub-001", "lowest risk", nil)
	require.NoError(t, err)

	assert.Equal(t, "sel-1", sel.ID)
	assert.Equal(t, "rfp-1", sel.RFPID)
	assert.Equal(t, "electrical", sel.Category)
	assert.Equal(t, "sub-001", sel.SelectedCandidateID)
	assert.Equal(t, models.SelectionSelected, sel.Status)
	assert.Equal(t, DefaultCriteria, sel.Criteria)
	assert.Equal(t, fixedNow, sel.LastUpdated)

	current, err := p.CurrentSelection(ctx, "rfp-1", "electrical")
	require.NoError(t, err)
	assert.Equal(t, sel, current)
}

func TestSelect_LastWriteWinsPerCategory(t *testing.T) {
	p := newTestScorer(t)
	ctx := context.Background()

	_, err := p.Select(ctx, "rfp-1", "electrical", "sub-001", "", nil)
	require.NoError(t, err)
	_, err = p.Select(ctx, "rfp-1", "hvac", "sub-003", "", nil)
	require.NoError(t, err)
	second, err := p.Select(ctx, "rfp-1", "electrical", "sub-002", "backup", nil)
	require.NoError(t, err)

	current, err := p.CurrentSelection(ctx, "rfp-1", "electrical")
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
	assert.Equal(t, "sub-002", current.SelectedCandidateID)

	hvac, err := p.CurrentSelection(ctx, "rfp-1", "hvac")
	require.NoError(t, err)
	assert.Equal(t, "sub-003", hvac.SelectedCandidateID)

	none, err := p.CurrentSelection(ctx, "rfp-2", "electrical")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSelect_UnknownCandidate(t *testing.T) {
	ctx := context.Background()

	lenient := newTestScorer(t)
	sel, err := lenient.Select(ctx, "rfp-1", "electrical", "sub-404", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "sub-404", sel.SelectedCandidateID)

	strict := newTestScorer(t, WithPolicy(Policy{ValidateSelections: true}))
	_, err = strict.Select(ctx, "rfp-1", "electrical", "sub-404", "", nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
}

func TestSelect_InvalidInput(t *testing.T) {
	p := newTestScorer(t)

	_, err := p.Select(context.Background(), "", " ", "sub-001", "", nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))
	assert.Equal(t, "missing category, rfpId", errors.AsStandard(err).Details)
}

func TestSelect_NormalizesCriteria(t *testing.T) {
	p := newTestScorer(t)

	sel, err := p.Select(context.Background(), "rfp-1", "hvac", "sub-003", "", &models.SelectionCriteria{Price: 1, Quality: 1})
	require.NoError(t, err)
	assert.Equal(t, models.SelectionCriteria{Price: 50, Quality: 50}, sel.Criteria)
}

type failingStore struct{ err error }

func (f failingStore) Save(context.Context, models.SubcontractorSelection) error { return f.err }

func (f failingStore) Current(context.Context, string, string) (*models.SubcontractorSelection, error) {
	return nil, f.err
}

func TestSelect_StoreFailure(t *testing.T) {
	storeErr := errors.NewSelectionStoreError("save", stderrors.New("connection refused"))
	p := newTestScorer(t, WithSelectionStore(failingStore{err: storeErr}))

	_, err := p.Select(context.Background(), "rfp-1", "hvac", "sub-003", "", nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSelectionStoreFailed, errors.CodeOf(err))
	assert.True(t, errors.IsRetryable(err))
}
