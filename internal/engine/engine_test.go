package engine

import (
	"context"
	"testing"
	"time"

	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/engine/partners"
	"proposal-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func TestNew_Defaults(t *testing.T) {
	e := New(Options{})

	require.NotNil(t, e.Catalog)
	require.NotNil(t, e.Checklist)
	require.NotNil(t, e.Coverage)
	require.NotNil(t, e.Partners)
	assert.Contains(t, e.Catalog.SectionIDs(), "overview")
}

func TestNew_SubsystemsShareCatalogOnly(t *testing.T) {
	e := New(Options{
		Logger: logger.NewTestLogger(t),
		Clock:  func() time.Time { return fixedNow },
	})
	ctx := context.Background()

	p, err := e.Checklist.UpdateChecklistItem(ctx, "s-1", "overview", "review-rfp", true)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, p.LastUpdated)

	uploaded := fixedNow.AddDate(0, -1, 0)
	match := e.Coverage.MatchArtifact("W-9", []models.DocumentRecord{
		{ID: "w9", DeclaredType: "pdf", Tags: []string{"w9"}, UploadedAt: &uploaded},
	})
	assert.True(t, match.Matched)
	assert.Equal(t, 0.95, match.Confidence)

	top := e.Partners.Recommend("electrical")
	require.NotNil(t, top)
	assert.Equal(t, "electrical", top.Type)
}

func TestNew_InjectedStoresAndPolicy(t *testing.T) {
	store := partners.NewMemorySelectionStore()
	e := New(Options{
		SelectionStore:      store,
		EnforceDependencies: true,
		PartnerPolicy:       partners.Policy{ValidateSelections: true},
	})
	ctx := context.Background()

	_, err := e.Checklist.UpdateChecklistItem(ctx, "s-1", "overview", "confirm-eligibility", true)
	assert.Error(t, err, "enforced dependencies reject out-of-order completion")

	_, err = e.Partners.Select(ctx, "rfp-1", "it", "sub-999", "", nil)
	assert.Error(t, err, "validated selections reject unknown candidates")

	_, err = e.Partners.Select(ctx, "rfp-1", "it", "sub-005", "", nil)
	require.NoError(t, err)
	sel, err := store.Current(ctx, "rfp-1", "it")
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, "sub-005", sel.SelectedCandidateID)
}
