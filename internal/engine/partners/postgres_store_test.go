package partners

import (
	"context"
	"database/sql"
	stderrors "errors"
	"regexp"
	"testing"

	"proposal-engine/internal/common/errors"
	"proposal-engine/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var selectionColumns = []string{"id", "rfp_id", "category", "candidate_id", "criteria", "status", "notes", "last_updated"}

func newMockStore(t *testing.T) (*PostgresSelectionStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresSelectionStore(db), mock
}

func sampleSelection() models.SubcontractorSelection {
	return models.SubcontractorSelection{
		ID:                  "0b8f3c1e-6a55-4d0e-9a43-1f2d3c4b5a69",
		RFPID:               "rfp-1",
		Category:            "electrical",
		SelectedCandidateID: "sub-001",
		Criteria:            DefaultCriteria,
		Status:              models.SelectionSelected,
		Notes:               "lowest risk",
		LastUpdated:         fixedNow,
	}
}

func TestPostgresSelectionStore_EnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS subcontractor_selections")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSelectionStore_Save(t *testing.T) {
	store, mock := newMockStore(t)
	sel := sampleSelection()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subcontractor_selections")).
		WithArgs(sel.ID, "rfp-1", "electrical", "sub-001",
			`{"price":30,"quality":40,"schedule":20,"experience":10}`,
			"selected", "lowest risk", fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Save(context.Background(), sel))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSelectionStore_SaveFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subcontractor_selections")).
		WillReturnError(stderrors.New("connection reset"))

	err := store.Save(context.Background(), sampleSelection())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSelectionStoreFailed, errors.CodeOf(err))
	assert.True(t, errors.IsRetryable(err))
}

func TestPostgresSelectionStore_Current(t *testing.T) {
	store, mock := newMockStore(t)
	sel := sampleSelection()

	rows := sqlmock.NewRows(selectionColumns).AddRow(
		sel.ID, "rfp-1", "electrical", "sub-001",
		[]byte(`{"price":30,"quality":40,"schedule":20,"experience":10}`),
		"selected", "lowest risk", fixedNow)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, rfp_id, category, candidate_id, criteria, status, notes, last_updated FROM subcontractor_selections WHERE rfp_id = $1 AND category = $2")).
		WithArgs("rfp-1", "electrical").
		WillReturnRows(rows)

	got, err := store.Current(context.Background(), "rfp-1", "electrical")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sel, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSelectionStore_CurrentMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, rfp_id")).
		WithArgs("rfp-2", "hvac").
		WillReturnError(sql.ErrNoRows)

	got, err := store.Current(context.Background(), "rfp-2", "hvac")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostgresSelectionStore_CurrentFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mock sqlmock.Sqlmock)
	}{
		{
			name: "query error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, rfp_id")).
					WillReturnError(stderrors.New("timeout"))
			},
		},
		{
			name: "corrupt criteria",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, rfp_id")).
					WillReturnRows(sqlmock.NewRows(selectionColumns).
						AddRow("id", "rfp-1", "hvac", "sub-003", []byte(`{`), "selected", "", fixedNow))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tt.setup(mock)

			_, err := store.Current(context.Background(), "rfp-1", "hvac")
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeSelectionStoreFailed, errors.CodeOf(err))
		})
	}
}

func TestScorer_SelectThroughPostgres(t *testing.T) {
	store, mock := newMockStore(t)
	p := newTestScorer(t, WithSelectionStore(store))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subcontractor_selections")).
		WithArgs("sel-1", "rfp-9", "hvac", "sub-003", sqlmock.AnyArg(), "selected", "", fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sel, err := p.Select(context.Background(), "rfp-9", "hvac", "sub-003", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "sel-1", sel.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
