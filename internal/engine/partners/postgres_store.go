package partners

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"proposal-engine/internal/common/errors"
	"proposal-engine/internal/models"

	_ "github.com/lib/pq"
)

const selectionsSchema = `
	CREATE TABLE IF NOT EXISTS subcontractor_selections (
		id           TEXT        NOT NULL,
		rfp_id       TEXT        NOT NULL,
		category     TEXT        NOT NULL,
		candidate_id TEXT        NOT NULL,
		criteria     JSONB       NOT NULL,
		status       TEXT        NOT NULL,
		notes        TEXT        NOT NULL DEFAULT '',
		last_updated TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (rfp_id, category)
	)
`

const upsertSelection = `
	INSERT INTO subcontractor_selections (id, rfp_id, category, candidate_id, criteria, status, notes, last_updated)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (rfp_id, category) DO UPDATE SET
		id = EXCLUDED.id,
		candidate_id = EXCLUDED.candidate_id,
		criteria = EXCLUDED.criteria,
		status = EXCLUDED.status,
		notes = EXCLUDED.notes,
		last_updated = EXCLUDED.last_updated
`

const selectCurrentSelection = `SELECT id, rfp_id, category, candidate_id, criteria, status, notes, last_updated FROM subcontractor_selections WHERE rfp_id = $1 AND category = $2`

// PostgresSelectionStore persists selections in the subcontractor_selections table.
type PostgresSelectionStore struct {
	db *sql.DB
}

func NewPostgresSelectionStore(db *sql.DB) *PostgresSelectionStore {
	return &PostgresSelectionStore{db: db}
}

// EnsureSchema creates the selections table when it does not exist.
func (s *PostgresSelectionStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, selectionsSchema); err != nil {
		return errors.NewSelectionStoreError("migrate", err)
	}
	return nil
}

func (s *PostgresSelectionStore) Save(ctx context.Context, sel models.SubcontractorSelection) error {
	criteria, err := json.Marshal(sel.Criteria)
	if err != nil {
		return errors.NewInternalError(err)
	}

	_, err = s.db.ExecContext(ctx, upsertSelection,
		sel.ID, sel.RFPID, sel.Category, sel.SelectedCandidateID,
		string(criteria), string(sel.Status), sel.Notes, sel.LastUpdated)
	if err != nil {
		return errors.NewSelectionStoreError("save", err)
	}
	return nil
}

func (s *PostgresSelectionStore) Current(ctx context.Context, rfpID, category string) (*models.SubcontractorSelection, error) {
	var (
		sel      models.SubcontractorSelection
		criteria []byte
		status   string
	)
	err := s.db.QueryRowContext(ctx, selectCurrentSelection, rfpID, category).Scan(
		&sel.ID, &sel.RFPID, &sel.Category, &sel.SelectedCandidateID,
		&criteria, &status, &sel.Notes, &sel.LastUpdated)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewSelectionStoreError("load", err)
	}

	if err := json.Unmarshal(criteria, &sel.Criteria); err != nil {
		return nil, errors.NewSelectionStoreError("decode", err)
	}
	sel.Status = models.SelectionStatus(status)
	return &sel, nil
}
