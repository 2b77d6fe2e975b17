// Package checklist tracks per-session section checklists, derives completion
// and decides whether a section's gate is open.
package checklist

import (
	"context"
	"time"

	"proposal-engine/internal/common/errors"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/common/metrics"
	"proposal-engine/internal/engine/rules"
	"proposal-engine/internal/models"
)

type Engine struct {
	catalog *rules.Catalog
	store   Store
	log     logger.Logger
	now     func() time.Time

	// enforceDependencies rejects completing an item whose dependencies are
	// incomplete. When false the check is advisory and callers use CanCompleteItem.
	enforceDependencies bool
}

type Option func(*Engine)

func WithStore(s Store) Option {
	return func(e *Engine) { e.store = s }
}

func WithLogger(l logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithEnforceDependencies(enforce bool) Option {
	return func(e *Engine) { e.enforceDependencies = enforce }
}

// New builds an engine over catalog. Without WithStore state lives in memory.
func New(catalog *rules.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		log:     logger.NewNoOpLogger(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = NewMemoryStore()
	}
	return e
}

// ItemCheck is the dependency gate for one item.
type ItemCheck struct {
	Found       bool       `json:"found"`
	CanComplete bool       `json:"canComplete"`
	State       ItemStatus `json:"itemState,omitempty"`
	BlockedBy   []string   `json:"blockedBy"`
}

// InitializeSection returns the stored progress for the section, creating it
// from the section template on first use. Existing progress is never reset.
func (e *Engine) InitializeSection(ctx context.Context, sessionID, sectionID string) (*models.SectionProgress, error) {
	key := Key{SessionID: sessionID, SectionID: sectionID}

	existing, err := e.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return e.store.Update(ctx, key, func(current *models.SectionProgress) (*models.SectionProgress, error) {
		if current != nil {
			return current, nil
		}
		return e.instantiate(key), nil
	})
}

// CanCompleteItem reports whether every dependency of itemID is completed.
// Unknown items are reported as not completable.
func (e *Engine) CanCompleteItem(ctx context.Context, sessionID, sectionID, itemID string) (bool, error) {
	check, err := e.CheckItem(ctx, sessionID, sectionID, itemID)
	if err != nil {
		return false, err
	}
	return check.CanComplete, nil
}

// CheckItem is CanCompleteItem with the derived item state and blocking items.
// It reads state without creating it; an uninitialized section is judged
// against its template.
func (e *Engine) CheckItem(ctx context.Context, sessionID, sectionID, itemID string) (*ItemCheck, error) {
	key := Key{SessionID: sessionID, SectionID: sectionID}

	progress, err := e.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = e.instantiate(key)
	}

	idx := progress.Item(itemID)
	if idx < 0 {
		e.unknownItem(key, itemID)
		return &ItemCheck{BlockedBy: []string{}}, nil
	}

	item := progress.Items[idx]
	blocked := BlockedBy(progress.Items, item)
	if blocked == nil {
		blocked = []string{}
	}
	return &ItemCheck{
		Found:       true,
		CanComplete: len(blocked) == 0,
		State:       ItemState(progress.Items, item),
		BlockedBy:   blocked,
	}, nil
}

// UpdateChecklistItem sets one item's completed flag, runs the automatic
// cascade and persists the recomputed section.
func (e *Engine) UpdateChecklistItem(ctx context.Context, sessionID, sectionID, itemID string, completed bool) (*models.SectionProgress, error) {
	return e.BatchUpdate(ctx, sessionID, sectionID, []models.ItemUpdate{{ItemID: itemID, Completed: completed}})
}

// BatchUpdate applies every update, then the cascade pass, then one recompute
// and one persist. Either all updates land or none do.
func (e *Engine) BatchUpdate(ctx context.Context, sessionID, sectionID string, updates []models.ItemUpdate) (*models.SectionProgress, error) {
	key := Key{SessionID: sessionID, SectionID: sectionID}
	progress, err := e.store.Update(ctx, key, func(current *models.SectionProgress) (*models.SectionProgress, error) {
		if current == nil {
			current = e.instantiate(key)
		}
		if err := e.apply(key, current, updates); err != nil {
			return nil, err
		}
		e.recompute(current)
		return current, nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordGateDecision(progress.TemplateID, progress.CanProceed)
	return progress, nil
}

// CompleteFirst marks the first n items of the section complete in template
// order, as a single batch.
func (e *Engine) CompleteFirst(ctx context.Context, sessionID, sectionID string, n int) (*models.SectionProgress, error) {
	key := Key{SessionID: sessionID, SectionID: sectionID}
	progress, err := e.store.Update(ctx, key, func(current *models.SectionProgress) (*models.SectionProgress, error) {
		if current == nil {
			current = e.instantiate(key)
		}
		limit := n
		if limit < 0 {
			limit = 0
		}
		if limit > len(current.Items) {
			limit = len(current.Items)
		}
		updates := make([]models.ItemUpdate, 0, limit)
		for _, item := range current.Items[:limit] {
			updates = append(updates, models.ItemUpdate{ItemID: item.ID, Completed: true})
		}
		if err := e.apply(key, current, updates); err != nil {
			return nil, err
		}
		e.recompute(current)
		return current, nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordGateDecision(progress.TemplateID, progress.CanProceed)
	return progress, nil
}

// apply mutates progress in place. Automatic items marked complete cascade to
// their direct dependents in a separate pass after every update is applied.
func (e *Engine) apply(key Key, progress *models.SectionProgress, updates []models.ItemUpdate) error {
	var triggers []string
	for _, u := range updates {
		idx := progress.Item(u.ItemID)
		if idx < 0 {
			e.unknownItem(key, u.ItemID)
			continue
		}
		item := &progress.Items[idx]
		if e.enforceDependencies && u.Completed && !item.Completed {
			if blocked := BlockedBy(progress.Items, *item); len(blocked) > 0 {
				return errors.NewDependenciesUnmetError(item.ID, blocked)
			}
		}
		item.Completed = u.Completed
		if u.Completed && item.ActionKind == models.ActionAutomatic {
			triggers = append(triggers, item.ID)
		}
	}

	e.cascade(key, progress, triggers)
	return nil
}

// cascade completes items that directly depend on a completed trigger. It does
// not recurse: an item completed here never triggers further completions.
func (e *Engine) cascade(key Key, progress *models.SectionProgress, triggers []string) {
	if len(triggers) == 0 {
		return
	}

	var toComplete []int
	for _, trigger := range triggers {
		idx := progress.Item(trigger)
		if idx < 0 || !progress.Items[idx].Completed {
			continue
		}
		for j, dependent := range progress.Items {
			if dependent.Completed || !dependent.DependsOn(trigger) {
				continue
			}
			if e.enforceDependencies && len(BlockedBy(progress.Items, dependent)) > 0 {
				continue
			}
			toComplete = append(toComplete, j)
		}
	}

	for _, j := range toComplete {
		if progress.Items[j].Completed {
			continue
		}
		progress.Items[j].Completed = true
		e.log.Debug("auto-completed dependent item", map[string]interface{}{
			"sessionId": key.SessionID,
			"sectionId": key.SectionID,
			"itemId":    progress.Items[j].ID,
		})
	}
}

func (e *Engine) recompute(progress *models.SectionProgress) {
	progress.OverallProgress, progress.CanProceed = ScoreCompletion(progress.Items)
	progress.IsComplete = progress.OverallProgress == 100
	progress.LastUpdated = e.now()
}

func (e *Engine) instantiate(key Key) *models.SectionProgress {
	tmpl, ok := e.catalog.Section(key.SectionID)
	if !ok {
		e.log.Warn("unknown section, using default template", map[string]interface{}{
			"sessionId":  key.SessionID,
			"sectionId":  key.SectionID,
			"templateId": tmpl.ID,
		})
		metrics.RecordFallback(metrics.FallbackSection)
	}

	progress := &models.SectionProgress{
		SectionID:  key.SectionID,
		TemplateID: tmpl.ID,
		Items:      tmpl.Instantiate(),
		Fallback:   !ok,
	}
	e.recompute(progress)
	return progress
}

func (e *Engine) unknownItem(key Key, itemID string) {
	e.log.Warn("unknown checklist item ignored", map[string]interface{}{
		"sessionId": key.SessionID,
		"sectionId": key.SectionID,
		"itemId":    itemID,
	})
	metrics.RecordFallback(metrics.FallbackItem)
}
