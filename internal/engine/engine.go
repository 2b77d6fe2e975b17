// internal/engine/engine.go

// Package engine bundles the checklist, coverage and partner subsystems built
// from one rule catalog. The subsystems share the catalog and nothing else.
package engine

import (
	"time"

	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/engine/checklist"
	"proposal-engine/internal/engine/coverage"
	"proposal-engine/internal/engine/partners"
	"proposal-engine/internal/engine/rules"
)

type Options struct {
	Catalog             *rules.Catalog
	ChecklistStore      checklist.Store
	SelectionStore      partners.SelectionStore
	EnforceDependencies bool
	PartnerPolicy       partners.Policy
	Logger              logger.Logger
	Clock               func() time.Time
}

type Engine struct {
	Catalog   *rules.Catalog
	Checklist *checklist.Engine
	Coverage  *coverage.Matcher
	Partners  *partners.Scorer
}

// New wires the three subsystems. A nil catalog means the compiled-in one,
// nil stores mean in-memory state.
func New(opts Options) *Engine {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = rules.Default()
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	checklistOpts := []checklist.Option{
		checklist.WithLogger(log.WithFields(map[string]interface{}{"component": "checklist"})),
		checklist.WithEnforceDependencies(opts.EnforceDependencies),
	}
	coverageOpts := []coverage.Option{
		coverage.WithLogger(log.WithFields(map[string]interface{}{"component": "coverage"})),
	}
	partnerOpts := []partners.Option{
		partners.WithLogger(log.WithFields(map[string]interface{}{"component": "partners"})),
		partners.WithPolicy(opts.PartnerPolicy),
	}

	if opts.ChecklistStore != nil {
		checklistOpts = append(checklistOpts, checklist.WithStore(opts.ChecklistStore))
	}
	if opts.SelectionStore != nil {
		partnerOpts = append(partnerOpts, partners.WithSelectionStore(opts.SelectionStore))
	}
	if opts.Clock != nil {
		checklistOpts = append(checklistOpts, checklist.WithClock(opts.Clock))
		coverageOpts = append(coverageOpts, coverage.WithClock(opts.Clock))
		partnerOpts = append(partnerOpts, partners.WithClock(opts.Clock))
	}

	return &Engine{
		Catalog:   catalog,
		Checklist: checklist.New(catalog, checklistOpts...),
		Coverage:  coverage.New(catalog, coverageOpts...),
		Partners:  partners.New(catalog, partnerOpts...),
	}
}
