// cmd/worker-manager/workers.go
package main

import (
	"time"

	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/documents"
	"proposal-engine/internal/common/events"
	"proposal-engine/internal/engine"
	"proposal-engine/pkg/registry"

	// Checklist Workers (4)
	buc "proposal-engine/internal/workers/checklist/batch-update-checklist"
	cci "proposal-engine/internal/workers/checklist/can-complete-item"
	ins "proposal-engine/internal/workers/checklist/initialize-section"
	uci "proposal-engine/internal/workers/checklist/update-checklist-item"

	// Coverage Workers (2)
	ma "proposal-engine/internal/workers/coverage/match-artifact"
	mas "proposal-engine/internal/workers/coverage/match-artifacts"

	// Partner Workers (5)
	cfs "proposal-engine/internal/workers/partners/candidates-for-specialty"
	rp "proposal-engine/internal/workers/partners/rank-partners"
	rcp "proposal-engine/internal/workers/partners/recommend-partner"
	sc "proposal-engine/internal/workers/partners/score-candidate"
	sp "proposal-engine/internal/workers/partners/select-partner"
)

// handlerDeps is everything the task handlers are built from.
type handlerDeps struct {
	Engine       *engine.Engine
	Documents    documents.Source
	Publisher    events.Publisher
	PublishEvent bool
	Registry     *registry.ActivityRegistry
	Runner       camunda.RunnerOptions
}

// activityTimeout prefers the registry's per-activity timeout over the
// handler default.
func activityTimeout(reg *registry.ActivityRegistry, taskType string, fallback time.Duration) time.Duration {
	if reg == nil {
		return fallback
	}
	activity, ok := reg.Find(taskType)
	if !ok {
		return fallback
	}
	return activity.TimeoutDuration(fallback)
}

// buildHandlers constructs one handler per task type.
func buildHandlers(deps handlerDeps) map[string]camunda.JobHandler {
	handlers := make(map[string]camunda.JobHandler, 11)
	eng := deps.Engine

	// --- Checklist ---
	insCfg := ins.LoadConfig()
	insCfg.Timeout = activityTimeout(deps.Registry, ins.TaskType, insCfg.Timeout)
	handlers[ins.TaskType] = ins.NewHandler(insCfg, eng.Checklist, deps.Runner)

	uciCfg := uci.LoadConfig()
	uciCfg.Timeout = activityTimeout(deps.Registry, uci.TaskType, uciCfg.Timeout)
	handlers[uci.TaskType] = uci.NewHandler(uciCfg, eng.Checklist, deps.Runner)

	bucCfg := buc.LoadConfig()
	bucCfg.Timeout = activityTimeout(deps.Registry, buc.TaskType, bucCfg.Timeout)
	handlers[buc.TaskType] = buc.NewHandler(bucCfg, eng.Checklist, deps.Runner)

	cciCfg := cci.LoadConfig()
	cciCfg.Timeout = activityTimeout(deps.Registry, cci.TaskType, cciCfg.Timeout)
	handlers[cci.TaskType] = cci.NewHandler(cciCfg, eng.Checklist, deps.Runner)

	// --- Coverage ---
	maCfg := ma.LoadConfig()
	maCfg.Timeout = activityTimeout(deps.Registry, ma.TaskType, maCfg.Timeout)
	handlers[ma.TaskType] = ma.NewHandler(maCfg, eng.Coverage, deps.Documents, deps.Runner)

	masCfg := mas.LoadConfig()
	masCfg.Timeout = activityTimeout(deps.Registry, mas.TaskType, masCfg.Timeout)
	handlers[mas.TaskType] = mas.NewHandler(masCfg, eng.Coverage, deps.Documents, deps.Runner)

	// --- Partners ---
	cfsCfg := cfs.LoadConfig()
	cfsCfg.Timeout = activityTimeout(deps.Registry, cfs.TaskType, cfsCfg.Timeout)
	handlers[cfs.TaskType] = cfs.NewHandler(cfsCfg, eng.Partners, deps.Runner)

	scCfg := sc.LoadConfig()
	scCfg.Timeout = activityTimeout(deps.Registry, sc.TaskType, scCfg.Timeout)
	handlers[sc.TaskType] = sc.NewHandler(scCfg, eng.Partners, deps.Runner)

	rcpCfg := rcp.LoadConfig()
	rcpCfg.Timeout = activityTimeout(deps.Registry, rcp.TaskType, rcpCfg.Timeout)
	handlers[rcp.TaskType] = rcp.NewHandler(rcpCfg, eng.Partners, deps.Runner)

	rpCfg := rp.LoadConfig()
	rpCfg.Timeout = activityTimeout(deps.Registry, rp.TaskType, rpCfg.Timeout)
	handlers[rp.TaskType] = rp.NewHandler(rpCfg, eng.Partners, deps.Runner)

	spCfg := sp.LoadConfig()
	spCfg.Timeout = activityTimeout(deps.Registry, sp.TaskType, spCfg.Timeout)
	spCfg.PublishEvent = deps.PublishEvent
	handlers[sp.TaskType] = sp.NewHandler(spCfg, eng.Partners, deps.Publisher, deps.Runner)

	return handlers
}
