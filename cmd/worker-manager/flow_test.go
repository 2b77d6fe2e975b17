// cmd/worker-manager/flow_test.go
package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/camunda/camundatest"
	"proposal-engine/internal/common/documents"
	"proposal-engine/internal/common/events"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/common/validation"
	"proposal-engine/internal/engine"
	"proposal-engine/internal/engine/checklist"
	"proposal-engine/pkg/registry"
)

// newDocumentIndex serves one W-9 for every search.
func newDocumentIndex(t *testing.T) documents.Source {
	t.Helper()
	uploaded := time.Now().AddDate(0, 0, -10).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{"hits":{"hits":[
	  {"_id":"w9-acme","_source":{"name":"acme-w9.pdf","declaredType":"pdf","tags":["w9"],
	    "uploadedAt":%q,"scope":{"companyId":"acme","opportunityId":"rfp-7"}}}]}}`, uploaded)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}, DisableRetry: true})
	require.NoError(t, err)
	return documents.NewElasticsearchSource(client, "documents", 50)
}

func runJob(t *testing.T, h camunda.JobHandler, key int64, taskType string, vars map[string]interface{}, out interface{}) {
	t.Helper()
	client := camundatest.NewJobClient()
	h.Handle(client, camundatest.NewJob(key, taskType, vars))
	require.Empty(t, client.Gateway.Thrown(), taskType)
	require.Empty(t, client.Gateway.Failed(), taskType)
	require.NoError(t, client.Gateway.CompletedVariables(out), taskType)
}

// TestProposalFlow drives one proposal through the workers the way the
// BPMN process does, with Redis-backed checklist state and an Elasticsearch
// document index.
func TestProposalFlow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	reg := registry.Default()
	eng := engine.New(engine.Options{
		ChecklistStore: checklist.NewRedisStore(rdb, checklist.WithKeyPrefix("flow")),
		Logger:         logger.NewTestLogger(t),
	})
	handlers := buildHandlers(handlerDeps{
		Engine:    eng,
		Documents: newDocumentIndex(t),
		Publisher: events.NoopPublisher{},
		Registry:  reg,
		Runner: camunda.RunnerOptions{
			Validator: validation.NewValidator(reg),
			Logger:    logger.NewTestLogger(t),
		},
	})

	session := map[string]interface{}{"sessionId": "rfp-7", "sectionId": "compliance"}
	with := func(extra map[string]interface{}) map[string]interface{} {
		vars := map[string]interface{}{}
		for k, v := range session {
			vars[k] = v
		}
		for k, v := range extra {
			vars[k] = v
		}
		return vars
	}

	var initialized struct {
		SectionProgress struct {
			OverallProgress int `json:"overallProgress"`
		} `json:"sectionProgress"`
		SectionState string `json:"sectionState"`
	}
	runJob(t, handlers["initialize-section"], 1, "initialize-section", session, &initialized)
	assert.Equal(t, 0, initialized.SectionProgress.OverallProgress)
	assert.Equal(t, "available", initialized.SectionState)
	assert.NotEmpty(t, mr.Keys(), "checklist state lives in redis")

	var updated struct {
		SectionProgress struct {
			OverallProgress int `json:"overallProgress"`
		} `json:"sectionProgress"`
		SectionState string `json:"sectionState"`
	}
	runJob(t, handlers["update-checklist-item"], 2, "update-checklist-item",
		with(map[string]interface{}{"itemId": "upload-w9", "completed": true}), &updated)
	assert.Equal(t, 20, updated.SectionProgress.OverallProgress)
	assert.Equal(t, "in-progress", updated.SectionState)

	var check struct {
		CanComplete bool     `json:"canComplete"`
		BlockedBy   []string `json:"blockedBy"`
	}
	runJob(t, handlers["can-complete-item"], 3, "can-complete-item",
		with(map[string]interface{}{"itemId": "compliance-review"}), &check)
	assert.False(t, check.CanComplete)
	assert.ElementsMatch(t, []string{"upload-coi", "verify-sam"}, check.BlockedBy)

	var coverage struct {
		CoveredCount        int      `json:"coveredCount"`
		MissingArtifacts    []string `json:"missingArtifacts"`
		DocumentsConsidered int      `json:"documentsConsidered"`
	}
	runJob(t, handlers["match-artifacts"], 4, "match-artifacts", map[string]interface{}{
		"artifactNames": []string{"W-9", "Certificate of Insurance"},
		"scope":         map[string]interface{}{"companyId": "acme", "opportunityId": "rfp-7"},
	}, &coverage)
	assert.Equal(t, 1, coverage.CoveredCount)
	assert.Equal(t, []string{"Certificate of Insurance"}, coverage.MissingArtifacts)
	assert.Equal(t, 1, coverage.DocumentsConsidered)

	var ranked struct {
		TopCandidateID string `json:"topCandidateId"`
	}
	runJob(t, handlers["rank-partners"], 5, "rank-partners",
		map[string]interface{}{
			"specialty": "electrical",
			"criteria":  map[string]interface{}{"price": 30, "quality": 40, "schedule": 20, "experience": 10},
		}, &ranked)
	assert.Equal(t, "sub-001", ranked.TopCandidateID)

	var selected struct {
		Selection struct {
			RFPID               string `json:"rfpId"`
			SelectedCandidateID string `json:"selectedCandidateId"`
		} `json:"selection"`
		EventPublished bool `json:"eventPublished"`
	}
	runJob(t, handlers["select-partner"], 6, "select-partner", map[string]interface{}{
		"rfpId":       "rfp-7",
		"category":    "electrical",
		"candidateId": ranked.TopCandidateID,
	}, &selected)
	assert.Equal(t, "rfp-7", selected.Selection.RFPID)
	assert.Equal(t, "sub-001", selected.Selection.SelectedCandidateID)
	assert.False(t, selected.EventPublished)
}
