// internal/common/documents/source.go

// Package documents reads the document snapshot a coverage check runs against.
package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"proposal-engine/internal/common/errors"
	"proposal-engine/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	DefaultIndex = "documents"
	DefaultSize  = 200
)

// Source returns the documents visible to a scope.
type Source interface {
	Snapshot(ctx context.Context, scope models.DocumentScope) ([]models.DocumentRecord, error)
}

// ElasticsearchSource searches one index. Opportunity documents rank ahead of
// the company library so equal coverage scores prefer them.
type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
	size   int
}

func NewElasticsearchSource(client *elasticsearch.Client, index string, size int) *ElasticsearchSource {
	if index == "" {
		index = DefaultIndex
	}
	if size <= 0 {
		size = DefaultSize
	}
	return &ElasticsearchSource{client: client, index: index, size: size}
}

func buildSnapshotQuery(scope models.DocumentScope, size int) map[string]interface{} {
	var should []interface{}
	if scope.OpportunityID != "" {
		should = append(should, map[string]interface{}{
			"term": map[string]interface{}{
				"scope.opportunityId": map[string]interface{}{"value": scope.OpportunityID, "boost": 2},
			},
		})
	}
	if scope.CompanyID != "" {
		should = append(should, map[string]interface{}{
			"bool": map[string]interface{}{
				"filter":   []interface{}{map[string]interface{}{"term": map[string]interface{}{"scope.companyId": scope.CompanyID}}},
				"must_not": []interface{}{map[string]interface{}{"exists": map[string]interface{}{"field": "scope.opportunityId"}}},
			},
		})
	}

	return map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               should,
				"minimum_should_match": 1,
			},
		},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"uploadedAt": map[string]interface{}{"order": "desc", "unmapped_type": "date"}},
		},
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string                `json:"_id"`
			Source models.DocumentRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Snapshot returns the scope's documents. An empty scope or a missing index yields no documents.
func (s *ElasticsearchSource) Snapshot(ctx context.Context, scope models.DocumentScope) ([]models.DocumentRecord, error) {
	if scope.Source() == "" {
		return nil, nil
	}

	body, err := json.Marshal(buildSnapshotQuery(scope, s.size))
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, errors.NewDocumentSourceError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.IsError() {
		return nil, errors.NewDocumentSourceError(fmt.Errorf("search %s: %s", s.index, res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewDocumentSourceError(fmt.Errorf("decode search response: %w", err))
	}

	docs := make([]models.DocumentRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		doc := hit.Source
		if doc.ID == "" {
			doc.ID = hit.ID
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
